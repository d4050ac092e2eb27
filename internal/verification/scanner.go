package verification

import (
	"regexp"
	"strings"
)

// qualificationKeywords are the terms a genuine medical credential is
// expected to contain. Order matters: matched keywords are reported in
// declaration order as evidence.
var qualificationKeywords = []string{
	"Doctor", "Medicine", "License", "Board", "MD",
	"Surgeon", "Medical", "Surgery", "Degree", "Diploma",
}

const snippetLength = 200

var keywordPatterns = compileKeywordPatterns(qualificationKeywords)

func compileKeywordPatterns(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		// Whole-word, case-insensitive: "MD" must not match inside "ABCMDXYZ".
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return patterns
}

// ScanDocumentText runs the keyword content check over extracted text lines.
// Pure and deterministic: a document passes when at least one qualification
// keyword appears as a whole word, any case.
func ScanDocumentText(lines []string) DocumentScanResult {
	fullText := strings.Join(lines, " ")

	var matched []string
	for i, pattern := range keywordPatterns {
		if pattern.MatchString(fullText) {
			matched = append(matched, qualificationKeywords[i])
		}
	}

	// Truncate on rune boundaries; OCR output can carry multibyte characters.
	snippet := fullText
	if runes := []rune(snippet); len(runes) > snippetLength {
		snippet = string(runes[:snippetLength])
	}

	return DocumentScanResult{
		Passed:          len(matched) >= 1,
		MatchedKeywords: matched,
		TextSnippet:     snippet,
	}
}
