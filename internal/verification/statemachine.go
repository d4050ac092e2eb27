package verification

import "mediconnect/internal/subject"

// nextStatusForDiploma computes the status a diploma scan outcome proposes.
// A passing scan routes a doctor to human review; a failing scan is an
// automatic rejection. The store applies the proposal only when it outranks
// the persisted status, so this function stays pure.
func nextStatusForDiploma(passed bool) subject.Status {
	if passed {
		return subject.StatusPendingReview
	}
	return subject.StatusRejectedAuto
}

// nextStatusForIdentity computes the status a successful identity match
// proposes. Patients terminate at VERIFIED; doctors still await the diploma
// check and officer review. Failed matches never reach here: they leave the
// record untouched so the subject can resubmit.
func nextStatusForIdentity(role subject.Role) subject.Status {
	if role == subject.RoleDoctor {
		return subject.StatusPendingReview
	}
	return subject.StatusVerified
}
