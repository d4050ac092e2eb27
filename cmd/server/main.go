package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"mediconnect/internal/analytics"
	"mediconnect/internal/facecompare"
	"mediconnect/internal/imagestore"
	jwttoken "mediconnect/internal/jwt_token"
	"mediconnect/internal/notify"
	"mediconnect/internal/platform/awsclient"
	"mediconnect/internal/platform/config"
	"mediconnect/internal/platform/httpserver"
	"mediconnect/internal/platform/kafka"
	"mediconnect/internal/platform/logger"
	platformmetrics "mediconnect/internal/platform/metrics"
	"mediconnect/internal/platform/middleware"
	"mediconnect/internal/platform/postgres"
	"mediconnect/internal/platform/redis"
	"mediconnect/internal/subject"
	"mediconnect/internal/textextract"
	"mediconnect/internal/verification"
	"mediconnect/internal/verification/handler"
	"mediconnect/internal/verification/metrics"
)

// main wires the verification pipeline: stores, collaborator clients, the
// HTTP surface and the upload-event consumer. Business logic lives in the
// internal packages; everything here is assembly and lifecycle.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("service exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient == nil {
		log.Warn("redis not configured, alert dedup degrades to at-least-once")
	} else {
		defer redisClient.Close()
	}

	awsCfg, err := awsclient.Load(ctx, awsclient.Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return err
	}
	s3Client := s3.NewFromConfig(awsCfg, awsclient.S3Options(awsclient.Options{Endpoint: cfg.S3Endpoint}))
	images := imagestore.NewS3(s3Client, cfg.ImageBucket)
	extractor := textextract.NewTextract(textract.NewFromConfig(awsCfg))
	comparer := facecompare.NewRekognition(rekognition.NewFromConfig(awsCfg))

	producer, err := kafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		return err
	}
	defer producer.Close()
	if err := producer.EnsureTopics(ctx, cfg.UploadTopic, cfg.AlertTopic); err != nil {
		return err
	}

	dispatcher := notify.NewKafkaDispatcher(producer, cfg.AlertTopic, redisClient, cfg.AlertDedupTTL, log)

	m := metrics.New()
	svc := verification.NewService(verification.Deps{
		Store:        subject.NewPostgres(db),
		Images:       images,
		Extractor:    extractor,
		Matcher:      verification.NewMatcher(images, comparer, cfg.ImageBucket, cfg.SimilarityThreshold),
		Dispatcher:   dispatcher,
		Recorder:     analytics.NewPostgres(db),
		Metrics:      m,
		Logger:       log,
		AlertSubject: cfg.AlertSubject,
		PresignTTL:   cfg.PresignTTL,
	})

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "mediconnect")

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Latency(platformmetrics.New()))
	router.Use(middleware.CORS)

	handler.New(svc, log, jwtService).Register(router)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting mediconnect verification service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.KafkaBrokers) > 0 && !cfg.ConsumerDisabled {
		consumer, err := kafka.NewConsumer(
			cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.UploadTopic,
			handler.NewEventConsumer(svc, log).HandleRecord, log,
		)
		if err != nil {
			return err
		}
		g.Go(func() error {
			log.Info("starting upload event consumer",
				"topic", cfg.UploadTopic,
				"group", cfg.ConsumerGroup,
			)
			return consumer.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			consumer.Close()
			return nil
		})
	} else {
		log.Warn("upload event consumer disabled, document verification runs via webhook only")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
