package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"bboard/internal/config"
	"bboard/internal/objstore"
	"bboard/internal/observability/logging"
	"bboard/internal/observability/metrics"
	"bboard/internal/observability/middleware"
	"bboard/internal/service"
	impl "bboard/internal/service/impl"
	"bboard/internal/store"
	httpx "bboard/internal/transport/http"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "bboard",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})

	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()

	gcfg := &gorm.Config{}
	if cfg.LogSQL {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gcfg)
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)
	if err := st.AutoMigrate(); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister("bboard")

	// Image storage is optional; without it listings still work, only
	// uploads are unavailable.
	var blobs service.BlobStore
	var media httpx.BlobReader
	if cfg.MinioEndpoint != "" {
		client, err := objstore.NewClient(objstore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			logger.Error("objstore", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := client.EnsureBucket(ctx); err != nil {
			cancel()
			logger.Error("objstore bucket", "error", err)
			os.Exit(1)
		}
		cancel()
		blobs = client
		media = client
	} else {
		logger.Warn("MINIO_ENDPOINT not set, image uploads disabled")
	}

	pw := impl.NewPasswordServiceArgon2id()

	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})

	signer := impl.NewActivationSignerHS256(impl.SignerConfig{
		Issuer:     cfg.Issuer,
		SigningKey: []byte(cfg.SigningKey),
		TTL:        cfg.ActivationTTL,
	})

	accounts := impl.NewAccountService(st, pw, tokens, signer, impl.NewLogNotifier(), blobs, impl.AccountConfig{
		PreActivated:      cfg.PreActivated,
		ActivationBaseURL: cfg.ActivationBaseURL,
	})

	bbs, err := impl.NewBbService(st, blobs, cfg.TitlePattern)
	if err != nil {
		logger.Error("bb service", "error", err)
		os.Exit(1)
	}

	rubrics := impl.NewRubricService(st)
	comments := impl.NewCommentService(st)
	notes := impl.NewNoteService(st)

	h := httpx.NewHandler(accounts, rubrics, bbs, comments, notes, tokens, st, media)
	mux := httpx.NewRouter(h, httpx.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
	})

	handler := middleware.WithRequestAndTrace(middleware.WithMetrics(mux))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("bboard listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
