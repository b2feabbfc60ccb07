package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/db"
	"storefront/internal/domain/admins"
	"storefront/internal/domain/storage"
	"storefront/internal/media"
	"storefront/internal/metrics"
	"storefront/internal/productform"
	"storefront/internal/ratelimiter"

	"github.com/caarlos0/env/v10"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new zap logger with color.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), lvl)
	return zap.New(core).Sugar(), nil
}

// loadConfig reads .env when present, then the environment.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}

var version = "1.0.0"

//	@title			Storefront API
//	@description	Product catalog storefront and admin back office.

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(cfg.DB)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(context.Background(), pool); err != nil {
			logger.Fatal(err)
		}
		logger.Info("database migrations applied")
	}

	store := storage.NewContainer(pool)

	// Redis keeps refresh tokens
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatalw("redis unreachable", "addr", cfg.Redis.Addr, "error", err)
	}

	// Object storage
	var (
		objects     media.ObjectStore
		memoryMedia *media.MemoryStore
	)
	if cfg.Storage.CloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(cfg.Storage.CloudinaryURL)
		if err != nil {
			logger.Fatal(err)
		}
		objects = media.NewCloudinaryStore(cld, cfg.Storage.Folder)
	} else {
		base := mediaBaseURL(cfg.APIURL)
		memoryMedia = media.NewMemoryStore(base)
		objects = memoryMedia
		logger.Warnw("CLOUDINARY_URL not set, product images are kept in memory and lost on restart", "served_at", base)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)

	uploader := media.NewUploader(objects, logger)
	uploader.Observe = httpMetrics.Upload

	// Authenticator
	tokens := auth.NewJWTAuthenticator(cfg.Auth.Token)
	authService := auth.NewService(tokens, auth.NewRedisRefreshStore(rdb), store.Admins, logger)

	if err := bootstrapAdmin(context.Background(), store.Admins, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal(err)
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		catalog:     catalog.New(store.Products, store.Settings, logger),
		images:      uploader,
		previews:    productform.NewPreviews(),
		auth:        authService,
		rateLimiter: ratelimiter.NewFixedWindowLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame),
		metrics:     httpMetrics,
		memoryMedia: memoryMedia,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]int64{
			"total_conns":    int64(s.TotalConns()),
			"idle_conns":     int64(s.IdleConns()),
			"acquired_conns": int64(s.AcquiredConns()),
			"acquire_count":  s.AcquireCount(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

// bootstrapAdmin creates the configured admin account when it does not exist yet.
func bootstrapAdmin(ctx context.Context, store adminStore, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := store.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, admins.ErrNotFound) {
		return fmt.Errorf("look up bootstrap admin: %w", err)
	}

	a := &admins.Admin{Email: email}
	if err := a.Password.Set(password); err != nil {
		return err
	}
	if err := store.Create(ctx, a); err != nil && !errors.Is(err, admins.ErrDuplicateEmail) {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	return nil
}

type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*admins.Admin, error)
	Create(ctx context.Context, a *admins.Admin) error
}

// mediaBaseURL is where GET /v1/media/{key} serves in-memory images.
func mediaBaseURL(apiURL string) string {
	apiURL = strings.TrimSuffix(apiURL, "/")
	if !strings.HasPrefix(apiURL, "http://") && !strings.HasPrefix(apiURL, "https://") {
		apiURL = "http://" + apiURL
	}
	return apiURL + "/v1/media"
}
