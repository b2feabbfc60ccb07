package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/docs" //this is required to generate swagger docs
	"storefront/internal/auth"
	"storefront/internal/db"
	"storefront/internal/domain/products"
	"storefront/internal/domain/settings"
	"storefront/internal/listedit"
	"storefront/internal/media"
	"storefront/internal/metrics"
	"storefront/internal/productform"
	"storefront/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// catalogService is the data access layer used by the handlers.
type catalogService interface {
	productform.Backend
	listedit.Source
	GetProducts(ctx context.Context) []*products.Product
	CountAll(ctx context.Context) products.Counts
	GetSettings(ctx context.Context) *settings.Settings
	UpdateSettings(ctx context.Context, upd settings.Update) *settings.Settings
}

type application struct {
	config      config
	logger      *zap.SugaredLogger
	catalog     catalogService
	images      productform.Images
	previews    *productform.Previews
	auth        auth.Provider
	rateLimiter ratelimiter.Limiter
	metrics     *metrics.HTTP
	memoryMedia *media.MemoryStore
}

type config struct {
	Addr          string             `env:"ADDR" envDefault:":8080"`
	Env           string             `env:"ENV" envDefault:"development"`
	APIURL        string             `env:"EXTERNAL_URL" envDefault:"localhost:8080"`
	LogLevel      string             `env:"LOG_LEVEL" envDefault:"info"`
	CookieDomain  string             `env:"COOKIE_DOMAIN"`
	AdminEmail    string             `env:"ADMIN_EMAIL"`
	AdminPassword string             `env:"ADMIN_PASSWORD"`
	DB            db.Config          `envPrefix:"DB_"`
	Redis         redisConfig        `envPrefix:"REDIS_"`
	Storage       storageConfig
	Auth          authConfig         `envPrefix:"AUTH_"`
	RateLimiter   ratelimiter.Config `envPrefix:"RATELIMITER_"`
}

type redisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type storageConfig struct {
	CloudinaryURL string `env:"CLOUDINARY_URL"`
	Folder        string `env:"STORAGE_FOLDER" envDefault:"products-images"`
}

type authConfig struct {
	Basic basicConfig `envPrefix:"BASIC_"`
	Token auth.Config
}

type basicConfig struct {
	User string `env:"USER"`
	Pass string `env:"PASS"`
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Location"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(app.LocaleMiddleware)

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		if app.metrics != nil {
			r.With(app.BasicAuthMiddleware()).Get("/metrics", app.metrics.Handler().ServeHTTP)
		}
		docsURL := fmt.Sprintf("%s/v1/swagger/doc.json", app.config.APIURL)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		// Public storefront
		r.Get("/products", app.listProductsHandler)
		r.Get("/products/{productID}", app.getProductHandler)
		r.Get("/categories", app.listCategoriesHandler)
		r.Get("/brands", app.listBrandsHandler)
		r.Get("/settings", app.getSettingsHandler)
		if app.memoryMedia != nil {
			r.Get("/media/{key}", app.getMediaHandler)
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.SessionMiddleware)

			r.Get("/", app.adminRootHandler)
			r.Get("/login", app.loginPageHandler)
			r.With(app.RateLimiterMiddleware).Post("/login", app.loginHandler)
			r.Post("/logout", app.logoutHandler)
			r.Get("/session", app.sessionHandler)

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(app.RequireSession)

				r.Get("/", app.dashboardHandler)

				r.Route("/products", func(r chi.Router) {
					r.Get("/", app.adminListProductsHandler)
					r.Post("/", app.createProductHandler)
					r.Get("/new", app.newProductFormHandler)
					r.Get("/export", app.exportProductsHandler)

					r.Route("/{productID}", func(r chi.Router) {
						r.Get("/", app.editProductFormHandler)
						r.Put("/", app.updateProductHandler)
						r.Delete("/", app.deleteProductHandler)
						r.Post("/variables", app.createVariableHandler)
						r.Delete("/variables/{variableID}", app.deleteVariableHandler)
					})
				})

				for path, kind := range map[string]listedit.Kind{
					"/categories": listedit.KindCategory,
					"/brands":     listedit.KindBrand,
				} {
					r.Route(path, func(r chi.Router) {
						r.Get("/", app.listBoardHandler)
						r.Post("/", app.createListItemHandler(kind))
						r.Patch("/{itemID}", app.renameListItemHandler(kind))
						r.Delete("/{itemID}", app.deleteListItemHandler(kind))
					})
				}

				r.Get("/settings", app.getAdminSettingsHandler)
				r.Put("/settings", app.updateSettingsHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.APIURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.Addr, "env", app.config.Env)

	return nil
}
