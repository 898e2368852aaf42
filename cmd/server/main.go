// Command server runs the rental API.
//
//	@title			Rental API
//	@version		1.0
//	@description	Vacation-rental backend: accounts, listings, bookings and photos.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/api"
	"github.com/homestay/rental-api/internal/api/handler"
	"github.com/homestay/rental-api/internal/core/ports"
	"github.com/homestay/rental-api/internal/core/service"
	"github.com/homestay/rental-api/internal/infrastructure/db/mongo"
	"github.com/homestay/rental-api/internal/infrastructure/db/redis"
	"github.com/homestay/rental-api/internal/infrastructure/media"
	"github.com/homestay/rental-api/internal/infrastructure/messaging"
	"github.com/homestay/rental-api/internal/infrastructure/oauth"
	"github.com/homestay/rental-api/internal/infrastructure/queue"
	"github.com/homestay/rental-api/internal/pkg/config"
	"github.com/homestay/rental-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "rental-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	users := mongo.NewUserRepository(db)
	listings := mongo.NewListingRepository(db)
	bookings := mongo.NewBookingRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, listings, bookings); err != nil {
		return err
	}

	checks := []handler.DependencyCheck{handler.MongoCheck(db)}

	var cache ports.ListingCache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)
		cache = redis.NewListingCache(rdb, cfg.Redis.CacheTTL)
		checks = append(checks, handler.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("listing cache enabled")
	}

	var events ports.EventPublisher
	if cfg.NATS.URL != "" {
		pub, err := messaging.NewPublisher(messaging.Config{
			URL:           cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			ClientName:    "rental-api",
		}, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Warn().Err(err).Msg("nats drain")
			}
		}()
		events = pub
		log.Info().Str("url", cfg.NATS.URL).Msg("event publishing enabled")
	}

	// --- Media ---
	store, err := media.New(ctx, media.Config{
		Backend: cfg.Media.Backend,
		Disk:    media.DiskConfig{Dir: cfg.Media.UploadDir, PublicURL: cfg.Media.PublicURL},
		S3: media.S3Config{
			Endpoint:  cfg.Media.S3Endpoint,
			AccessKey: cfg.Media.S3AccessKey,
			SecretKey: cfg.Media.S3SecretKey,
			Bucket:    cfg.Media.S3Bucket,
			UseSSL:    cfg.Media.S3UseSSL,
			PublicURL: cfg.Media.S3PublicURL,
		},
		Cloudinary: media.CloudinaryConfig{
			CloudName: cfg.Media.CloudinaryCloudName,
			APIKey:    cfg.Media.CloudinaryAPIKey,
			APISecret: cfg.Media.CloudinaryAPISecret,
			Folder:    cfg.Media.CloudinaryFolder,
		},
	}, log)
	if err != nil {
		return err
	}
	log.Info().Str("backend", store.Name()).Msg("media store ready")

	var uploadDir string
	if disk, ok := store.(*media.DiskStore); ok {
		uploadDir = disk.Dir()
	}

	cleaner := queue.NewPhotoCleaner(cfg.Media.CleanupWorkers, store, cfg.Media.CleanupTimeout, log)
	cleaner.Start(context.Background())
	defer cleaner.Close()

	// --- Services ---
	authService := service.NewAuthService(users, cfg.Session.Secret, cfg.Session.TTL, log)
	listingService := service.NewListingService(listings, cache, cleaner, events, log)
	bookingService := service.NewBookingService(bookings, events, log)
	mediaService := service.NewMediaService(store, cleaner, cfg.Media.MaxUploadBytes, log)

	var identity ports.IdentityProvider
	if cfg.GoogleEnabled() {
		identity = oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			CallbackURL:  cfg.Google.CallbackURL,
		})
	} else {
		log.Warn().Msg("google sign-in disabled: CLIENT_ID or CLIENT_SECRET not set")
	}

	e := api.NewRouter(api.Dependencies{
		Config:   cfg,
		Log:      log,
		Auth:     authService,
		Listings: listingService,
		Bookings: bookingService,
		Media:    mediaService,
		Identity: identity,
		Cookies: handler.CookiePolicy{
			Name:     cfg.Session.CookieName,
			Secure:   cfg.Session.CookieSecure,
			SameSite: handler.ParseSameSite(cfg.Session.CookieSameSite),
			MaxAge:   cfg.Session.TTL,
		},
		UploadDir: uploadDir,
		Checks:    checks,
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}
