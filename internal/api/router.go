package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/homestay/rental-api/docs"
	"github.com/homestay/rental-api/internal/api/handler"
	"github.com/homestay/rental-api/internal/api/middleware"
	"github.com/homestay/rental-api/internal/core/ports"
	"github.com/homestay/rental-api/internal/pkg/config"
)

// Dependencies are the collaborators the HTTP layer needs. Identity may be
// nil, which disables Google sign-in. Registerer and Gatherer default to the
// global Prometheus registry.
type Dependencies struct {
	Config   *config.Config
	Log      zerolog.Logger
	Auth     ports.AuthService
	Listings ports.ListingService
	Bookings ports.BookingService
	Media    ports.MediaService
	Identity ports.IdentityProvider
	Cookies  handler.CookiePolicy

	// UploadDir is served under /uploads when set.
	UploadDir string
	Checks    []handler.DependencyCheck

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	cfg := d.Config

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "rental",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies)
	googleHandler := handler.NewGoogleHandler(d.Identity, d.Auth, d.Cookies, cfg.ClientURL, d.Log)
	listingHandler := handler.NewListingHandler(d.Listings)
	bookingHandler := handler.NewBookingHandler(d.Bookings)
	mediaHandler := handler.NewMediaHandler(d.Media, cfg.Media.MaxFiles)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks...)

	// --- Ops (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	limiter := authRateLimiter(cfg.RateLimit)
	e.POST("/register", authHandler.Register, limiter)
	e.POST("/login", authHandler.Login, limiter)
	e.GET("/profile", authHandler.Profile)
	e.GET("/logout", authHandler.Logout)
	e.GET("/auth/google", googleHandler.Begin)
	e.GET("/auth/google/callback", googleHandler.Callback)

	// --- Public reads ---
	e.GET("/places/:id", listingHandler.Get)
	e.GET("/allPlaces", listingHandler.ListAll)

	// --- Session-protected routes ---
	// Per route rather than a group: group middleware also wraps the 404 handler.
	session := middleware.Session(d.Auth, d.Cookies.Name)
	e.POST("/places", listingHandler.Create, session)
	e.GET("/places", listingHandler.ListMine, session)
	e.PUT("/places", listingHandler.Replace, session)
	e.DELETE("/places", listingHandler.Delete, session)
	e.POST("/bookPlace", bookingHandler.Create, session)
	e.GET("/bookings", bookingHandler.List, session)
	e.POST("/upload", mediaHandler.Upload, uploadBodyLimit(cfg.Media), session)
	e.POST("/deletePhoto", mediaHandler.DeletePhoto, session)

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	return e
}

// multipartOverhead covers part headers and boundaries around each file.
const multipartOverhead = 64 << 10

// uploadBodyLimit rejects upload bodies larger than MaxFiles full-size photos.
// It runs before the session check so oversized bodies are refused unread.
func uploadBodyLimit(cfg config.MediaConfig) echo.MiddlewareFunc {
	if cfg.MaxFiles <= 0 || cfg.MaxUploadBytes <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	limit := int64(cfg.MaxFiles)*cfg.MaxUploadBytes + multipartOverhead
	return echomiddleware.BodyLimit(strconv.FormatInt(limit, 10) + "B")
}

// authRateLimiter throttles credential endpoints per client IP.
func authRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.Rate),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.Expires,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}
