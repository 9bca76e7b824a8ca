package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminHttp "github.com/tuneuplab/tuneup-booking-backend/internal/admin/http"
	availabilityHttp "github.com/tuneuplab/tuneup-booking-backend/internal/availability/http"
	"github.com/tuneuplab/tuneup-booking-backend/internal/auth"
	bookingHttp "github.com/tuneuplab/tuneup-booking-backend/internal/booking/http"
	overrideHttp "github.com/tuneuplab/tuneup-booking-backend/internal/override/http"
	paymentHttp "github.com/tuneuplab/tuneup-booking-backend/internal/payment/http"
)

// Config holds the handlers and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string // comma-separated list of allowed origins

	AdminHandler        *adminHttp.Handler
	AvailabilityHandler *availabilityHttp.Handler
	BookingHandler      *bookingHttp.Handler
	OverrideHandler     *overrideHttp.Handler
	PaymentHandler      *paymentHttp.Handler

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:5173", // booking UI dev server
			"http://localhost:8081", // admin dashboard
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: validates the admin JWT on dashboard routes.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		adminHttp.RegisterRoutes(v1, cfg.AdminHandler)
		availabilityHttp.RegisterRoutes(v1, cfg.AvailabilityHandler)
		bookingHttp.RegisterRoutes(v1, cfg.BookingHandler, authMiddleware)
		overrideHttp.RegisterRoutes(v1, cfg.OverrideHandler, authMiddleware)
		paymentHttp.RegisterRoutes(v1, cfg.PaymentHandler)
	}

	return r
}
