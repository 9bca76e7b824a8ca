package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tuneuplab/tuneup-booking-backend/internal/admin"
	adminHttp "github.com/tuneuplab/tuneup-booking-backend/internal/admin/http"
	"github.com/tuneuplab/tuneup-booking-backend/internal/api"
	"github.com/tuneuplab/tuneup-booking-backend/internal/availability"
	availabilityHttp "github.com/tuneuplab/tuneup-booking-backend/internal/availability/http"
	"github.com/tuneuplab/tuneup-booking-backend/internal/auth"
	"github.com/tuneuplab/tuneup-booking-backend/internal/booking"
	bookingHttp "github.com/tuneuplab/tuneup-booking-backend/internal/booking/http"
	"github.com/tuneuplab/tuneup-booking-backend/internal/config"
	"github.com/tuneuplab/tuneup-booking-backend/internal/notify"
	"github.com/tuneuplab/tuneup-booking-backend/internal/override"
	overrideHttp "github.com/tuneuplab/tuneup-booking-backend/internal/override/http"
	"github.com/tuneuplab/tuneup-booking-backend/internal/payment"
	paymentHttp "github.com/tuneuplab/tuneup-booking-backend/internal/payment/http"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/metrics"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	Cfg       *config.Config
	DBPool    *pgxpool.Pool
	Publisher notify.Publisher // nil disables event publishing
	Logger    logger.Logger
	Metrics   *metrics.Metrics
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.Cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.Cfg.JWTSecret, cfg.Cfg.JWTAccessTokenTTL)

	policy, err := cfg.Cfg.Policy()
	if err != nil {
		return nil, err
	}

	// Booking module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, cfg.Publisher, cfg.Logger, cfg.Metrics)

	// Override module
	overrideRepo := override.NewPgxRepository(cfg.DBPool)
	overrideService := override.NewService(overrideRepo)

	// Availability module
	availabilityService := availability.NewService(policy, bookingRepo, overrideRepo)

	// Payment module
	paymentService := payment.NewService(bookingService, cfg.Logger, cfg.Metrics)

	// Admin module
	adminRepo := admin.NewPgxRepository(cfg.DBPool)
	adminService := admin.NewService(adminRepo, passwordHasher, jwtManager)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:        cfg.Cfg.IsProduction,
		ProdOrigins:         cfg.Cfg.ProdOrigins,
		AdminHandler:        adminHttp.NewHandler(adminService),
		AvailabilityHandler: availabilityHttp.NewHandler(availabilityService),
		BookingHandler:      bookingHttp.NewHandler(bookingService),
		OverrideHandler:     overrideHttp.NewHandler(overrideService),
		PaymentHandler:      paymentHttp.NewHandler(paymentService, cfg.Cfg.PaymentWebhookSecret, cfg.Logger),
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		BookingService: bookingService,
	}, nil
}
