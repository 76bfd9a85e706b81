package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
}

type OwnerBookingHTTP interface {
	List(c *gin.Context)
	Accept(c *gin.Context)
	Reject(c *gin.Context)
	Cancel(c *gin.Context)
}

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
}

type OwnerListingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type BlackoutHTTP interface {
	List(c *gin.Context)
	Add(c *gin.Context)
	Remove(c *gin.Context)
}

type MeHTTP interface {
	ListBookings(c *gin.Context)
	ListHistory(c *gin.Context)
}

type Handlers struct {
	Booking        BookingHTTP
	OwnerBooking   OwnerBookingHTTP
	Listing        ListingHTTP
	OwnerListing   OwnerListingHTTP
	Blackout       BlackoutHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Catalog)
		api.GET("/listings/:id", h.Listing.Get)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
		meGroup.GET("/history", h.Me.ListHistory)
	}

	owners := api.Group("/owners")
	if h.OwnerListing != nil {
		listingGroup := owners.Group("/listings")
		listingGroup.GET("", h.OwnerListing.List)
		listingGroup.POST("", h.OwnerListing.Create)
		listingGroup.PUT("/:id", h.OwnerListing.Update)
		listingGroup.DELETE("/:id", h.OwnerListing.Delete)
		if h.Blackout != nil {
			listingGroup.GET("/:id/blackouts", h.Blackout.List)
			listingGroup.POST("/:id/blackouts", h.Blackout.Add)
			listingGroup.DELETE("/:id/blackouts/:blackoutId", h.Blackout.Remove)
		}
	}
	if h.OwnerBooking != nil {
		bookingGroup := owners.Group("/bookings")
		bookingGroup.GET("", h.OwnerBooking.List)
		bookingGroup.POST("/:id/accept", h.OwnerBooking.Accept)
		bookingGroup.POST("/:id/reject", h.OwnerBooking.Reject)
		bookingGroup.POST("/:id/cancel", h.OwnerBooking.Cancel)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
