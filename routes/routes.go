package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/galazzia/storefront-api/auth"
	"github.com/galazzia/storefront-api/cart"
	"github.com/galazzia/storefront-api/checkout"
	"github.com/galazzia/storefront-api/config"
	orderControllers "github.com/galazzia/storefront-api/controllers/order"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/notify"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the handlers need.
type Deps struct {
	Config        *config.Config
	Issuer        *auth.TokenIssuer
	AdminPassword auth.AdminPassword

	Products *repository.ProductRepository
	Orders   *repository.OrderRepository
	Carts    *repository.CartRepository
	Settings *repository.SettingRepository

	CartService *cart.Service
	Checkout    *checkout.Service
	Hub         *orderControllers.Hub

	Email      notify.Notifier
	Telegram   notify.Notifier
	Dispatcher *notify.Dispatcher
}

// NewDeps wires repositories, services and notifiers over db.
func NewDeps(db *gorm.DB, cfg *config.Config) Deps {
	d := Deps{
		Config:        cfg,
		Issuer:        auth.NewTokenIssuer(cfg.JWTSecret),
		AdminPassword: auth.NewAdminPassword(cfg.AdminPassword, cfg.AdminPasswordHash),
		Products:      repository.NewProductRepository(db),
		Orders:        repository.NewOrderRepository(db),
		Carts:         repository.NewCartRepository(db),
		Settings: repository.NewSettingRepository(db, models.Setting{
			WhatsappNumber: cfg.WhatsappNumber,
			TelegramToken:  cfg.TelegramToken,
			TelegramChatID: cfg.TelegramChatID,
		}),
		Hub: orderControllers.NewHub(),
	}

	d.Email = notify.NewEmailNotifier(notify.NewMailer(cfg.EmailProvider, cfg.PostmarkToken, cfg.SendgridKey, cfg.EmailSender, cfg.NotifyTimeout))
	d.Telegram = notify.NewTelegramNotifier(
		cfg.TelegramAPIURL,
		&http.Client{Timeout: cfg.NotifyTimeout},
		func(ctx context.Context) (string, string, error) {
			s, err := d.Settings.Get(ctx)
			return s.TelegramToken, s.TelegramChatID, err
		},
	)
	d.Dispatcher = notify.NewDispatcher(cfg.NotifyTimeout, d.Email, d.Telegram)

	d.CartService = cart.NewService(d.Carts, d.Products, cfg.CartTTL, cfg.CartStockCheck)
	d.Checkout = checkout.NewService(checkout.Options{
		Carts:          d.CartService,
		Products:       d.Products,
		Orders:         d.Orders,
		Settings:       d.Settings,
		Notifier:       d.Dispatcher,
		Broadcaster:    d.Hub,
		ShippingCost:   cfg.ShippingCost,
		WhatsappNumber: cfg.WhatsappNumber,
	})
	return d
}

// NewRouter builds the gin engine with CORS and every route group.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Spreadsheet and backup uploads
	r.MaxMultipartMemory = 32 << 20

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(d.Config.CORSOrigins) == 0 || d.Config.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = d.Config.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	SetupRoutes(r, d)
	return r
}

// SetupRoutes is the single entry-point that wires up the store, cart,
// order and admin route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalogue, contact form and notification hooks
	SetupStoreRoutes(r, d)

	// Guest cart (guest token)
	SetupCartRoutes(r, d)

	// Customer order actions and admin order management
	SetupOrderRoutes(r, d)

	// Admin back office (admin token)
	SetupAdminRoutes(r, d)
}
