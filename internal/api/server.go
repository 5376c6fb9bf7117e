package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"luxe-backend/internal/cache"
	"luxe-backend/internal/models"
	"luxe-backend/internal/token"
)

// Stores and collaborators the handlers depend on. The store package
// satisfies the store interfaces, payment.StripeGateway the gateway.

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (models.InsertResult, error)
	PromoteToAdmin(ctx context.Context, id string) (models.UpdateResult, error)
	Delete(ctx context.Context, id string) (models.DeleteResult, error)
}

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (models.InsertResult, error)
	Update(ctx context.Context, id string, p *models.Product) (models.UpdateResult, error)
	Delete(ctx context.Context, id string) (models.DeleteResult, error)
}

type ReviewStore interface {
	List(ctx context.Context) ([]models.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) (models.InsertResult, error)
	UpdateText(ctx context.Context, id, text string) (models.UpdateResult, error)
	Delete(ctx context.Context, id string) (models.DeleteResult, error)
}

type CartStore interface {
	ListByEmail(ctx context.Context, email string) ([]models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) (models.InsertResult, error)
	Delete(ctx context.Context, id string) (models.DeleteResult, error)
}

type PaymentStore interface {
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
	ListBookings(ctx context.Context) ([]models.Payment, error)
	Create(ctx context.Context, p *models.Payment) (models.PaymentResult, error)
	UpdateStatus(ctx context.Context, id, status string) (models.UpdateResult, error)
	Delete(ctx context.Context, id string) (models.DeleteResult, error)
}

type StatsStore interface {
	AdminStats(ctx context.Context) (models.AdminStats, error)
	OrderStats(ctx context.Context) ([]models.CategoryStat, error)
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

type TokenMaker interface {
	Issue(id token.Identity) (string, error)
	Verify(tokenStr string) (*token.Identity, error)
}

type Deps struct {
	Users    UserStore
	Products ProductStore
	Reviews  ReviewStore
	Carts    CartStore
	Payments PaymentStore
	Stats    StatsStore
	Gateway  PaymentGateway
	Tokens   TokenMaker
	Cache    cache.ProductCache

	Logger         zerolog.Logger
	AllowedOrigins []string
}

type Server struct {
	users    UserStore
	products ProductStore
	reviews  ReviewStore
	carts    CartStore
	payments PaymentStore
	stats    StatsStore
	gateway  PaymentGateway
	tokens   TokenMaker
	cache    cache.ProductCache
	log      zerolog.Logger

	router *gin.Engine
}

// Request bodies are typed; fields a struct does not declare are rejected.
// The binder setting is process wide, so it is fixed once at package load.
func init() {
	binding.EnableDecoderDisallowUnknownFields = true
}

func NewServer(d Deps) *Server {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}

	s := &Server{
		users:    d.Users,
		products: d.Products,
		reviews:  d.Reviews,
		carts:    d.Carts,
		payments: d.Payments,
		stats:    d.Stats,
		gateway:  d.Gateway,
		tokens:   d.Tokens,
		cache:    d.Cache,
		log:      d.Logger,
		router:   gin.New(),
	}

	s.router.Use(
		requestID,
		s.accessLog,
		s.recovery,
		cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		s.errorHandler,
	)
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "online cosmetics shop running")
	})
	r.POST("/jwt", s.issueToken)

	// Users
	r.GET("/users", s.requireAuth, s.requireAdmin, s.listUsers)
	r.GET("/users/admin/:email", s.requireAuth, s.requireSelf("email"), s.checkAdmin)
	r.POST("/users", s.createUser)
	r.PATCH("/users/admin/:id", s.requireAuth, s.requireAdmin, s.promoteUser)
	r.DELETE("/users/:id", s.requireAuth, s.requireAdmin, s.deleteUser)

	// Products
	r.GET("/product", s.listProducts)
	r.GET("/products", s.searchProducts)
	r.GET("/product/:id", s.getProduct)
	r.POST("/product", s.requireAuth, s.requireAdmin, s.createProduct)
	r.PATCH("/product/:id", s.updateProduct)
	r.DELETE("/product/:id", s.requireAuth, s.requireAdmin, s.deleteProduct)

	// Reviews
	r.GET("/reviews", s.listReviews)
	r.POST("/reviews", s.createReview)
	r.GET("/reviews/:productId", s.listProductReviews)
	r.PUT("/reviews/:id", s.updateReview)
	r.DELETE("/reviews/:id", s.deleteReview)

	// Cart
	r.GET("/carts", s.listCart)
	r.POST("/carts", s.addToCart)
	r.DELETE("/carts/:id", s.removeCartItem)

	// Payments
	r.POST("/create-payment-intent", s.createPaymentIntent)
	r.GET("/payments/:email", s.requireAuth, s.requireSelf("email"), s.listPayments)
	r.POST("/payments", s.createPayment)

	// Stats
	r.GET("/admin-stats", s.requireAuth, s.requireAdmin, s.adminStats)
	r.GET("/order-stats", s.orderStats)

	// Bookings
	r.GET("/manage-bookings", s.requireAuth, s.requireAdmin, s.listBookings)
	r.PATCH("/manage-bookings/:id", s.requireAuth, s.requireAdmin, s.updateBookingStatus)
	r.DELETE("/manage-bookings/:id", s.requireAuth, s.requireAdmin, s.deleteBooking)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
