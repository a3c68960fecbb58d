package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/msoohome/storefront/internal/cart"
	"github.com/msoohome/storefront/internal/catalog"
	"github.com/msoohome/storefront/internal/checkout"
	"github.com/msoohome/storefront/internal/credentials"
	"github.com/msoohome/storefront/internal/describe"
	"github.com/msoohome/storefront/internal/domain"
	"github.com/msoohome/storefront/internal/metrics"
	"github.com/msoohome/storefront/internal/session"
)

const (
	sessionCookie = "storefront_session"
	cartCookie    = "storefront_cart"

	identityKey = "identity"
	cartIDKey   = "cart_id"
)

// Deps carries everything the API surface needs.
type Deps struct {
	Catalog     *catalog.Catalog
	Carts       *cart.Manager
	Credentials *credentials.Service
	Gate        *session.Gate
	Checkout    *checkout.Pipeline
	Orders      domain.OrderRepository
	Users       domain.UserRepository
	Timeline    domain.TimelineRepository
	Describer   describe.Generator
	Logger      *log.Entry
}

// Server is the storefront HTTP API.
type Server struct {
	catalog   *catalog.Catalog
	carts     *cart.Manager
	creds     *credentials.Service
	gate      *session.Gate
	checkout  *checkout.Pipeline
	orders    domain.OrderRepository
	users     domain.UserRepository
	timeline  domain.TimelineRepository
	describer describe.Generator
	logger    *log.Entry
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	return &Server{
		catalog:   deps.Catalog,
		carts:     deps.Carts,
		creds:     deps.Credentials,
		gate:      deps.Gate,
		checkout:  deps.Checkout,
		orders:    deps.Orders,
		users:     deps.Users,
		timeline:  deps.Timeline,
		describer: deps.Describer,
		logger:    logger,
	}
}

// Router assembles the gin engine with middleware and all route groups.
func (s *Server) Router(httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(s.logger))
	if httpMetrics != nil {
		r.Use(Metrics(httpMetrics))
	}
	r.Use(s.identify())

	api := r.Group("/api")

	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)

	cartGroup := api.Group("/cart")
	cartGroup.Use(s.withCart())
	{
		cartGroup.GET("", s.getCart)
		cartGroup.POST("/items", s.addCartItem)
		cartGroup.PUT("/items/:id", s.setCartQuantity)
		cartGroup.DELETE("/items/:id", s.removeCartItem)
		cartGroup.DELETE("", s.clearCart)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/signup", s.signUp)
		auth.POST("/signin", s.signIn)
		auth.POST("/signout", s.signOut)
		auth.POST("/change-password", s.requireAuth(), s.changePassword)
	}
	api.GET("/me", s.requireAuth(), s.me)

	co := api.Group("/checkout")
	co.Use(s.requireAuth(), s.withCart())
	{
		co.POST("", s.beginCheckout)
		co.GET("/:id", s.getCheckout)
		co.POST("/:id/confirm", s.confirmCheckout)
		co.POST("/:id/retry", s.retryCheckout)
		co.POST("/:id/cancel", s.cancelCheckout)
	}

	orders := api.Group("/orders")
	orders.Use(s.requireAuth())
	{
		orders.GET("", s.listMyOrders)
		orders.GET("/:id", s.getOrder)
	}

	admin := api.Group("/admin")
	admin.Use(s.requireAdmin())
	{
		admin.GET("/orders", s.adminListOrders)
		admin.PUT("/orders/:id/status", s.adminUpdateOrderStatus)
		admin.GET("/orders/:id/timeline", s.adminOrderTimeline)
		admin.POST("/products", s.adminCreateProduct)
		admin.PUT("/products/:id", s.adminUpdateProduct)
		admin.DELETE("/products/:id", s.adminDeleteProduct)
		admin.POST("/describe", s.adminDescribe)
		admin.GET("/users", s.adminListUsers)
	}

	return r
}

// identify resolves the session token into an Identity for every request.
// Anonymous requests pass through with an unauthenticated identity.
func (s *Server) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				token = cookie
			}
		}

		identity, err := s.gate.Identify(c.Request.Context(), token)
		if err != nil {
			s.logger.WithError(err).Warn("identity resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentIdentity(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := currentIdentity(c)
		if !identity.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !identity.Admin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			return
		}
		c.Next()
	}
}

// withCart pins a cart key to the request. The cart follows the browser,
// not the account: a cookie identifies it whether or not the visitor is
// signed in, so the basket survives sign-in and sign-out alike.
func (s *Server) withCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cartCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetCookie(cartCookie, id, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Set(cartIDKey, id)
		c.Next()
	}
}

func currentIdentity(c *gin.Context) session.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return session.Identity{}
	}
	identity, _ := v.(session.Identity)
	return identity
}

func (s *Server) currentCart(c *gin.Context) *cart.Engine {
	return s.carts.Engine(c.Request.Context(), c.GetString(cartIDKey))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// respondError maps domain sentinels onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, checkout.ErrAttemptNotFound):
		status = http.StatusNotFound
	case errors.Is(err, checkout.ErrAttemptBusy):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrStageConflict):
		status = http.StatusConflict
	case errors.Is(err, credentials.ErrInvalidCredentials),
		errors.Is(err, credentials.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, credentials.ErrSetupSecretInvalid):
		status = http.StatusForbidden
	case errors.Is(err, credentials.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, credentials.ErrSecretTooShort),
		errors.Is(err, domain.ErrDeliveryLocationRequired),
		errors.Is(err, domain.ErrPhoneRequired),
		errors.Is(err, domain.ErrOrderLinesRequired),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrProductPriceNegative),
		errors.Is(err, domain.ErrProductCategoryInvalid),
		errors.Is(err, domain.ErrOrderStatusInvalid),
		errors.Is(err, domain.ErrUserEmailRequired),
		errors.Is(err, domain.ErrUserNameRequired):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentDeclined),
		errors.Is(err, domain.ErrPaymentIndeterminate):
		status = http.StatusPaymentRequired
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
