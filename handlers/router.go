// router.go - Route table
//
// Every request passes through request logging and identity resolution.
// Each protected route then carries its own authorization policy, so the
// route table below is the full description of who may call what.

package handlers

import (
	"fmt"
	"net/http"

	"store-manager/auth"
	"store-manager/logger"
	"store-manager/metrics"
	"store-manager/middleware"

	"github.com/gin-gonic/gin"
)

// Options carries the cross-cutting pieces of the router.
type Options struct {
	Resolver  middleware.IdentityResolver
	Metrics   *metrics.Metrics // optional
	LoginRate string           // limiter format, empty disables the limit
	Logger    logger.Logger
}

var (
	ownerOnly     = auth.Policy{Require: auth.RequireOwner}
	anyStaff      = auth.Policy{Require: auth.RequireEither}
	attendantOnly = auth.Policy{Require: auth.RequireAttendant, Exclude: []auth.Role{auth.RoleOwner}}
)

// NewRouter wires h into a gin engine.
func NewRouter(h *Handler, opts Options) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	var (
		requests  middleware.RequestObserver
		decisions middleware.DecisionObserver
	)
	if opts.Metrics != nil {
		requests, decisions = opts.Metrics, opts.Metrics
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(log, requests))
	r.Use(middleware.Authenticate(opts.Resolver, log))

	guard := func(p auth.Policy) gin.HandlerFunc { return middleware.Require(p, decisions) }

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	authGroup := r.Group("/auth")
	{
		login := []gin.HandlerFunc{h.Login}
		if opts.LoginRate != "" {
			limit, err := middleware.LoginRateLimit(opts.LoginRate)
			if err != nil {
				return nil, fmt.Errorf("login rate limit: %w", err)
			}
			login = append([]gin.HandlerFunc{limit}, login...)
		}
		authGroup.POST("/login", login...)
		authGroup.POST("/signup", guard(ownerOnly), h.Signup)
	}

	products := r.Group("/products")
	{
		products.POST("", guard(ownerOnly), h.CreateProduct)
		products.GET("", guard(anyStaff), h.ListProducts)
		products.GET("/:id", guard(anyStaff), h.GetProduct)
		products.PUT("/:id", guard(ownerOnly), h.UpdateProduct)
	}

	sales := r.Group("/sales")
	{
		sales.POST("", guard(attendantOnly), h.CreateSale)
		sales.GET("", guard(ownerOnly), h.ListSales)
		sales.GET("/feed", guard(ownerOnly), h.SalesFeed)
		sales.GET("/:id", guard(anyStaff), h.GetSale)
	}

	return r, nil
}
