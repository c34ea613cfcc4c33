package router

import (
	"fmt"
	"strings"

	"github.com/preetizen/shop-api/internal/cache"
	"github.com/preetizen/shop-api/internal/config"
	publichandlers "github.com/preetizen/shop-api/internal/http/handlers/public"
	"github.com/preetizen/shop-api/internal/http/response"
	"github.com/preetizen/shop-api/internal/logger"
	"github.com/preetizen/shop-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pz"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	// 用户认证接口
	auth := r.Group("/auth")
	{
		auth.POST("/register", publicHandler.UserRegister)
		auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		auth.GET("/me", UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), publicHandler.UserMe)
	}

	// 商品接口（公开）
	products := r.Group("/products")
	{
		products.GET("", publicHandler.ListProducts)
		products.GET("/categories", publicHandler.ListCategories)
		products.GET("/:id", publicHandler.GetProduct)
	}

	// 购物车接口（需鉴权）
	cart := r.Group("/cart")
	cart.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
	{
		cart.GET("", publicHandler.GetCart)
		cart.POST("/add", publicHandler.AddCartItem)
		cart.PUT("/update", publicHandler.UpdateCartItem)
		cart.DELETE("/remove/:product_id", publicHandler.DeleteCartItem)
		cart.DELETE("/clear", publicHandler.ClearCart)
	}

	// 订单接口（需鉴权）
	orders := r.Group("/orders")
	orders.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
	{
		orders.POST("", publicHandler.CreateOrder)
		orders.GET("", publicHandler.ListOrders)
		orders.GET("/:id", publicHandler.GetOrder)
	}

	return r
}
