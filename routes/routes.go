package routes

import (
	"github.com/julienschmidt/httprouter"

	"carrito/auth"
	"carrito/billing"
	"carrito/convo"
	"carrito/dashboard"
	"carrito/middleware"
	"carrito/ratelim"
	"carrito/realtime"
	"carrito/settings"
)

func AddAuthRoutes(router *httprouter.Router, svc *auth.Service, authz *middleware.Authenticator, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(svc.Register))
	router.POST("/api/auth/login", rl.Limit(svc.Login))
	router.POST("/api/auth/logout", authz.Authenticate(svc.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(svc.RefreshToken))
}

func AddConfigRoutes(router *httprouter.Router, svc *settings.Service, authz *middleware.Authenticator, rl *ratelim.RateLimiter) {
	router.GET("/api/config", authz.Authenticate(svc.GetConfig))
	router.PUT("/api/config", rl.Limit(authz.Authenticate(svc.SaveConfig)))
	router.GET("/api/config/apikey/qr", authz.Authenticate(svc.GetAPIKeyQR))
}

func AddDashboardRoutes(router *httprouter.Router, svc *dashboard.Service, authz *middleware.Authenticator) {
	router.GET("/api/dashboard/stats", authz.Authenticate(svc.GetStats))
	router.GET("/api/dashboard/carts", authz.Authenticate(svc.GetCarts))
	router.GET("/api/dashboard/report", authz.Authenticate(svc.GetReport))
}

func AddConvoRoutes(router *httprouter.Router, svc *convo.Service, authz *middleware.Authenticator) {
	router.GET("/api/conversations", authz.Authenticate(svc.List))
	router.GET("/api/conversations/:conversacionid/messages", authz.Authenticate(svc.GetMessages))
	// Deep link into a conversation detail view; lives outside the
	// /api/conversations tree because the router cannot mix a static
	// segment with the :conversacionid wildcard.
	router.GET("/api/link/:token", authz.Authenticate(svc.OpenLink))
}

func AddBillingRoutes(router *httprouter.Router, svc *billing.Service, authz *middleware.Authenticator, rl *ratelim.RateLimiter) {
	router.GET("/api/billing/plans", svc.GetPlans)
	router.POST("/api/billing/checkout", rl.Limit(authz.Authenticate(svc.CreateCheckout)))
	router.GET("/api/billing/return", authz.Authenticate(svc.PaymentReturn))
	router.GET("/api/billing/gate", authz.Authenticate(svc.GateState))
}

func AddRealtimeRoutes(router *httprouter.Router, gw *realtime.Gateway) {
	router.GET("/ws", gw.WebSocketHandler())
}
