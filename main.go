package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"carrito/auth"
	"carrito/billing"
	"carrito/convo"
	"carrito/dashboard"
	"carrito/db"
	"carrito/middleware"
	"carrito/mq"
	"carrito/notify"
	"carrito/ratelim"
	"carrito/rdx"
	"carrito/realtime"
	"carrito/routes"
	"carrito/settings"
	"carrito/store"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// requireEnv collects the required settings. Missing credentials are fatal to
// boot: the whole service refuses to start rather than limp along without its
// collaborators.
func requireEnv(names ...string) map[string]string {
	vals := make(map[string]string, len(names))
	var missing []string
	for _, name := range names {
		v := os.Getenv(name)
		if v == "" {
			missing = append(missing, name)
			continue
		}
		vals[name] = v
	}
	if len(missing) > 0 {
		log.Fatalf("❌ Missing required configuration: %v — refusing to start", missing)
	}
	return vals
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	env := requireEnv("MONGO_URI", "REDIS_URL", "JWT_SECRET", "CHECKOUT_URL")

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, env["MONGO_URI"])
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}

	redisClient, err := rdx.Connect(ctx, env["REDIS_URL"], os.Getenv("REDIS_PASSWORD"))
	if err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}

	secret := []byte(env["JWT_SECRET"])
	authz := middleware.NewAuthenticator(secret)
	rateLimiter := ratelim.NewRateLimiter()
	emitter := mq.NewEmitter(redisClient)
	liveStore := store.New(database, redisClient)

	hub := realtime.NewHub()
	go hub.Run()
	notifier := notify.NewCenter(hub)

	configSvc := settings.NewService(database, emitter, notifier)
	authSvc := auth.NewService(database, redisClient, secret)
	dashSvc := dashboard.NewService(database)
	convoSvc := convo.NewService(database)
	markers := billing.NewMarkerStore(redisClient)
	billingSvc := billing.NewService(configSvc, markers, env["CHECKOUT_URL"])

	gateway := &realtime.Gateway{
		Auth:      authz,
		Store:     liveStore,
		Dashboard: dashSvc,
		Convos:    convoSvc,
		Config:    configSvc,
		Markers:   markers,
		Notifier:  notifier,
		Hub:       hub,
	}

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddAuthRoutes(router, authSvc, authz, rateLimiter)
	routes.AddConfigRoutes(router, configSvc, authz, rateLimiter)
	routes.AddDashboardRoutes(router, dashSvc, authz)
	routes.AddConvoRoutes(router, convoSvc, authz)
	routes.AddBillingRoutes(router, billingSvc, authz, rateLimiter)
	routes.AddRealtimeRoutes(router, gateway)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down realtime hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	if err := database.Close(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
