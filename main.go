package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/TaINaS20/tarefa-node-api/internal/config"
	"github.com/TaINaS20/tarefa-node-api/internal/db"
	"github.com/TaINaS20/tarefa-node-api/internal/handlers"
	"github.com/TaINaS20/tarefa-node-api/internal/hash"
	appmiddleware "github.com/TaINaS20/tarefa-node-api/internal/middleware"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := db.NewStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", handlers.Health)

	hasher := hash.New(cfg.BcryptCost)
	usersHandler := handlers.NewUsersHandler(store, hasher, logger)
	postsHandler := handlers.NewPostsHandler(store, logger)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", usersHandler.Create)
		r.Get("/", usersHandler.List)
		r.Get("/{id}", usersHandler.Get)
		r.Put("/{id}", usersHandler.Update)
		r.Delete("/{id}", usersHandler.Delete)
		r.Get("/{id}/posts", usersHandler.ListPosts)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Post("/", postsHandler.Create)
		r.Get("/", postsHandler.List)
		r.Get("/{id}", postsHandler.Get)
		r.Put("/{id}", postsHandler.Update)
		r.Delete("/{id}", postsHandler.Delete)
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
