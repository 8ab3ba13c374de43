package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/jverbeek/warfront/internal/auth"
	"github.com/jverbeek/warfront/internal/cache"
	"github.com/jverbeek/warfront/internal/database"
	"github.com/jverbeek/warfront/internal/game"
	"github.com/jverbeek/warfront/internal/handlers"
	"github.com/jverbeek/warfront/internal/metrics"
	"github.com/jverbeek/warfront/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, match records will not be queued: %v", err)
	}

	games := game.NewService()
	ps := handlers.NewPoolServer(logger, games)

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)

	// waiting pool endpoints
	mux.Handle("/pool/join", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.JoinPoolHandler(ps),
	)))
	mux.Handle("/pool/leave", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.LeavePoolHandler(ps),
	)))
	mux.Handle("/pool/status", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.PoolStatusHandler(ps),
	)))

	// pool websocket for match notifications
	mux.Handle("/pool/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.PoolWSHandler(logger, ps),
	)))

	mux.Handle("/metrics", metrics.Handler())

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
