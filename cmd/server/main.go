package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"tv-tracker/internal/catalog"
	"tv-tracker/internal/db"
	"tv-tracker/internal/handlers"
	"tv-tracker/internal/mailer"
	"tv-tracker/internal/middleware"
	"tv-tracker/internal/notify"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()
	db.Migrate()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	notifyService := notify.NewService(catalog.NewFromEnv(), mailer.NewFromEnv(), asynqClient)
	h := handlers.New(notifyService)

	rateLimiter := middleware.NewRateLimiterMiddleware(rate.Limit(5), 10)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/users").Subrouter()
	api.Use(rateLimiter.Middleware)

	api.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)
	api.HandleFunc("/checktoken", h.CheckToken).Methods(http.MethodGet)

	api.HandleFunc("/favorites/movie", h.AddFavoriteMovie).Methods(http.MethodPost)
	api.HandleFunc("/favorites/tv", h.AddFavoriteTVShow).Methods(http.MethodPost)
	api.HandleFunc("/favorites/remove", h.RemoveFavorite).Methods(http.MethodPost)
	api.HandleFunc("/favorites", h.GetFavorites).Methods(http.MethodGet)

	api.HandleFunc("/notifications", h.Subscribe).Methods(http.MethodPost)
	api.HandleFunc("/notifications", h.GetNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications", h.DeleteNotification).Methods(http.MethodDelete)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
