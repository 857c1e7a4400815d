package main

import (
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"tv-tracker/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr},
		&asynq.SchedulerOpts{},
	)

	refreshTask, err := tasks.NewRefreshAirDatesTask()
	if err != nil {
		log.Fatalf("could not create task: %v", err)
	}
	if _, err := scheduler.Register("@every 6h", refreshTask); err != nil {
		log.Fatalf("could not register task: %v", err)
	}

	remindersTask, err := tasks.NewDispatchRemindersTask()
	if err != nil {
		log.Fatalf("could not create task: %v", err)
	}
	// Every morning at 08:00 UTC
	if _, err := scheduler.Register("0 8 * * *", remindersTask); err != nil {
		log.Fatalf("could not register task: %v", err)
	}

	log.Printf("Scheduler starting (commit: %s)", CommitSHA)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("could not run scheduler: %v", err)
	}
}
