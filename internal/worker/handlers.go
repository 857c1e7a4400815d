package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"tv-tracker/internal/db"
	"tv-tracker/internal/mailer"
	"tv-tracker/internal/models"
	"tv-tracker/internal/notify"
	"tv-tracker/pkg/tasks"
)

// TaskHandler processes the background tasks: air-date re-checks for
// shows that had no announced date at subscribe time, and day-of
// reminder emails.
type TaskHandler struct {
	asynqClient tasks.TaskEnqueuer
	catalog     notify.Catalog
	mailer      mailer.Mailer
}

func NewTaskHandler(client tasks.TaskEnqueuer, catalog notify.Catalog, m mailer.Mailer) *TaskHandler {
	return &TaskHandler{asynqClient: client, catalog: catalog, mailer: m}
}

// HandleRefreshAirDatesTask fans out one refresh task per (user, show)
// pair whose air date is still the unknown sentinel.
func (h *TaskHandler) HandleRefreshAirDatesTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Checking pending air dates...")

	pending, err := db.GetPendingAirDateNotifications()
	if err != nil {
		return fmt.Errorf("failed to get pending air date notifications: %w", err)
	}

	for _, n := range pending {
		task, err := tasks.NewRefreshShowTask(n.UserID, n.ShowID)
		if err != nil {
			log.Printf("failed to create refresh task for show %s: %v", n.ShowID, err)
			continue
		}
		if _, err := h.asynqClient.Enqueue(task); err != nil {
			log.Printf("failed to enqueue refresh task for show %s: %v", n.ShowID, err)
			continue
		}
	}

	log.Printf("Finished checking pending air dates (%d pending).", len(pending))
	return nil
}

// HandleRefreshShowTask re-asks the catalog for one show. When an air
// date has been announced since subscribe time, a new dated record is
// appended (the old sentinel row stays, records are never mutated) and
// the user is emailed. Returning a catalog error lets asynq retry with
// backoff.
func (h *TaskHandler) HandleRefreshShowTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.RefreshShowTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	log.Printf("Re-checking air date for show %s (user %s)", p.ShowID, p.UserID)

	show, err := h.catalog.TVShow(ctx, p.ShowID)
	if err != nil {
		return fmt.Errorf("failed to look up show %s: %w", p.ShowID, err)
	}

	showName := strings.TrimSpace(show.Name)
	if showName == "" {
		log.Printf("Catalog returned show %s without a name, skipping", p.ShowID)
		return nil
	}
	if show.Status == "Canceled" || show.Status == "Ended" {
		return nil
	}
	if show.NextEpisodeToAir == nil || show.NextEpisodeToAir.AirDate == "" {
		// Still unannounced. The periodic scan will try again.
		return nil
	}

	inserted, err := db.InsertNotification(p.UserID, p.ShowID, show.NextEpisodeToAir.AirDate)
	if err != nil {
		return fmt.Errorf("failed to insert notification for show %s: %w", p.ShowID, err)
	}
	if !inserted {
		// The dated record already exists, so the user was already told.
		return nil
	}

	user, err := db.GetUserForNotify(p.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user %s: %w", p.UserID, err)
	}

	airDate := notify.FormatAirDate(show.NextEpisodeToAir.AirDate)
	email := mailer.Email{
		To:      user.Email,
		Subject: fmt.Sprintf("📅 Air date announced: %s", showName),
		HTMLBody: fmt.Sprintf(`
        <p>Hello %s,</p>
        <p><strong>%s</strong> has announced its next episode: it airs on <strong>%s</strong>.</p>
        <p>If you wish to manage your notifications, please visit your profile page.</p>
      `, user.Username, showName, airDate),
	}
	if err := h.mailer.Send(email); err != nil {
		return fmt.Errorf("failed to send air date email to %s: %w", user.Email, err)
	}

	log.Printf("Air date for show %s recorded (%s), user %s notified", p.ShowID, show.NextEpisodeToAir.AirDate, p.UserID)
	return nil
}

// HandleDispatchRemindersTask fans out one reminder task per record whose
// air date is today.
func (h *TaskHandler) HandleDispatchRemindersTask(ctx context.Context, t *asynq.Task) error {
	today := time.Now().UTC().Format("2006-01-02")
	log.Printf("Dispatching reminders for %s...", today)

	due, err := db.GetDueReminders(today)
	if err != nil {
		return fmt.Errorf("failed to get due reminders: %w", err)
	}

	for _, n := range due {
		task, err := tasks.NewSendReminderTask(n.ID)
		if err != nil {
			log.Printf("failed to create reminder task for notification %d: %v", n.ID, err)
			continue
		}
		if _, err := h.asynqClient.Enqueue(task); err != nil {
			log.Printf("failed to enqueue reminder task for notification %d: %v", n.ID, err)
			continue
		}
	}

	log.Printf("Finished dispatching reminders (%d due).", len(due))
	return nil
}

// HandleSendReminderTask emails the user that their show airs today.
func (h *TaskHandler) HandleSendReminderTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.SendReminderTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	notification, err := db.GetNotificationByID(p.NotificationID)
	if err != nil {
		return fmt.Errorf("failed to get notification %d: %w", p.NotificationID, err)
	}
	if notification.NotificationDate == models.AirDateUnknown {
		return nil
	}

	user, err := db.GetUserForNotify(notification.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user %s: %w", notification.UserID, err)
	}

	// The record only carries the show id; look the current name up so
	// the email is readable. A catalog failure here is retryable.
	show, err := h.catalog.TVShow(ctx, notification.ShowID)
	if err != nil {
		return fmt.Errorf("failed to look up show %s: %w", notification.ShowID, err)
	}
	showName := strings.TrimSpace(show.Name)
	if showName == "" {
		showName = "Your show"
	}

	airDate := notify.FormatAirDate(notification.NotificationDate)
	email := mailer.Email{
		To:      user.Email,
		Subject: fmt.Sprintf("🎬 Airing today: %s", showName),
		HTMLBody: fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>The next episode of <strong>%s</strong> airs today, %s. Enjoy!</p>
      `, user.Username, showName, airDate),
	}
	if err := h.mailer.Send(email); err != nil {
		return fmt.Errorf("failed to send reminder email to %s: %w", user.Email, err)
	}

	log.Printf("Reminder sent to %s for show %s", user.Email, notification.ShowID)
	return nil
}
