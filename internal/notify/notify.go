// Package notify implements the notification subscription workflow:
// resolve the user, look the show up in the catalog, append a
// subscription record for its next air date, and send a confirmation
// email when that date is known.
package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"tv-tracker/internal/catalog"
	"tv-tracker/internal/db"
	"tv-tracker/internal/mailer"
	"tv-tracker/internal/models"
	"tv-tracker/pkg/tasks"
)

// Catalog is the show metadata lookup used by the workflow.
type Catalog interface {
	TVShow(ctx context.Context, id string) (*catalog.TVShow, error)
}

// Result is the success envelope of a Subscribe call.
type Result struct {
	Message   string
	EmailSent bool
	Success   bool
}

type Service struct {
	catalog Catalog
	mailer  mailer.Mailer
	enqueue tasks.TaskEnqueuer
}

func NewService(c Catalog, m mailer.Mailer, enqueue tasks.TaskEnqueuer) *Service {
	return &Service{catalog: c, mailer: m, enqueue: enqueue}
}

const internalErrorMessage = "Internal server error during subscription setup. Please check logs."

// unknownAirDateRecheck is how long to wait before re-asking the catalog
// about a show that had no announced air date at subscribe time.
const unknownAirDateRecheck = 24 * time.Hour

// Subscribe attempts to create a next-episode subscription for the show.
// At most one row is written and at most one email is sent per call, and
// the write always happens before the email: a mail failure leaves the
// subscription in place.
func (s *Service) Subscribe(ctx context.Context, userID, showID string) (Result, error) {
	if strings.TrimSpace(showID) == "" {
		return Result{}, &Error{Kind: KindBadRequest, Message: "Missing TV Show ID in request body."}
	}

	user, err := db.GetUserForNotify(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, &Error{Kind: KindUnauthorized, Message: "User not found or unauthorized"}
	}
	if err != nil {
		return Result{}, &Error{Kind: KindInternal, Message: internalErrorMessage, Err: err}
	}

	// Any transport failure aborts before anything is persisted: a
	// partial subscription must never be created.
	show, err := s.catalog.TVShow(ctx, showID)
	if errors.Is(err, catalog.ErrUnavailable) {
		return Result{}, &Error{
			Kind:    KindUpstream,
			Message: "Failed to retrieve show details from TMDB. Cannot create subscription.",
			Err:     err,
		}
	}
	if err != nil {
		return Result{}, &Error{Kind: KindInternal, Message: internalErrorMessage, Err: err}
	}

	showName := strings.TrimSpace(show.Name)
	if showName == "" {
		// The catalog answered, but the payload is unusable. Kept
		// distinct from the transport failure above: one is 503, this
		// is a 400.
		return Result{}, &Error{
			Kind:    KindIncomplete,
			Message: "Show details were incomplete. Cannot create subscription.",
			Err:     fmt.Errorf("catalog returned show %s with missing or empty name", showID),
		}
	}

	if show.Status == "Canceled" || show.Status == "Ended" {
		return Result{
			Message: fmt.Sprintf("%s is no longer airing new episodes (Status: %s).", showName, show.Status),
		}, nil
	}

	notificationDate := models.AirDateUnknown
	if show.NextEpisodeToAir != nil && show.NextEpisodeToAir.AirDate != "" {
		notificationDate = show.NextEpisodeToAir.AirDate
	}

	inserted, err := db.InsertNotification(userID, showID, notificationDate)
	if err != nil {
		if isSchemaViolation(err) {
			return Result{}, &Error{
				Kind:    KindSchema,
				Message: "Subscription failed: internal schema mismatch.",
				Err:     err,
			}
		}
		return Result{}, &Error{Kind: KindInternal, Message: internalErrorMessage, Err: err}
	}

	if !inserted {
		return Result{
			Message: fmt.Sprintf("You are already subscribed to a notification for the next available episode of %s.", showName),
			Success: true,
		}, nil
	}

	if notificationDate == models.AirDateUnknown {
		s.scheduleRecheck(userID, showID)
		return Result{
			Message: fmt.Sprintf("Subscription confirmed! We'll notify you when %s announces its next episode date.", showName),
			Success: true,
		}, nil
	}

	airDate := FormatAirDate(notificationDate)
	email := mailer.Email{
		To:       user.Email,
		Subject:  fmt.Sprintf("📅 Notification Confirmed: %s is airing soon!", showName),
		HTMLBody: confirmationBody(user.Username, showName, airDate),
	}
	if err := s.mailer.Send(email); err != nil {
		// The row stays: a failed confirmation must not undo the
		// already-persisted subscription.
		return Result{}, &Error{Kind: KindInternal, Message: internalErrorMessage, Err: err}
	}

	return Result{
		Message:   fmt.Sprintf("Success! Reminder set for %s on %s. An email confirmation has been sent.", showName, airDate),
		EmailSent: true,
		Success:   true,
	}, nil
}

// scheduleRecheck enqueues a delayed catalog re-check for a show whose
// air date is still unannounced. Enqueue failures are logged only; the
// periodic scan will pick the show up anyway.
func (s *Service) scheduleRecheck(userID, showID string) {
	task, err := tasks.NewRefreshShowTask(userID, showID)
	if err != nil {
		log.Printf("Error creating refresh task for show %s: %v", showID, err)
		return
	}
	if _, err := s.enqueue.Enqueue(task, asynq.ProcessIn(unknownAirDateRecheck)); err != nil {
		log.Printf("Error enqueuing refresh task for show %s: %v", showID, err)
	}
}

func confirmationBody(username, showName, airDate string) string {
	return fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>You have successfully signed up for notifications for <strong>%s</strong>!</p>
        <p>The next episode is scheduled for <strong>%s</strong>. We've sent this reminder to confirm your subscription.</p>
        <p>If you wish to manage your notifications, please visit your profile page.</p>
      `, username, showName, airDate)
}

// FormatAirDate renders an ISO date as a long-form date string. Unparsable
// input is returned as-is.
func FormatAirDate(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("January 2, 2006")
}

// isSchemaViolation reports whether a write failed schema validation in
// the storage layer. These surface as a 400 rather than a 500; the
// special casing dates back to a schema drift incident and is part of the
// client contract.
func isSchemaViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "23502", // not_null_violation
		"23514", // check_violation
		"22P02", // invalid_text_representation
		"42703": // undefined_column
		return true
	}
	return false
}
