package db

import (
	"database/sql"
	"errors"
	"log"

	"tv-tracker/internal/models"
)

// InsertNotification appends a subscription record. The insert is atomic:
// the unique (user_id, show_id, notification_date) index plus ON CONFLICT
// DO NOTHING replaces a separate already-subscribed read, so two
// interleaved requests cannot produce duplicate rows. Returns false when
// an identical record already exists.
func InsertNotification(userID, showID, notificationDate string) (bool, error) {
	query := `
		INSERT INTO notifications (user_id, show_id, date_created, notification_date)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (user_id, show_id, notification_date) DO NOTHING
		RETURNING id
	`
	var id int
	err := DB.Get(&id, query, userID, showID, notificationDate)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Printf("Error inserting notification for user %s show %s: %v", userID, showID, err)
		return false, err
	}
	return true, nil
}

func GetNotificationsByUserID(userID string) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, show_id, date_created, notification_date
		FROM notifications
		WHERE user_id = $1
		ORDER BY date_created DESC
	`
	notifications := []models.Notification{}
	err := DB.Select(&notifications, query, userID)
	if err != nil {
		log.Printf("Error getting notifications for user %s: %v", userID, err)
		return nil, err
	}
	return notifications, nil
}

func GetNotificationByID(id int) (models.Notification, error) {
	notification := models.Notification{}
	query := `
		SELECT id, user_id, show_id, date_created, notification_date
		FROM notifications
		WHERE id = $1
	`
	err := DB.Get(&notification, query, id)
	return notification, err
}

// DeleteNotificationsByShowID removes every record for the show,
// regardless of notification date.
func DeleteNotificationsByShowID(userID, showID string) error {
	query := `
		DELETE FROM notifications
		WHERE user_id = $1 AND show_id = $2
	`
	_, err := DB.Exec(query, userID, showID)
	if err != nil {
		log.Printf("Error deleting notifications for user %s show %s: %v", userID, showID, err)
		return err
	}
	return nil
}

// GetPendingAirDateNotifications lists the (user, show) pairs whose air
// date was unknown at subscribe time. Pairs that have gained a dated row
// since are still returned; the atomic insert dedups any re-check.
func GetPendingAirDateNotifications() ([]models.Notification, error) {
	query := `
		SELECT DISTINCT user_id, show_id
		FROM notifications
		WHERE notification_date = $1
	`
	var notifications []models.Notification
	err := DB.Select(&notifications, query, models.AirDateUnknown)
	if err != nil {
		log.Printf("Error getting pending air date notifications: %v", err)
		return nil, err
	}
	return notifications, nil
}

// GetDueReminders lists records whose air date equals the given ISO date.
func GetDueReminders(date string) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, show_id, date_created, notification_date
		FROM notifications
		WHERE notification_date = $1
	`
	var notifications []models.Notification
	err := DB.Select(&notifications, query, date)
	if err != nil {
		log.Printf("Error getting due reminders for %s: %v", date, err)
		return nil, err
	}
	return notifications, nil
}
