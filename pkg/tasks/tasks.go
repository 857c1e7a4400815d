package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeRefreshAirDates   = "airdates:refresh"
	TypeRefreshShow       = "airdates:refresh_show"
	TypeDispatchReminders = "reminders:dispatch"
	TypeSendReminder      = "reminder:send"
)

// RefreshShowTaskPayload identifies one (user, show) pair whose next
// episode air date should be re-checked against the catalog.
type RefreshShowTaskPayload struct {
	UserID string
	ShowID string
}

func NewRefreshShowTask(userID, showID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RefreshShowTaskPayload{UserID: userID, ShowID: showID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRefreshShow, payload), nil
}

func NewRefreshAirDatesTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeRefreshAirDates, nil), nil
}

// SendReminderTaskPayload identifies one subscription record that airs
// today.
type SendReminderTaskPayload struct {
	NotificationID int
}

func NewSendReminderTask(notificationID int) (*asynq.Task, error) {
	payload, err := json.Marshal(SendReminderTaskPayload{NotificationID: notificationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendReminder, payload), nil
}

func NewDispatchRemindersTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeDispatchReminders, nil), nil
}
