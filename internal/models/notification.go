package models

import "time"

// AirDateUnknown is the sentinel notification date used when the catalog
// has not announced the next episode yet. It is distinct from the absence
// of a record.
const AirDateUnknown = "N/A"

// Notification is one "next episode" subscription record. Records are
// append-only: a changed air date produces a new row, never an update of
// the old one. Removal matches by show id alone.
type Notification struct {
	ID               int       `db:"id" json:"-"`
	UserID           string    `db:"user_id" json:"-"`
	ShowID           string    `db:"show_id" json:"id"`
	DateCreated      time.Time `db:"date_created" json:"dateCreated"`
	NotificationDate string    `db:"notification_date" json:"notificationDate"`
}
