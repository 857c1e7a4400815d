package models

const (
	MediaTypeMovie  = "movie"
	MediaTypeTVShow = "tvshow"
)

// Favorite is a single entry in a user's favorites set.
type Favorite struct {
	UserID    string `db:"user_id"`
	MediaID   int64  `db:"media_id"`
	MediaType string `db:"media_type"`
}
