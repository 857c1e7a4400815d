package db

import "log"

// AddFavorite adds a media id to the user's favorites set. Re-adding an
// existing favorite is a no-op.
func AddFavorite(userID string, mediaID int64, mediaType string) error {
	query := `
		INSERT INTO favorites (user_id, media_id, media_type)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	_, err := DB.Exec(query, userID, mediaID, mediaType)
	if err != nil {
		log.Printf("Error adding favorite %d for user %s: %v", mediaID, userID, err)
		return err
	}
	return nil
}

// RemoveFavorite removes a media id from the user's favorites set.
func RemoveFavorite(userID string, mediaID int64, mediaType string) error {
	query := `
		DELETE FROM favorites
		WHERE user_id = $1 AND media_id = $2 AND media_type = $3
	`
	_, err := DB.Exec(query, userID, mediaID, mediaType)
	if err != nil {
		log.Printf("Error removing favorite %d for user %s: %v", mediaID, userID, err)
		return err
	}
	return nil
}

// GetFavoriteIDs returns the user's favorite media ids of one type.
func GetFavoriteIDs(userID string, mediaType string) ([]int64, error) {
	query := `
		SELECT media_id
		FROM favorites
		WHERE user_id = $1 AND media_type = $2
		ORDER BY media_id
	`
	ids := []int64{}
	err := DB.Select(&ids, query, userID, mediaType)
	if err != nil {
		log.Printf("Error getting favorites for user %s: %v", userID, err)
		return nil, err
	}
	return ids, nil
}
