package handlers

import (
	"encoding/json"
	"net/http"

	"tv-tracker/internal/auth"
	"tv-tracker/internal/db"
	"tv-tracker/internal/models"
)

type favoriteMovieRequest struct {
	MovieID int64  `json:"movieId"`
	Type    string `json:"type"`
}

type favoriteTVRequest struct {
	ShowID int64  `json:"showId"`
	Type   string `json:"type"`
}

type removeFavoriteRequest struct {
	MediaID   int64  `json:"mediaId"`
	MediaType string `json:"mediaType"`
}

// AddFavoriteMovie adds a movie id to the caller's favorites set.
func (h *Handlers) AddFavoriteMovie(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromRequest(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authenticated"})
		return
	}

	var req favoriteMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MovieID == 0 || req.Type != models.MediaTypeMovie {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request payload"})
		return
	}

	h.addFavorite(w, userID, req.MovieID, models.MediaTypeMovie, "Movie added to favorites")
}

// AddFavoriteTVShow adds a TV show id to the caller's favorites set.
func (h *Handlers) AddFavoriteTVShow(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromRequest(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authenticated"})
		return
	}

	var req favoriteTVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShowID == 0 || req.Type != models.MediaTypeTVShow {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request payload"})
		return
	}

	h.addFavorite(w, userID, req.ShowID, models.MediaTypeTVShow, "TV Show added to favorites")
}

func (h *Handlers) addFavorite(w http.ResponseWriter, userID string, mediaID int64, mediaType, message string) {
	if err := db.AddFavorite(userID, mediaID, mediaType); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"})
		return
	}

	favorites, err := db.GetFavoriteIDs(userID, mediaType)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":   message,
		"favorites": favorites,
	})
}

// RemoveFavorite removes a media id from the caller's favorites set.
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromRequest(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"message": "Authentication required"})
		return
	}

	var req removeFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MediaID == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request payload"})
		return
	}

	mediaType := models.MediaTypeTVShow
	if req.MediaType == models.MediaTypeMovie {
		mediaType = models.MediaTypeMovie
	}

	if err := db.RemoveFavorite(userID, req.MediaID, mediaType); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": mediaType + " removed successfully",
		"success": true,
	})
}

// GetFavorites returns both favorites lists.
func (h *Handlers) GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromRequest(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid or expired token."})
		return
	}

	movies, err := db.GetFavoriteIDs(userID, models.MediaTypeMovie)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"})
		return
	}
	shows, err := db.GetFavoriteIDs(userID, models.MediaTypeTVShow)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "User favorites fetched successfully",
		"success": true,
		"data": map[string]any{
			"favoriteMovies":  movies,
			"favoriteTvShows": shows,
		},
	})
}
