package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"tv-tracker/internal/auth"
	"tv-tracker/internal/db"
)

// showID accepts both the numeric and the string JSON form of a catalog
// id. The record always stores the string form.
type showID string

func (s *showID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = showID(n.String())
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = showID(str)
	return nil
}

type subscribeRequest struct {
	TVShowID showID `json:"tvShowId"`
}

type deleteNotificationRequest struct {
	ShowID showID `json:"showId"`
}

// Subscribe runs the notification subscription workflow for the caller.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"message":   "Invalid JSON body.",
			"emailSent": false,
		})
		return
	}

	if req.TVShowID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"message":   "Missing TV Show ID in request body.",
			"emailSent": false,
		})
		return
	}

	userID, err := auth.UserIDFromRequest(r)
	if err != nil {
		log.Printf("Notification subscription auth failure: %v", err)
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"message":   "Authentication failed. Please log in again.",
			"emailSent": false,
		})
		return
	}

	result, err := h.notify.Subscribe(r.Context(), userID, string(req.TVShowID))
	if err != nil {
		log.Printf("Notification subscription error: %v", err)
		respondJSON(w, statusFor(err), map[string]any{
			"message":   clientMessage(err),
			"emailSent": false,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":   result.Message,
		"emailSent": result.EmailSent,
		"success":   result.Success,
	})
}

// GetNotifications lists the caller's subscription records.
func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromRequest(r)
	if err != nil {
		log.Printf("Error fetching notifications: %v", err)
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"error": "Authentication failed. Please log in.",
		})
		return
	}

	if _, err := db.GetUserByID(userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusNotFound, map[string]any{
				"message": "User not found or not logged in.",
			})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to fetch notifications list.",
		})
		return
	}

	notifications, err := db.GetNotificationsByUserID(userID)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to fetch notifications list.",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":    notifications,
		"success": true,
	})
}

// DeleteNotification removes every record for a show id, regardless of
// notification date.
func (h *Handlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromRequest(r)
	if err != nil {
		log.Printf("Error deleting notification: %v", err)
		respondJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid or expired token."})
		return
	}

	var req deleteNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body."})
		return
	}
	showID := string(req.ShowID)
	if showID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing showId in request body."})
		return
	}

	if _, err := db.GetUserByID(userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusNotFound, map[string]any{"error": "User not found."})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to delete notification due to a server error.",
		})
		return
	}

	if err := db.DeleteNotificationsByShowID(userID, showID); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to delete notification due to a server error.",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Notification for show ID %s successfully removed or already nonexistent.", showID),
	})
}
