package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"tv-tracker/internal/notify"
)

// Handlers holds the route handlers and their collaborators.
type Handlers struct {
	notify *notify.Service
}

func New(notifyService *notify.Service) *Handlers {
	return &Handlers{notify: notifyService}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// statusFor maps a workflow error to its HTTP status. Tagged kinds win;
// untagged errors fall back to the historical keyword match on the
// message text ("Unauthorized", "Token") that older clients rely on.
func statusFor(err error) int {
	var nerr *notify.Error
	if errors.As(err, &nerr) {
		switch nerr.Kind {
		case notify.KindBadRequest, notify.KindIncomplete, notify.KindSchema:
			return http.StatusBadRequest
		case notify.KindUnauthorized:
			return http.StatusUnauthorized
		case notify.KindUpstream:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "Unauthorized") || strings.Contains(msg, "Token") {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// clientMessage returns the sanitized message for a workflow error. Raw
// driver errors and stack detail never reach the client.
func clientMessage(err error) string {
	var nerr *notify.Error
	if errors.As(err, &nerr) {
		return nerr.Message
	}
	if statusFor(err) == http.StatusUnauthorized {
		return "Authentication failed. Please log in again."
	}
	return "Internal server error during subscription setup. Please check logs."
}
