package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"tv-tracker/internal/auth"
	"tv-tracker/internal/db"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new user.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body."})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Username, email and a password of at least 8 characters are required.",
		})
		return
	}

	existing, err := db.GetUserByUsernameOrEmail(req.Username, req.Email)
	if err == nil {
		errorMessage := "User already exists"
		if existing.Email == req.Email {
			errorMessage = "A user with this email already exists"
		} else if existing.Username == req.Username {
			errorMessage = "This username is already taken"
		}
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": errorMessage})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("Error checking for existing user: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	if _, err := db.CreateUser(req.Username, req.Email, hash); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "User has been created",
		"success": true,
	})
}

// Login verifies credentials and sets the session cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body."})
		return
	}

	user, err := db.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, sql.ErrNoRows) {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "User does not exist"})
		return
	}
	if err != nil {
		log.Printf("Error loading user for login: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Wrong password try again"})
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   24 * 60 * 60,
	})
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login Successful",
		"success": true,
	})
}

// Logout clears the session cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Logout successful",
		"success": true,
	})
}

// CheckToken reports whether the session cookie is valid and echoes the
// identity claims it carries.
func (h *Handlers) CheckToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.TokenCookieName)
	if err != nil || cookie.Value == "" {
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Unauthorized: No token provided.",
		})
		return
	}

	claims, err := auth.ParseToken(cookie.Value)
	if err != nil {
		log.Printf("Token verification failed: %v", err)
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Unauthorized: Invalid or expired token.",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Authenticated",
		"user": map[string]string{
			"id":       claims.Subject,
			"username": claims.Username,
			"email":    claims.Email,
		},
	})
}
