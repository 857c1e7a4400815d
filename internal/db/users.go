package db

import (
	"log"

	"github.com/google/uuid"
	"tv-tracker/internal/models"
)

// CreateUser inserts a new user with a freshly generated id.
func CreateUser(username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, password_hash, created_at, updated_at
	`
	user := &models.User{}
	err := DB.Get(user, query, uuid.NewString(), username, email, passwordHash)
	if err != nil {
		log.Printf("Error creating user %s: %v", username, err)
		return nil, err
	}
	return user, nil
}

// GetUserByEmail loads a user including the password hash, for login.
func GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	user := &models.User{}
	err := DB.Get(user, query, email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByUsernameOrEmail is the signup duplicate check. Returns
// sql.ErrNoRows when neither is taken.
func GetUserByUsernameOrEmail(username, email string) (*models.User, error) {
	query := `
		SELECT id, username, email
		FROM users
		WHERE username = $1 OR email = $2
	`
	user := &models.User{}
	err := DB.Get(user, query, username, email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID loads a user without the password hash.
func GetUserByID(id string) (*models.User, error) {
	query := `
		SELECT id, username, email, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	user := &models.User{}
	err := DB.Get(user, query, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserForNotify selects only the fields the notification workflow
// needs: contact address and display name.
func GetUserForNotify(id string) (*models.User, error) {
	query := `SELECT id, username, email FROM users WHERE id = $1`
	user := &models.User{}
	err := DB.Get(user, query, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
