package test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"tv-tracker/internal/catalog"
	"tv-tracker/internal/db"
	"tv-tracker/internal/mailer"
)

// MockTaskEnqueuer is a mock implementation of tasks.TaskEnqueuer for testing.
type MockTaskEnqueuer struct {
	EnqueuedTasks []*asynq.Task
}

func (m *MockTaskEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	m.EnqueuedTasks = append(m.EnqueuedTasks, task)
	return &asynq.TaskInfo{ID: "test-task-id", Queue: "default"}, nil
}

// MockMailer records outbound email instead of sending it.
type MockMailer struct {
	Sent []mailer.Email
	Err  error
}

func (m *MockMailer) Send(email mailer.Email) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, email)
	return nil
}

// StubCatalog returns a canned show or error and counts lookups.
type StubCatalog struct {
	Show  *catalog.TVShow
	Err   error
	Calls int
}

func (s *StubCatalog) TVShow(ctx context.Context, id string) (*catalog.TVShow, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Show, nil
}

// NewMockDB swaps the global DB handle for a sqlmock-backed one and
// restores it when the test finishes.
func NewMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	sqlxDB := sqlx.NewDb(mockDb, "sqlmock")

	originalDB := db.DB
	db.DB = sqlxDB
	t.Cleanup(func() {
		db.DB = originalDB
		mockDb.Close()
	})

	return sqlxDB, mock
}
