package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"tv-tracker/internal/auth"
	"tv-tracker/internal/catalog"
	"tv-tracker/internal/models"
	"tv-tracker/internal/notify"
	"tv-tracker/internal/test"
)

const testUserID = "7b80e05c-4cbb-4077-a7ac-4d382414fe81"

func newTestHandlers(stub *test.StubCatalog) (*Handlers, *test.MockMailer, *test.MockTaskEnqueuer) {
	m := &test.MockMailer{}
	e := &test.MockTaskEnqueuer{}
	return New(notify.NewService(stub, m, e)), m, e
}

func addSessionCookie(t *testing.T, req *http.Request) {
	t.Helper()
	auth.SetTestSecret("test-secret")
	token, err := auth.GenerateToken(&models.User{
		ID:       testUserID,
		Username: "testuser",
		Email:    "testuser@example.com",
	})
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: token})
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := map[string]any{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func expectUserLookup(mock sqlmock.Sqlmock) {
	rows := sqlmock.NewRows([]string{"id", "username", "email"}).
		AddRow(testUserID, "testuser", "testuser@example.com")
	mock.ExpectQuery(`SELECT id, username, email FROM users WHERE id = \$1`).
		WithArgs(testUserID).
		WillReturnRows(rows)
}

func TestSubscribeMissingShowID(t *testing.T) {
	_, mock := test.NewMockDB(t)
	stub := &test.StubCatalog{}
	h, _, _ := newTestHandlers(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users/notifications", strings.NewReader(`{}`))
	addSessionCookie(t, req)
	rr := httptest.NewRecorder()

	h.Subscribe(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, stub.Calls, "no catalog call may happen without a show id")
	assert.NoError(t, mock.ExpectationsWereMet(), "no store call may happen without a show id")
}

func TestSubscribeWithoutToken(t *testing.T) {
	test.NewMockDB(t)
	stub := &test.StubCatalog{}
	h, _, _ := newTestHandlers(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users/notifications", strings.NewReader(`{"tvShowId":1399}`))
	rr := httptest.NewRecorder()

	h.Subscribe(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, stub.Calls)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["emailSent"])
}

func TestSubscribeSuccess(t *testing.T) {
	_, mock := test.NewMockDB(t)
	expectUserLookup(mock)
	mock.ExpectQuery(`INSERT INTO notifications`).
		WithArgs(testUserID, "1399", "2025-10-25").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	stub := &test.StubCatalog{Show: &catalog.TVShow{
		Name:             "Severance",
		Status:           "Returning Series",
		NextEpisodeToAir: &catalog.NextEpisode{AirDate: "2025-10-25"},
	}}
	h, mailer, _ := newTestHandlers(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users/notifications", strings.NewReader(`{"tvShowId":1399}`))
	addSessionCookie(t, req)
	rr := httptest.NewRecorder()

	h.Subscribe(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["emailSent"])
	assert.Len(t, mailer.Sent, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeUpstreamFailure(t *testing.T) {
	_, mock := test.NewMockDB(t)
	expectUserLookup(mock)

	stub := &test.StubCatalog{Err: catalog.ErrUnavailable}
	h, _, _ := newTestHandlers(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users/notifications", strings.NewReader(`{"tvShowId":1399}`))
	addSessionCookie(t, req)
	rr := httptest.NewRecorder()

	h.Subscribe(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotifications(t *testing.T) {
	_, mock := test.NewMockDB(t)

	userRows := sqlmock.NewRows([]string{"id", "username", "email"}).
		AddRow(testUserID, "testuser", "testuser@example.com")
	mock.ExpectQuery(`SELECT id, username, email, created_at, updated_at FROM users WHERE id = \$1`).
		WithArgs(testUserID).
		WillReturnRows(userRows)

	notificationRows := sqlmock.NewRows([]string{"id", "show_id", "notification_date"}).
		AddRow(1, "1399", "2025-10-25").
		AddRow(2, "1399", models.AirDateUnknown)
	mock.ExpectQuery(`SELECT id, user_id, show_id, date_created, notification_date FROM notifications`).
		WithArgs(testUserID).
		WillReturnRows(notificationRows)

	h, _, _ := newTestHandlers(&test.StubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/notifications", nil)
	addSessionCookie(t, req)
	rr := httptest.NewRecorder()

	h.GetNotifications(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotificationWithoutToken(t *testing.T) {
	test.NewMockDB(t)
	h, _, _ := newTestHandlers(&test.StubCatalog{})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/notifications", strings.NewReader(`{"showId":"1399"}`))
	rr := httptest.NewRecorder()

	h.DeleteNotification(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDeleteNotificationMissingShowID(t *testing.T) {
	test.NewMockDB(t)
	h, _, _ := newTestHandlers(&test.StubCatalog{})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/notifications", strings.NewReader(`{}`))
	addSessionCookie(t, req)
	rr := httptest.NewRecorder()

	h.DeleteNotification(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteNotification(t *testing.T) {
	_, mock := test.NewMockDB(t)

	userRows := sqlmock.NewRows([]string{"id", "username", "email"}).
		AddRow(testUserID, "testuser", "testuser@example.com")
	mock.ExpectQuery(`SELECT id, username, email, created_at, updated_at FROM users WHERE id = \$1`).
		WithArgs(testUserID).
		WillReturnRows(userRows)

	// Both the dated and the sentinel record for the show go away.
	mock.ExpectExec(`DELETE FROM notifications`).
		WithArgs(testUserID, "1399").
		WillReturnResult(sqlmock.NewResult(0, 2))

	h, _, _ := newTestHandlers(&test.StubCatalog{})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/notifications", strings.NewReader(`{"showId":"1399"}`))
	addSessionCookie(t, req)
	rr := httptest.NewRecorder()

	h.DeleteNotification(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Contains(t, body["message"], "successfully removed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
