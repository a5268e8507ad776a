package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/checkin"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/service"
)

type fakeCheckInService struct {
	attendee domain.Attendee
	snapshot domain.AttendanceSnapshot
	err      error
}

func (f *fakeCheckInService) IssueToken(_ context.Context, eventID uint) (checkin.Token, string, error) {
	if f.err != nil {
		return checkin.Token{}, "", f.err
	}

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	return checkin.Token{
		EventID:   eventID,
		Nonce:     "nonce",
		IssuedAt:  now,
		ExpiresAt: now.Add(12 * time.Hour),
	}, "signed-payload", nil
}

func (f *fakeCheckInService) CheckInByToken(_ context.Context, _ uint, _, _ string) (domain.Attendee, error) {
	return f.attendee, f.err
}

func (f *fakeCheckInService) CheckInManual(_ context.Context, _ uint, _ string) (domain.Attendee, error) {
	return f.attendee, f.err
}

func (f *fakeCheckInService) CheckInByName(_ context.Context, _ uint, _ string) (domain.Attendee, error) {
	return f.attendee, f.err
}

func (f *fakeCheckInService) CheckOut(_ context.Context, _ uint, _ string) (domain.Attendee, error) {
	return f.attendee, f.err
}

func (f *fakeCheckInService) RegisterAttendee(_ context.Context, _ uint, _, _ string, _ domain.TicketClass) (domain.Attendee, error) {
	return f.attendee, f.err
}

func (f *fakeCheckInService) ListAttendees(_ context.Context, _ uint, _ string) ([]domain.Attendee, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []domain.Attendee{f.attendee}, nil
}

func (f *fakeCheckInService) Snapshot(_ context.Context, _ uint) (domain.AttendanceSnapshot, error) {
	return f.snapshot, f.err
}

func newTestRouter(svc CheckInService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewCheckInHandler(svc)
	router.POST("/events/:eventID/token", h.HandleIssueToken)
	router.GET("/events/:eventID/token/qr", h.HandleTokenQR)
	router.POST("/events/:eventID/check-ins/scan", h.HandleTokenCheckIn)
	router.POST("/events/:eventID/check-ins/manual", h.HandleManualCheckIn)
	router.POST("/events/:eventID/check-ins/name", h.HandleNameCheckIn)
	router.POST("/events/:eventID/check-outs", h.HandleCheckOut)
	router.POST("/events/:eventID/attendees", h.HandleRegisterAttendee)
	router.GET("/events/:eventID/attendees", h.HandleListAttendees)
	router.GET("/events/:eventID/attendees/export", h.HandleExportAttendees)
	router.GET("/events/:eventID/attendance", h.HandleAttendanceSnapshot)

	return router
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHandleIssueToken(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{})

	w := performRequest(router, http.MethodPost, "/events/1/token", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["event_id"])
	assert.Equal(t, "signed-payload", resp["payload"])
}

func TestHandleIssueToken_EventNotFound(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{err: service.ErrEventNotFound})

	w := performRequest(router, http.MethodPost, "/events/99/token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleIssueToken_BadEventID(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{})

	w := performRequest(router, http.MethodPost, "/events/abc/token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleTokenQR(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{})

	w := performRequest(router, http.MethodGet, "/events/1/token/qr", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestHandleTokenCheckIn(t *testing.T) {
	checkedInAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	router := newTestRouter(&fakeCheckInService{
		attendee: domain.Attendee{
			ID:     "a-1",
			Name:   "Emily Davis",
			Status: domain.StatusCheckedIn, CheckedInAt: &checkedInAt,
		},
	})

	w := performRequest(router, http.MethodPost, "/events/1/check-ins/scan",
		`{"payload":"signed-payload","attendee_id":"a-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.Attendee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusCheckedIn, resp.Status)
}

func TestHandleTokenCheckIn_InvalidToken(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{err: service.ErrInvalidToken})

	w := performRequest(router, http.MethodPost, "/events/1/check-ins/scan",
		`{"payload":"expired","attendee_id":"a-1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleTokenCheckIn_MissingBody(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{})

	w := performRequest(router, http.MethodPost, "/events/1/check-ins/scan", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleManualCheckIn_AttendeeNotFound(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{err: service.ErrAttendeeNotFound})

	w := performRequest(router, http.MethodPost, "/events/1/check-ins/manual",
		`{"attendee_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleNameCheckIn(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{
		attendee: domain.Attendee{ID: "w-1", Name: "Zephyr Q. Nobody", Provenance: domain.ProvenanceWalkIn, Status: domain.StatusCheckedIn},
	})

	w := performRequest(router, http.MethodPost, "/events/1/check-ins/name",
		`{"name":"Zephyr Q. Nobody"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.Attendee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.ProvenanceWalkIn, resp.Provenance)
}

func TestHandleNameCheckIn_RejectsNameWithoutLetters(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{})

	w := performRequest(router, http.MethodPost, "/events/1/check-ins/name",
		`{"name":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCheckOut(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{
		attendee: domain.Attendee{ID: "a-1", Status: domain.StatusNotArrived},
	})

	w := performRequest(router, http.MethodPost, "/events/1/check-outs",
		`{"attendee_id":"a-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.Attendee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusNotArrived, resp.Status)
	assert.Nil(t, resp.CheckedInAt)
}

func TestHandleListAttendees(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{
		attendee: domain.Attendee{ID: "a-1", Name: "Emily Davis"},
	})

	w := performRequest(router, http.MethodGet, "/events/1/attendees?filter=emily", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []domain.Attendee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Emily Davis", resp[0].Name)
}

func TestHandleExportAttendees(t *testing.T) {
	checkedInAt := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	router := newTestRouter(&fakeCheckInService{
		attendee: domain.Attendee{
			Name:        "Emily Davis",
			TicketClass: domain.TicketMember,
			Status:      domain.StatusCheckedIn,
			CheckedInAt: &checkedInAt,
		},
	})

	w := performRequest(router, http.MethodGet, "/events/1/attendees/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "event-1-attendees.csv")
	assert.Contains(t, w.Body.String(), "name,ticket_class,status,checked_in_at")
	assert.Contains(t, w.Body.String(), "Emily Davis,member,checked_in,2024-06-01T10:30:00Z")
}

func TestHandleAttendanceSnapshot(t *testing.T) {
	router := newTestRouter(&fakeCheckInService{
		snapshot: domain.AttendanceSnapshot{CheckedInCount: 3, TotalCount: 8, Rate: 0.375},
	})

	w := performRequest(router, http.MethodGet, "/events/1/attendance", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.AttendanceSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.CheckedInCount)
	assert.Equal(t, 8, resp.TotalCount)
	assert.Equal(t, 0.375, resp.Rate)
}
