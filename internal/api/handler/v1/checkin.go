package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/checkin"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/service"
)

// qrSize keeps the rendered code legible for generic camera scanners.
const qrSize = 256

type CheckInService interface {
	IssueToken(ctx context.Context, eventID uint) (checkin.Token, string, error)
	CheckInByToken(ctx context.Context, eventID uint, payload, attendeeID string) (domain.Attendee, error)
	CheckInManual(ctx context.Context, eventID uint, attendeeID string) (domain.Attendee, error)
	CheckInByName(ctx context.Context, eventID uint, freeText string) (domain.Attendee, error)
	CheckOut(ctx context.Context, eventID uint, attendeeID string) (domain.Attendee, error)
	RegisterAttendee(ctx context.Context, eventID uint, name, email string, class domain.TicketClass) (domain.Attendee, error)
	ListAttendees(ctx context.Context, eventID uint, filter string) ([]domain.Attendee, error)
	Snapshot(ctx context.Context, eventID uint) (domain.AttendanceSnapshot, error)
}

type CheckInHandler struct {
	svc CheckInService
}

func NewCheckInHandler(svc CheckInService) *CheckInHandler {
	return &CheckInHandler{
		svc: svc,
	}
}

func (h *CheckInHandler) renderServiceErr(ctx *gin.Context, eventID uint, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
	case errors.Is(err, service.ErrAttendeeNotFound):
		response.RenderErr(ctx, response.ErrNotFound("attendee", "event ID", eventID))
	case errors.Is(err, service.ErrInvalidToken):
		response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrInvalidToken))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleIssueToken godoc
// @Summary      Issue a check-in token
// @Description  Mints a fresh event-scoped token; re-issuing renews the displayed code.
// @Tags         check-ins
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      201  {object}  response.CheckInToken
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/token [post]
func (h *CheckInHandler) HandleIssueToken(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	token, payload, err := h.svc.IssueToken(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("HandleIssueToken -> h.svc.IssueToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.CheckInToken{
		EventID:   token.EventID,
		Payload:   payload,
		IssuedAt:  token.IssuedAt,
		ExpiresAt: token.ExpiresAt,
	})
}

// HandleTokenQR godoc
// @Summary      Render the check-in token as a QR code
// @Description  Issues a fresh token and renders its payload as a PNG QR code with high error correction.
// @Tags         check-ins
// @Produce      png
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {string}  binary  "PNG image"
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/token/qr [get]
func (h *CheckInHandler) HandleTokenQR(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	_, payload, err := h.svc.IssueToken(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("HandleTokenQR -> h.svc.IssueToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	png, err := qrcode.Encode(payload, qrcode.High, qrSize)
	if err != nil {
		err = fmt.Errorf("HandleTokenQR -> qrcode.Encode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}

// HandleTokenCheckIn godoc
// @Summary      Check in by scanned token
// @Description  Validates the scanned payload and checks in the given attendee. Duplicate scans are idempotent.
// @Tags         check-ins
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                          true  "Event ID"
// @Param        input    body      request.TokenCheckInRequest  true  "Scanned payload and attendee ID"
// @Success      200  {object}  domain.Attendee
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/check-ins/scan [post]
func (h *CheckInHandler) HandleTokenCheckIn(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.TokenCheckInRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	attendee, err := h.svc.CheckInByToken(ctx.Request.Context(), eventID, input.Payload, input.AttendeeID)
	if err != nil {
		h.renderServiceErr(ctx, eventID, fmt.Errorf("HandleTokenCheckIn -> h.svc.CheckInByToken -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, attendee)
}

// HandleManualCheckIn godoc
// @Summary      Check in by staff confirmation
// @Description  Checks in an attendee picked from the roster. Repeats are idempotent.
// @Tags         check-ins
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                           true  "Event ID"
// @Param        input    body      request.ManualCheckInRequest  true  "Attendee ID"
// @Success      200  {object}  domain.Attendee
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/check-ins/manual [post]
func (h *CheckInHandler) HandleManualCheckIn(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ManualCheckInRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	attendee, err := h.svc.CheckInManual(ctx.Request.Context(), eventID, input.AttendeeID)
	if err != nil {
		h.renderServiceErr(ctx, eventID, fmt.Errorf("HandleManualCheckIn -> h.svc.CheckInManual -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, attendee)
}

// HandleNameCheckIn godoc
// @Summary      Check in by free-text name
// @Description  Resolves the name against the roster; an unmatched name creates a walk-in already checked in.
// @Tags         check-ins
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                         true  "Event ID"
// @Param        input    body      request.NameCheckInRequest  true  "Free-text name"
// @Success      200  {object}  domain.Attendee
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/check-ins/name [post]
func (h *CheckInHandler) HandleNameCheckIn(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.NameCheckInRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	attendee, err := h.svc.CheckInByName(ctx.Request.Context(), eventID, input.Name)
	if err != nil {
		h.renderServiceErr(ctx, eventID, fmt.Errorf("HandleNameCheckIn -> h.svc.CheckInByName -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, attendee)
}

// HandleCheckOut godoc
// @Summary      Check out an attendee
// @Description  Reverses a check-in, clearing the timestamp. A no-op when not checked in.
// @Tags         check-ins
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                      true  "Event ID"
// @Param        input    body      request.CheckOutRequest  true  "Attendee ID"
// @Success      200  {object}  domain.Attendee
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/check-outs [post]
func (h *CheckInHandler) HandleCheckOut(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CheckOutRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	attendee, err := h.svc.CheckOut(ctx.Request.Context(), eventID, input.AttendeeID)
	if err != nil {
		h.renderServiceErr(ctx, eventID, fmt.Errorf("HandleCheckOut -> h.svc.CheckOut -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, attendee)
}

// HandleRegisterAttendee godoc
// @Summary      Register a roster attendee
// @Tags         attendees
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                              true  "Event ID"
// @Param        input    body      request.RegisterAttendeeRequest  true  "Attendee details"
// @Success      201  {object}  domain.Attendee
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/attendees [post]
func (h *CheckInHandler) HandleRegisterAttendee(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.RegisterAttendeeRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	attendee, err := h.svc.RegisterAttendee(ctx.Request.Context(), eventID,
		input.Name, input.Email, domain.TicketClass(input.TicketClass))
	if err != nil {
		h.renderServiceErr(ctx, eventID, fmt.Errorf("HandleRegisterAttendee -> h.svc.RegisterAttendee -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, attendee)
}

// HandleListAttendees godoc
// @Summary      List attendees
// @Description  Name-ordered roster with an optional name/email substring filter.
// @Tags         attendees
// @Produce      json
// @Param        eventID  path      int     true   "Event ID"
// @Param        filter   query     string  false  "Name/email substring"
// @Success      200  {array}   domain.Attendee
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/attendees [get]
func (h *CheckInHandler) HandleListAttendees(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	attendees, err := h.svc.ListAttendees(ctx.Request.Context(), eventID, ctx.Query("filter"))
	if err != nil {
		h.renderServiceErr(ctx, eventID, fmt.Errorf("HandleListAttendees -> h.svc.ListAttendees -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, attendees)
}

// HandleExportAttendees godoc
// @Summary      Export the roster as CSV
// @Description  Flat tabular export (name, ticket class, status, check-in time) for downstream reporting.
// @Tags         attendees
// @Produce      text/csv
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {string}  string  "CSV payload"
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/attendees/export [get]
func (h *CheckInHandler) HandleExportAttendees(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	attendees, err := h.svc.ListAttendees(ctx.Request.Context(), eventID, "")
	if err != nil {
		h.renderServiceErr(ctx, eventID, fmt.Errorf("HandleExportAttendees -> h.svc.ListAttendees -> %w", err))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="event-%d-attendees.csv"`, eventID))
	ctx.Header("Content-Type", "text/csv")
	ctx.Status(http.StatusOK)

	if err := checkin.WriteCSV(ctx.Writer, attendees); err != nil {
		err = fmt.Errorf("HandleExportAttendees -> checkin.WriteCSV -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
}

// HandleAttendanceSnapshot godoc
// @Summary      Live attendance counts
// @Description  Recomputed from the registry on every call; never cached.
// @Tags         check-ins
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.AttendanceSnapshot
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/attendance [get]
func (h *CheckInHandler) HandleAttendanceSnapshot(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	snapshot, err := h.svc.Snapshot(ctx.Request.Context(), eventID)
	if err != nil {
		h.renderServiceErr(ctx, eventID, fmt.Errorf("HandleAttendanceSnapshot -> h.svc.Snapshot -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}
