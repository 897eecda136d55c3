package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/stubapi/models"
	"github.com/imaxretail/storefront/pkg/logging"
)

// SupportHTTP serves repair appointments and support tickets.
type SupportHTTP struct {
	DB *gorm.DB
}

func (h *SupportHTTP) BookAppointment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "appointment_book")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var req struct {
		Service     string    `json:"service"`
		DeviceInfo  string    `json:"deviceInfo"`
		Notes       string    `json:"notes"`
		ScheduledAt time.Time `json:"scheduledAt"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("appointment_book_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Service == "" {
		return fail(c, http.StatusBadRequest, "service is required")
	}
	if req.ScheduledAt.Before(time.Now()) {
		return fail(c, http.StatusBadRequest, "scheduled time must be in the future")
	}

	// One booking per bench per hour slot.
	slotStart := req.ScheduledAt.UTC().Truncate(time.Hour)
	slotEnd := slotStart.Add(time.Hour)
	var conflicts int64
	err = h.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("scheduled_at >= ? AND scheduled_at < ? AND status = ?", slotStart, slotEnd, "scheduled").
		Count(&conflicts).Error
	if err != nil {
		l.Error("appointment_book_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if conflicts > 0 {
		return fail(c, http.StatusConflict, "time slot unavailable")
	}

	appt := models.Appointment{
		UserID:      userID,
		Service:     req.Service,
		DeviceInfo:  req.DeviceInfo,
		Notes:       req.Notes,
		Status:      "scheduled",
		ScheduledAt: req.ScheduledAt.UTC(),
	}
	if err := h.DB.WithContext(ctx).Create(&appt).Error; err != nil {
		l.Error("appointment_book_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("appointment_booked", "appointment_id", appt.ID, "slot", slotStart)
	return ok(c, http.StatusCreated, echo.Map{"appointment": toAppointmentView(&appt)})
}

func (h *SupportHTTP) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var appts []models.Appointment
	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).Order("scheduled_at").Find(&appts).Error; err != nil {
		logging.FromContext(ctx).Error("appointment_list_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	views := make([]appointmentView, 0, len(appts))
	for i := range appts {
		views = append(views, toAppointmentView(&appts[i]))
	}
	return ok(c, http.StatusOK, echo.Map{"appointments": views})
}

func (h *SupportHTTP) OpenTicket(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ticket_open")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var req struct {
		Subject     string `json:"subject"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("ticket_open_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Subject == "" {
		return fail(c, http.StatusBadRequest, "subject is required")
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}

	ticket := models.Ticket{
		UserID:      userID,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      "open",
	}
	if err := h.DB.WithContext(ctx).Create(&ticket).Error; err != nil {
		l.Error("ticket_open_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("ticket_opened", "ticket_id", ticket.ID)
	return ok(c, http.StatusCreated, echo.Map{"ticket": toTicketView(&ticket)})
}

func (h *SupportHTTP) ListTickets(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var tickets []models.Ticket
	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets).Error; err != nil {
		logging.FromContext(ctx).Error("ticket_list_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	views := make([]ticketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, toTicketView(&tickets[i]))
	}
	return ok(c, http.StatusOK, echo.Map{"tickets": views})
}
