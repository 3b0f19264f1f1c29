package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/middleware"
	"github.com/careslot/careslot-api/internal/services"
)

type createAppointmentRequest struct {
	Doctor string `json:"doctor" binding:"required"`
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
}

// CreateAppointment books a slot for the calling patient.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doctorID, err := primitive.ObjectIDFromHex(req.Doctor)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Doctor not found or not approved"})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid date, use YYYY-MM-DD"}}})
		return
	}

	apt, err := h.Booking.Create(c.Request.Context(), middleware.UserID(c), doctorID, date, req.Time)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, apt)
}

// ListAppointments returns the caller's own bookings: a doctor sees
// appointments against their profile, a patient the ones they booked.
func (h *Handler) ListAppointments(c *gin.Context) {
	apts, err := h.Booking.ListForRequester(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apts)
}

type updateAppointmentRequest struct {
	Prescription string `json:"prescription"`
	Notes        string `json:"notes"`
}

// UpdateAppointment lets the owning patient or doctor amend clinical
// fields. Status changes are not accepted here; the admin transition
// endpoints own those.
func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Appointment not found"})
		return
	}

	var req updateAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	apt, err := h.Booking.Update(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id, services.AppointmentUpdate{
		Prescription: req.Prescription,
		Notes:        req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, apt)
}

// AvailableSlots returns a doctor's free windows for one day.
func (h *Handler) AvailableSlots(c *gin.Context) {
	doctorID, err := primitive.ObjectIDFromHex(c.Param("doctorId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Doctor not found"})
		return
	}

	date, err := parseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid date, use YYYY-MM-DD"}}})
		return
	}

	slots, err := h.Booking.AvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
