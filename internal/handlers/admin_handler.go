package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
)

// AdminListDoctors returns every doctor, including unapproved profiles.
func (h *Handler) AdminListDoctors(c *gin.Context) {
	doctors, err := h.Admin.ListDoctors(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// AdminListUsers returns every account.
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminListAppointments returns every booking with both parties attached.
func (h *Handler) AdminListAppointments(c *gin.Context) {
	apts, err := h.Admin.ListAppointments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apts)
}

type approveDoctorRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// AdminApproveDoctor sets a doctor's approval flag either way.
func (h *Handler) AdminApproveDoctor(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Doctor not found"})
		return
	}

	var req approveDoctorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doctor, err := h.Admin.SetDoctorApproval(c.Request.Context(), id, *req.Approve)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// AdminApproveAppointment forces a booking to approved.
func (h *Handler) AdminApproveAppointment(c *gin.Context) {
	h.setAppointmentStatus(c, models.StatusApproved, "Appointment approved")
}

// AdminRejectAppointment forces a booking to rejected.
func (h *Handler) AdminRejectAppointment(c *gin.Context) {
	h.setAppointmentStatus(c, models.StatusRejected, "Appointment rejected")
}

func (h *Handler) setAppointmentStatus(c *gin.Context, status models.AppointmentStatus, msg string) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Appointment not found"})
		return
	}

	apt, err := h.Admin.SetAppointmentStatus(c.Request.Context(), id, status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg, "appointment": apt})
}

// AdminStats returns the dashboard counters.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Admin.GetStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
