package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/middleware"
	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
	"github.com/careslot/careslot-api/internal/services"
)

// ListDoctors returns the public directory of approved doctors.
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Directory.ListApprovedDoctors(c.Request.Context(), repository.DoctorFilter{})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// FilterDoctors narrows the public directory by specialty and fee range.
func (h *Handler) FilterDoctors(c *gin.Context) {
	filter := repository.DoctorFilter{Specialty: c.Query("specialty")}

	if v := c.Query("minFee"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid minFee"})
			return
		}
		filter.MinFee = &fee
	}
	if v := c.Query("maxFee"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid maxFee"})
			return
		}
		filter.MaxFee = &fee
	}

	doctors, err := h.Directory.ListApprovedDoctors(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// GetDoctor returns one doctor with account details.
func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Doctor not found"})
		return
	}

	doctor, err := h.Directory.GetDoctor(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

type upsertDoctorRequest struct {
	Specialty          string            `json:"specialty" binding:"required"`
	Experience         int               `json:"experience" binding:"required"`
	Qualifications     []string          `json:"qualifications" binding:"required"`
	Bio                string            `json:"bio" binding:"required"`
	ConsultationFee    float64           `json:"consultationFee" binding:"required"`
	AvailableTimeSlots []models.TimeSlot `json:"availableTimeSlots"`
}

// UpsertDoctorProfile creates or updates the caller's doctor profile.
// Unlike the self-service partial update, all profile fields are
// required here.
func (h *Handler) UpsertDoctorProfile(c *gin.Context) {
	var req upsertDoctorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doctor, err := h.Directory.UpsertDoctorProfile(c.Request.Context(), middleware.UserID(c), services.DoctorUpdate{
		Specialty:          req.Specialty,
		Experience:         req.Experience,
		Qualifications:     req.Qualifications,
		Bio:                req.Bio,
		ConsultationFee:    req.ConsultationFee,
		AvailableTimeSlots: req.AvailableTimeSlots,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}
