package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/careslot/careslot-api/internal/auth"
	"github.com/careslot/careslot-api/internal/services"
)

// Handler bundles the services the routes are built from.
type Handler struct {
	Directory   *services.DirectoryService
	Booking     *services.BookingService
	Admin       *services.AdminService
	Revocations *auth.RevocationList
	Log         *logrus.Logger
	// PingStore checks the document store, used by the health endpoint.
	PingStore func(ctx context.Context) error
}

func NewHandler(directory *services.DirectoryService, booking *services.BookingService, admin *services.AdminService, revocations *auth.RevocationList, log *logrus.Logger, ping func(ctx context.Context) error) *Handler {
	return &Handler{
		Directory:   directory,
		Booking:     booking,
		Admin:       admin,
		Revocations: revocations,
		Log:         log,
		PingStore:   ping,
	}
}

// bindJSON binds the request body and writes the field-validation error
// response on failure.
func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": err.Error()}}})
		return false
	}
	return true
}

// respondError maps domain errors onto HTTP statuses and the msg body.
// Anything unrecognized is a store failure: logged, degraded to 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"msg": "User already exists"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid Credentials"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
	case errors.Is(err, services.ErrDoctorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Doctor not found"})
	case errors.Is(err, services.ErrDoctorUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Doctor not found or not approved"})
	case errors.Is(err, services.ErrDoctorProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Doctor profile not found"})
	case errors.Is(err, services.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Appointment not found"})
	case errors.Is(err, services.ErrSlotConflict):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "This time slot is already booked"})
	case errors.Is(err, services.ErrNotAuthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized"})
	case errors.Is(err, services.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "No update fields provided"})
	default:
		h.Log.WithError(err).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
	}
}

// parseDate accepts a plain calendar date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Health reports liveness, including store reachability.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.PingStore(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "msg": "store unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
