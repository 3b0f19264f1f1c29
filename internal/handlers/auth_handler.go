package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careslot/careslot-api/internal/middleware"
	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/services"
)

type registerRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=patient doctor admin"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`

	// Doctor profile fields, read when role is doctor.
	Specialty       string   `json:"specialty"`
	Experience      int      `json:"experience"`
	Qualifications  []string `json:"qualifications"`
	Bio             string   `json:"bio"`
	ConsultationFee float64  `json:"consultationFee"`
}

// Register creates an account and returns a session token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token, user, err := h.Directory.Register(c.Request.Context(), services.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Role:            req.Role,
		Phone:           req.Phone,
		Address:         req.Address,
		Specialty:       req.Specialty,
		Experience:      req.Experience,
		Qualifications:  req.Qualifications,
		Bio:             req.Bio,
		ConsultationFee: req.ConsultationFee,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token, user, err := h.Directory.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until its natural expiry.
func (h *Handler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.CtxTokenID)

	ttl := time.Duration(0)
	if v, ok := c.Get(middleware.CtxTokenExp); ok {
		if exp, ok := v.(time.Time); ok {
			ttl = time.Until(exp)
		}
	}

	if err := h.Revocations.Revoke(c.Request.Context(), jti, ttl); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Logged out"})
}

// Me returns the caller's account, with the doctor profile attached for
// doctors.
func (h *Handler) Me(c *gin.Context) {
	user, doctor, err := h.Directory.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if doctor != nil {
		c.JSON(http.StatusOK, gin.H{"user": user, "doctor": doctor})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateMe applies a partial update to the caller's own account.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.Directory.UpdateUser(c.Request.Context(), middleware.UserID(c), services.UserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type updateDoctorRequest struct {
	Specialty          string            `json:"specialty"`
	Experience         int               `json:"experience"`
	Qualifications     []string          `json:"qualifications"`
	Bio                string            `json:"bio"`
	ConsultationFee    float64           `json:"consultationFee"`
	AvailableTimeSlots []models.TimeSlot `json:"availableTimeSlots"`
}

func (r updateDoctorRequest) toUpdate() services.DoctorUpdate {
	return services.DoctorUpdate{
		Specialty:          r.Specialty,
		Experience:         r.Experience,
		Qualifications:     r.Qualifications,
		Bio:                r.Bio,
		ConsultationFee:    r.ConsultationFee,
		AvailableTimeSlots: r.AvailableTimeSlots,
	}
}

// UpdateDoctorMe applies a partial update to the caller's own doctor
// profile.
func (h *Handler) UpdateDoctorMe(c *gin.Context) {
	var req updateDoctorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doctor, err := h.Directory.UpdateDoctorProfile(c.Request.Context(), middleware.UserID(c), req.toUpdate())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctor)
}
