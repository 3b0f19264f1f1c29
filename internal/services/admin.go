package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
)

// AdminService is the elevated surface: unrestricted reads, doctor
// approval, appointment status transitions, and aggregate counters.
type AdminService struct {
	users        repository.UserRepository
	doctors      repository.DoctorRepository
	appointments repository.AppointmentRepository
	log          *logrus.Logger
}

func NewAdminService(users repository.UserRepository, doctors repository.DoctorRepository, appointments repository.AppointmentRepository, log *logrus.Logger) *AdminService {
	return &AdminService{users: users, doctors: doctors, appointments: appointments, log: log}
}

// ListDoctors returns every doctor profile, approved or not.
func (s *AdminService) ListDoctors(ctx context.Context) ([]models.DoctorDetail, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return populateDoctors(ctx, s.users, doctors)
}

// ListUsers returns every account. Passwords are not serialized.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// ListAppointments returns every booking with both parties attached,
// date ascending.
func (s *AdminService) ListAppointments(ctx context.Context) ([]models.AppointmentDetail, error) {
	apts, err := s.appointments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return populateAppointments(ctx, s.users, s.doctors, apts)
}

// SetDoctorApproval writes the approval flag directly. Idempotent and
// unrestricted: the flag can be flipped in either direction at any time.
func (s *AdminService) SetDoctorApproval(ctx context.Context, id primitive.ObjectID, approve bool) (*models.Doctor, error) {
	doctor, err := s.doctors.Update(ctx, id, bson.M{"isApproved": approve})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	s.log.WithFields(logrus.Fields{"doctor": id.Hex(), "approved": approve}).Info("doctor approval updated")
	return doctor, nil
}

// SetAppointmentStatus overwrites a booking's status unconditionally.
// There is no transition guard: an approved booking can still be
// rejected afterwards.
func (s *AdminService) SetAppointmentStatus(ctx context.Context, id primitive.ObjectID, status models.AppointmentStatus) (*models.Appointment, error) {
	apt, err := s.appointments.Update(ctx, id, bson.M{"status": status})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.log.WithFields(logrus.Fields{"appointment": id.Hex(), "status": status}).Info("appointment status updated")
	return apt, nil
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalUsers            int64 `json:"totalUsers"`
	TotalDoctors          int64 `json:"totalDoctors"`
	PendingDoctors        int64 `json:"pendingDoctors"`
	TotalAppointments     int64 `json:"totalAppointments"`
	PendingAppointments   int64 `json:"pendingAppointments"`
	ConfirmedAppointments int64 `json:"confirmedAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
}

// GetStats counts the dashboard figures. The confirmed/completed
// counters stay zero unless data is written out-of-band, since no
// transition in the API produces those statuses.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var err error

	if stats.TotalUsers, err = s.users.CountByRole(ctx, models.RolePatient); err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	if stats.TotalDoctors, err = s.doctors.CountByApproval(ctx, true); err != nil {
		return nil, fmt.Errorf("failed to count approved doctors: %w", err)
	}
	if stats.PendingDoctors, err = s.doctors.CountByApproval(ctx, false); err != nil {
		return nil, fmt.Errorf("failed to count pending doctors: %w", err)
	}
	if stats.TotalAppointments, err = s.appointments.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	if stats.PendingAppointments, err = s.appointments.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending appointments: %w", err)
	}
	if stats.ConfirmedAppointments, err = s.appointments.CountByStatus(ctx, models.StatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to count confirmed appointments: %w", err)
	}
	if stats.CompletedAppointments, err = s.appointments.CountByStatus(ctx, models.StatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to count completed appointments: %w", err)
	}

	return stats, nil
}
