package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
)

// slotLocks serializes bookings per doctor. Holding the doctor's lock
// across the conflict check and the insert closes the check-then-act
// window between two concurrent bookings for the same slot.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (s *slotLocks) forDoctor(id primitive.ObjectID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.Hex()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// BookingService is the appointment engine: slot-exclusive creation,
// ownership-scoped listing and updates, and free-slot computation.
type BookingService struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	users        repository.UserRepository
	locks        *slotLocks
	log          *logrus.Logger
}

func NewBookingService(appointments repository.AppointmentRepository, doctors repository.DoctorRepository, users repository.UserRepository, log *logrus.Logger) *BookingService {
	return &BookingService{
		appointments: appointments,
		doctors:      doctors,
		users:        users,
		locks:        &slotLocks{locks: make(map[string]*sync.Mutex)},
		log:          log,
	}
}

// Create books a slot for a patient. The doctor must exist and be
// approved, and no active booking may already hold the same
// doctor/day/time triple.
func (s *BookingService) Create(ctx context.Context, patientID, doctorID primitive.ObjectID, date time.Time, timeOfDay string) (*models.Appointment, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorUnavailable
		}
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}
	if !doctor.IsApproved {
		return nil, ErrDoctorUnavailable
	}

	lock := s.locks.forDoctor(doctorID)
	lock.Lock()
	defer lock.Unlock()

	_, err = s.appointments.FindActiveSlot(ctx, doctorID, date, timeOfDay)
	if err == nil {
		return nil, ErrSlotConflict
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}

	apt := &models.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      timeOfDay,
		Status:    models.StatusPending,
	}
	// Pin the published window this booking occupies so the free-slot
	// computation can match it by exact (start, end) pair later.
	for _, slot := range doctor.AvailableTimeSlots {
		if slot.Start == timeOfDay {
			s := slot
			apt.Slot = &s
			break
		}
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"appointment": apt.ID.Hex(),
		"doctor":      doctorID.Hex(),
		"date":        date.Format("2006-01-02"),
		"time":        timeOfDay,
	}).Info("appointment booked")

	return apt, nil
}

// ListForRequester returns the requester's bookings: a doctor sees the
// appointments against their own profile, everyone else sees the ones
// they booked as a patient. Date ascending either way.
func (s *BookingService) ListForRequester(ctx context.Context, userID primitive.ObjectID, role models.Role) ([]models.AppointmentDetail, error) {
	var apts []models.Appointment

	if role == models.RoleDoctor {
		doctor, err := s.doctors.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrDoctorProfileNotFound
			}
			return nil, fmt.Errorf("failed to load doctor profile: %w", err)
		}
		apts, err = s.appointments.ListByDoctor(ctx, doctor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list appointments: %w", err)
		}
	} else {
		var err error
		apts, err = s.appointments.ListByPatient(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list appointments: %w", err)
		}
	}

	return populateAppointments(ctx, s.users, s.doctors, apts)
}

// AppointmentUpdate carries the fields the owning parties may change.
// Status is deliberately absent: transitions go through the admin path.
type AppointmentUpdate struct {
	Prescription string
	Notes        string
}

// Update applies clinical fields to a booking. Only the doctor-of-record
// or the patient-of-record may touch it, and prescription changes are
// doctor-only (silently skipped for patients, as the source did).
func (s *BookingService) Update(ctx context.Context, requesterID primitive.ObjectID, role models.Role, id primitive.ObjectID, in AppointmentUpdate) (*models.Appointment, error) {
	apt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	isDoctor := false
	if role == models.RoleDoctor {
		doctor, err := s.doctors.GetByUserID(ctx, requesterID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load doctor profile: %w", err)
		}
		if doctor == nil || doctor.ID != apt.DoctorID {
			return nil, ErrNotAuthorized
		}
		isDoctor = true
	} else if apt.PatientID != requesterID {
		return nil, ErrNotAuthorized
	}

	fields := bson.M{}
	if in.Prescription != "" && isDoctor {
		fields["prescription"] = in.Prescription
	}
	if in.Notes != "" {
		fields["notes"] = in.Notes
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	updated, err := s.appointments.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return updated, nil
}

// AvailableSlots returns the doctor's published windows for a day minus
// those already held by an active booking. A booked window only blocks
// the published slot whose (start, end) pair matches it exactly;
// overlapping but non-identical windows are not detected.
func (s *BookingService) AvailableSlots(ctx context.Context, doctorID primitive.ObjectID, date time.Time) ([]models.TimeSlot, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}

	booked, err := s.appointments.ListActiveByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	taken := make(map[models.TimeSlot]bool, len(booked))
	for _, apt := range booked {
		if apt.Slot != nil {
			taken[*apt.Slot] = true
		}
	}

	available := make([]models.TimeSlot, 0, len(doctor.AvailableTimeSlots))
	for _, slot := range doctor.AvailableTimeSlots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}
