package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
	"github.com/careslot/careslot-api/internal/repository/mocks"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newBookingService(apts repository.AppointmentRepository, doctors repository.DoctorRepository, users repository.UserRepository) *BookingService {
	return NewBookingService(apts, doctors, users, testLogger())
}

func approvedDoctor(id primitive.ObjectID) *models.Doctor {
	return &models.Doctor{
		ID:         id,
		UserID:     primitive.NewObjectID(),
		Specialty:  "Cardiology",
		IsApproved: true,
		AvailableTimeSlots: []models.TimeSlot{
			{Start: "09:00", End: "09:30"},
			{Start: "10:00", End: "10:30"},
		},
	}
}

func TestCreateAppointment(t *testing.T) {
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("books a free slot as pending", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)
		patientID := primitive.NewObjectID()
		doctorID := primitive.NewObjectID()

		doctors.On("GetByID", mock.Anything, doctorID).Return(approvedDoctor(doctorID), nil)
		apts.On("FindActiveSlot", mock.Anything, doctorID, date, "10:00").Return(nil, repository.ErrNotFound)
		apts.On("Create", mock.Anything, mock.AnythingOfType("*models.Appointment")).Return(nil)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		apt, err := svc.Create(context.Background(), patientID, doctorID, date, "10:00")

		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, apt.Status)
		assert.Equal(t, patientID, apt.PatientID)
		assert.Equal(t, doctorID, apt.DoctorID)
		require.NotNil(t, apt.Slot)
		assert.Equal(t, models.TimeSlot{Start: "10:00", End: "10:30"}, *apt.Slot)
		apts.AssertExpectations(t)
	})

	t.Run("rejects a taken slot", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)
		doctorID := primitive.NewObjectID()

		doctors.On("GetByID", mock.Anything, doctorID).Return(approvedDoctor(doctorID), nil)
		apts.On("FindActiveSlot", mock.Anything, doctorID, date, "10:00").
			Return(&models.Appointment{Status: models.StatusPending}, nil)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		_, err := svc.Create(context.Background(), primitive.NewObjectID(), doctorID, date, "10:00")

		assert.ErrorIs(t, err, ErrSlotConflict)
		apts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unapproved doctor", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)
		doctorID := primitive.NewObjectID()

		unapproved := approvedDoctor(doctorID)
		unapproved.IsApproved = false
		doctors.On("GetByID", mock.Anything, doctorID).Return(unapproved, nil)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		_, err := svc.Create(context.Background(), primitive.NewObjectID(), doctorID, date, "10:00")

		assert.ErrorIs(t, err, ErrDoctorUnavailable)
	})

	t.Run("rejects an unknown doctor", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)
		doctorID := primitive.NewObjectID()

		doctors.On("GetByID", mock.Anything, doctorID).Return(nil, repository.ErrNotFound)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		_, err := svc.Create(context.Background(), primitive.NewObjectID(), doctorID, date, "10:00")

		assert.ErrorIs(t, err, ErrDoctorUnavailable)
	})
}

// memAppointmentRepo is an in-memory store without any locking of its
// own, so the test below would race without the service's per-doctor
// serialization.
type memAppointmentRepo struct {
	mocks.MockAppointmentRepository
	appointments []models.Appointment
}

func (m *memAppointmentRepo) FindActiveSlot(ctx context.Context, doctorID primitive.ObjectID, date time.Time, timeOfDay string) (*models.Appointment, error) {
	for i := range m.appointments {
		a := m.appointments[i]
		if a.DoctorID == doctorID && a.Time == timeOfDay && a.Date.Equal(date) {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAppointmentRepo) Create(ctx context.Context, apt *models.Appointment) error {
	apt.ID = primitive.NewObjectID()
	m.appointments = append(m.appointments, *apt)
	return nil
}

func TestCreateAppointmentSerializesPerDoctor(t *testing.T) {
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	doctorID := primitive.NewObjectID()

	doctors := new(mocks.MockDoctorRepository)
	doctors.On("GetByID", mock.Anything, doctorID).Return(approvedDoctor(doctorID), nil)

	store := &memAppointmentRepo{}
	svc := newBookingService(store, doctors, new(mocks.MockUserRepository))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), primitive.NewObjectID(), doctorID, date, "10:00")
		}(i)
	}
	wg.Wait()

	booked := 0
	for _, err := range errs {
		if err == nil {
			booked++
		} else {
			assert.ErrorIs(t, err, ErrSlotConflict)
		}
	}
	assert.Equal(t, 1, booked, "exactly one concurrent booking may win the slot")
	assert.Len(t, store.appointments, 1)
}

func TestListForRequester(t *testing.T) {
	patientID := primitive.NewObjectID()
	doctorUserID := primitive.NewObjectID()
	doctorID := primitive.NewObjectID()

	doctor := models.Doctor{ID: doctorID, UserID: doctorUserID, Specialty: "Dermatology", IsApproved: true}
	patient := models.User{ID: patientID, Name: "Pat", Email: "pat@example.com", Role: models.RolePatient}
	doctorUser := models.User{ID: doctorUserID, Name: "Dr. A", Email: "dra@example.com", Role: models.RoleDoctor}

	apt := models.Appointment{
		ID:        primitive.NewObjectID(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Time:      "10:00",
		Status:    models.StatusPending,
	}

	t.Run("patient sees own bookings with doctor attached", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)
		users := new(mocks.MockUserRepository)

		apts.On("ListByPatient", mock.Anything, patientID).Return([]models.Appointment{apt}, nil)
		doctors.On("GetByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]models.Doctor{doctorID: doctor}, nil)
		users.On("GetByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]models.User{
			patientID:    patient,
			doctorUserID: doctorUser,
		}, nil)

		svc := newBookingService(apts, doctors, users)
		details, err := svc.ListForRequester(context.Background(), patientID, models.RolePatient)

		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, apt.ID, details[0].ID)
		assert.Equal(t, "Dr. A", details[0].Doctor.User.Name)
		assert.Equal(t, "Pat", details[0].Patient.Name)
		apts.AssertNotCalled(t, "ListByDoctor", mock.Anything, mock.Anything)
	})

	t.Run("doctor sees bookings against own profile", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)
		users := new(mocks.MockUserRepository)

		doctors.On("GetByUserID", mock.Anything, doctorUserID).Return(&doctor, nil)
		apts.On("ListByDoctor", mock.Anything, doctorID).Return([]models.Appointment{apt}, nil)
		doctors.On("GetByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]models.Doctor{doctorID: doctor}, nil)
		users.On("GetByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]models.User{
			patientID:    patient,
			doctorUserID: doctorUser,
		}, nil)

		svc := newBookingService(apts, doctors, users)
		details, err := svc.ListForRequester(context.Background(), doctorUserID, models.RoleDoctor)

		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "Pat", details[0].Patient.Name)
		apts.AssertNotCalled(t, "ListByPatient", mock.Anything, mock.Anything)
	})

	t.Run("doctor without profile fails", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)

		doctors.On("GetByUserID", mock.Anything, doctorUserID).Return(nil, repository.ErrNotFound)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		_, err := svc.ListForRequester(context.Background(), doctorUserID, models.RoleDoctor)

		assert.ErrorIs(t, err, ErrDoctorProfileNotFound)
	})
}

func TestUpdateAppointment(t *testing.T) {
	patientID := primitive.NewObjectID()
	doctorUserID := primitive.NewObjectID()
	doctorID := primitive.NewObjectID()
	aptID := primitive.NewObjectID()

	existing := &models.Appointment{ID: aptID, PatientID: patientID, DoctorID: doctorID, Status: models.StatusPending}

	t.Run("doctor of record sets prescription", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)

		apts.On("GetByID", mock.Anything, aptID).Return(existing, nil)
		doctors.On("GetByUserID", mock.Anything, doctorUserID).Return(&models.Doctor{ID: doctorID, UserID: doctorUserID}, nil)
		apts.On("Update", mock.Anything, aptID, bson.M{"prescription": "rest and fluids"}).
			Return(&models.Appointment{ID: aptID, Prescription: "rest and fluids"}, nil)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		updated, err := svc.Update(context.Background(), doctorUserID, models.RoleDoctor, aptID, AppointmentUpdate{Prescription: "rest and fluids"})

		require.NoError(t, err)
		assert.Equal(t, "rest and fluids", updated.Prescription)
	})

	t.Run("patient cannot set prescription", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)

		apts.On("GetByID", mock.Anything, aptID).Return(existing, nil)

		svc := newBookingService(apts, new(mocks.MockDoctorRepository), new(mocks.MockUserRepository))
		_, err := svc.Update(context.Background(), patientID, models.RolePatient, aptID, AppointmentUpdate{Prescription: "self-medicating"})

		assert.ErrorIs(t, err, ErrNoFields)
		apts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("patient of record sets notes", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)

		apts.On("GetByID", mock.Anything, aptID).Return(existing, nil)
		apts.On("Update", mock.Anything, aptID, bson.M{"notes": "running late"}).
			Return(&models.Appointment{ID: aptID, Notes: "running late"}, nil)

		svc := newBookingService(apts, new(mocks.MockDoctorRepository), new(mocks.MockUserRepository))
		updated, err := svc.Update(context.Background(), patientID, models.RolePatient, aptID, AppointmentUpdate{Notes: "running late"})

		require.NoError(t, err)
		assert.Equal(t, "running late", updated.Notes)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)

		apts.On("GetByID", mock.Anything, aptID).Return(existing, nil)

		svc := newBookingService(apts, new(mocks.MockDoctorRepository), new(mocks.MockUserRepository))
		_, err := svc.Update(context.Background(), primitive.NewObjectID(), models.RolePatient, aptID, AppointmentUpdate{Notes: "hi"})

		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("doctor not of record is rejected", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)
		otherDoctorUser := primitive.NewObjectID()

		apts.On("GetByID", mock.Anything, aptID).Return(existing, nil)
		doctors.On("GetByUserID", mock.Anything, otherDoctorUser).
			Return(&models.Doctor{ID: primitive.NewObjectID(), UserID: otherDoctorUser}, nil)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		_, err := svc.Update(context.Background(), otherDoctorUser, models.RoleDoctor, aptID, AppointmentUpdate{Notes: "hi"})

		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("missing appointment", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)

		apts.On("GetByID", mock.Anything, aptID).Return(nil, repository.ErrNotFound)

		svc := newBookingService(apts, new(mocks.MockDoctorRepository), new(mocks.MockUserRepository))
		_, err := svc.Update(context.Background(), patientID, models.RolePatient, aptID, AppointmentUpdate{Notes: "hi"})

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestAvailableSlots(t *testing.T) {
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	doctorID := primitive.NewObjectID()

	t.Run("excludes exactly matching booked windows", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)

		doctors.On("GetByID", mock.Anything, doctorID).Return(approvedDoctor(doctorID), nil)
		apts.On("ListActiveByDoctorDate", mock.Anything, doctorID, date).Return([]models.Appointment{
			{
				DoctorID: doctorID,
				Time:     "10:00",
				Status:   models.StatusConfirmed,
				Slot:     &models.TimeSlot{Start: "10:00", End: "10:30"},
			},
		}, nil)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		slots, err := svc.AvailableSlots(context.Background(), doctorID, date)

		require.NoError(t, err)
		assert.Equal(t, []models.TimeSlot{{Start: "09:00", End: "09:30"}}, slots)
	})

	t.Run("keeps overlapping but non-identical windows", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		doctors := new(mocks.MockDoctorRepository)

		doctors.On("GetByID", mock.Anything, doctorID).Return(approvedDoctor(doctorID), nil)
		apts.On("ListActiveByDoctorDate", mock.Anything, doctorID, date).Return([]models.Appointment{
			{DoctorID: doctorID, Time: "10:15", Slot: &models.TimeSlot{Start: "10:15", End: "10:45"}},
		}, nil)

		svc := newBookingService(apts, doctors, new(mocks.MockUserRepository))
		slots, err := svc.AvailableSlots(context.Background(), doctorID, date)

		require.NoError(t, err)
		assert.Len(t, slots, 2)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		doctors.On("GetByID", mock.Anything, doctorID).Return(nil, repository.ErrNotFound)

		svc := newBookingService(new(mocks.MockAppointmentRepository), doctors, new(mocks.MockUserRepository))
		_, err := svc.AvailableSlots(context.Background(), doctorID, date)

		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})
}
