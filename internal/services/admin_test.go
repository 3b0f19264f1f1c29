package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
	"github.com/careslot/careslot-api/internal/repository/mocks"
)

func newAdminService(users repository.UserRepository, doctors repository.DoctorRepository, apts repository.AppointmentRepository) *AdminService {
	return NewAdminService(users, doctors, apts, testLogger())
}

func TestSetDoctorApproval(t *testing.T) {
	doctorID := primitive.NewObjectID()

	t.Run("is idempotent", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		doctors.On("Update", mock.Anything, doctorID, bson.M{"isApproved": true}).
			Return(&models.Doctor{ID: doctorID, IsApproved: true}, nil).Twice()

		svc := newAdminService(new(mocks.MockUserRepository), doctors, new(mocks.MockAppointmentRepository))

		for i := 0; i < 2; i++ {
			doctor, err := svc.SetDoctorApproval(context.Background(), doctorID, true)
			require.NoError(t, err)
			assert.True(t, doctor.IsApproved)
		}
		doctors.AssertExpectations(t)
	})

	t.Run("can revoke approval", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		doctors.On("Update", mock.Anything, doctorID, bson.M{"isApproved": false}).
			Return(&models.Doctor{ID: doctorID, IsApproved: false}, nil)

		svc := newAdminService(new(mocks.MockUserRepository), doctors, new(mocks.MockAppointmentRepository))
		doctor, err := svc.SetDoctorApproval(context.Background(), doctorID, false)

		require.NoError(t, err)
		assert.False(t, doctor.IsApproved)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		doctors := new(mocks.MockDoctorRepository)
		doctors.On("Update", mock.Anything, doctorID, mock.Anything).Return(nil, repository.ErrNotFound)

		svc := newAdminService(new(mocks.MockUserRepository), doctors, new(mocks.MockAppointmentRepository))
		_, err := svc.SetDoctorApproval(context.Background(), doctorID, true)

		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})
}

func TestSetAppointmentStatus(t *testing.T) {
	aptID := primitive.NewObjectID()

	t.Run("overwrites any current status", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		apts.On("Update", mock.Anything, aptID, bson.M{"status": models.StatusApproved}).
			Return(&models.Appointment{ID: aptID, Status: models.StatusApproved}, nil)
		apts.On("Update", mock.Anything, aptID, bson.M{"status": models.StatusRejected}).
			Return(&models.Appointment{ID: aptID, Status: models.StatusRejected}, nil)

		svc := newAdminService(new(mocks.MockUserRepository), new(mocks.MockDoctorRepository), apts)

		approved, err := svc.SetAppointmentStatus(context.Background(), aptID, models.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, approved.Status)

		// No transition guard: an already-approved booking can be rejected.
		rejected, err := svc.SetAppointmentStatus(context.Background(), aptID, models.StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, rejected.Status)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		apts := new(mocks.MockAppointmentRepository)
		apts.On("Update", mock.Anything, aptID, mock.Anything).Return(nil, repository.ErrNotFound)

		svc := newAdminService(new(mocks.MockUserRepository), new(mocks.MockDoctorRepository), apts)
		_, err := svc.SetAppointmentStatus(context.Background(), aptID, models.StatusApproved)

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestGetStats(t *testing.T) {
	users := new(mocks.MockUserRepository)
	doctors := new(mocks.MockDoctorRepository)
	apts := new(mocks.MockAppointmentRepository)

	users.On("CountByRole", mock.Anything, models.RolePatient).Return(int64(42), nil)
	doctors.On("CountByApproval", mock.Anything, true).Return(int64(7), nil)
	doctors.On("CountByApproval", mock.Anything, false).Return(int64(3), nil)
	apts.On("Count", mock.Anything).Return(int64(19), nil)
	apts.On("CountByStatus", mock.Anything, models.StatusPending).Return(int64(5), nil)
	apts.On("CountByStatus", mock.Anything, models.StatusConfirmed).Return(int64(0), nil)
	apts.On("CountByStatus", mock.Anything, models.StatusCompleted).Return(int64(0), nil)

	svc := newAdminService(users, doctors, apts)
	stats, err := svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &Stats{
		TotalUsers:          42,
		TotalDoctors:        7,
		PendingDoctors:      3,
		TotalAppointments:   19,
		PendingAppointments: 5,
	}, stats)
}

func TestListUsersStripsPasswords(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("List", mock.Anything).Return([]models.User{
		{Name: "Pat", Password: "hash-a"},
		{Name: "Dr. A", Password: "hash-b"},
	}, nil)

	svc := newAdminService(users, new(mocks.MockDoctorRepository), new(mocks.MockAppointmentRepository))
	list, err := svc.ListUsers(context.Background())

	require.NoError(t, err)
	for _, u := range list {
		assert.Empty(t, u.Password)
	}
}
