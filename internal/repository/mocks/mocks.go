// Package mocks provides testify mocks for the repository interfaces,
// shared by the service and handler test suites.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
)

var (
	_ repository.UserRepository        = (*MockUserRepository)(nil)
	_ repository.DoctorRepository      = (*MockDoctorRepository)(nil)
	_ repository.AppointmentRepository = (*MockAppointmentRepository)(nil)
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	args := m.Called(ctx, ids)
	if u := args.Get(0); u != nil {
		return u.(map[primitive.ObjectID]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDoctorRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	args := m.Called(ctx, userID)
	if d := args.Get(0); d != nil {
		return d.(*models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDoctorRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Doctor, error) {
	args := m.Called(ctx, ids)
	if d := args.Get(0); d != nil {
		return d.(map[primitive.ObjectID]models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDoctorRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Doctor, error) {
	args := m.Called(ctx, id, fields)
	if d := args.Get(0); d != nil {
		return d.(*models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDoctorRepository) ListApproved(ctx context.Context, filter repository.DoctorFilter) ([]models.Doctor, error) {
	args := m.Called(ctx, filter)
	if d := args.Get(0); d != nil {
		return d.([]models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.([]models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDoctorRepository) CountByApproval(ctx context.Context, approved bool) (int64, error) {
	args := m.Called(ctx, approved)
	return args.Get(0).(int64), args.Error(1)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, apt *models.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) FindActiveSlot(ctx context.Context, doctorID primitive.ObjectID, date time.Time, timeOfDay string) (*models.Appointment, error) {
	args := m.Called(ctx, doctorID, date, timeOfDay)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) ListActiveByDoctorDate(ctx context.Context, doctorID primitive.ObjectID, date time.Time) ([]models.Appointment, error) {
	args := m.Called(ctx, doctorID, date)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Appointment, error) {
	args := m.Called(ctx, patientID)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error) {
	args := m.Called(ctx, doctorID)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Appointment, error) {
	args := m.Called(ctx, id, fields)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}
