package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careslot/careslot-api/internal/models"
)

var (
	// ErrNotFound is returned when a queried document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate document")
)

// UserRepository persists account records.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// DoctorFilter narrows public doctor listings.
type DoctorFilter struct {
	Specialty string
	MinFee    *float64
	MaxFee    *float64
}

// DoctorRepository persists doctor profiles.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Doctor, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Doctor, error)
	ListApproved(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)
	CountByApproval(ctx context.Context, approved bool) (int64, error)
}

// AppointmentRepository persists bookings.
type AppointmentRepository interface {
	Create(ctx context.Context, apt *models.Appointment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	// FindActiveSlot looks for a booking holding the same doctor/day/time
	// slot with an active status. Returns ErrNotFound when the slot is free.
	FindActiveSlot(ctx context.Context, doctorID primitive.ObjectID, date time.Time, timeOfDay string) (*models.Appointment, error)
	ListActiveByDoctorDate(ctx context.Context, doctorID primitive.ObjectID, date time.Time) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Appointment, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error)
}

// dayWindow returns the inclusive [00:00:00, 23:59:59] bounds of the
// calendar day containing t, in t's location.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end
}

func mapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func decodeOne[T any](res *mongo.SingleResult) (*T, error) {
	var doc T
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
