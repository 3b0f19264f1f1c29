package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careslot/careslot-api/internal/models"
)

type mongoAppointmentRepository struct {
	coll *mongo.Collection
}

// NewAppointmentRepository returns an AppointmentRepository backed by the
// "appointments" collection.
func NewAppointmentRepository(db *mongo.Database) AppointmentRepository {
	return &mongoAppointmentRepository{coll: db.Collection("appointments")}
}

func (r *mongoAppointmentRepository) Create(ctx context.Context, apt *models.Appointment) error {
	now := time.Now()
	apt.CreatedAt = now
	apt.UpdatedAt = now
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, apt); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (r *mongoAppointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	return decodeOne[models.Appointment](r.coll.FindOne(ctx, bson.M{"_id": id}))
}

func (r *mongoAppointmentRepository) FindActiveSlot(ctx context.Context, doctorID primitive.ObjectID, date time.Time, timeOfDay string) (*models.Appointment, error) {
	start, end := dayWindow(date)
	filter := bson.M{
		"doctor": doctorID,
		"date":   bson.M{"$gte": start, "$lte": end},
		"time":   timeOfDay,
		"status": bson.M{"$in": models.ActiveStatuses},
	}
	return decodeOne[models.Appointment](r.coll.FindOne(ctx, filter))
}

func (r *mongoAppointmentRepository) ListActiveByDoctorDate(ctx context.Context, doctorID primitive.ObjectID, date time.Time) ([]models.Appointment, error) {
	start, end := dayWindow(date)
	filter := bson.M{
		"doctor": doctorID,
		"date":   bson.M{"$gte": start, "$lte": end},
		"status": bson.M{"$in": models.ActiveStatuses},
	}
	return findAll[models.Appointment](ctx, r.coll, filter)
}

func (r *mongoAppointmentRepository) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Appointment, error) {
	return findAll[models.Appointment](ctx, r.coll, bson.M{"patient": patientID}, byDateAscending())
}

func (r *mongoAppointmentRepository) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error) {
	return findAll[models.Appointment](ctx, r.coll, bson.M{"doctor": doctorID}, byDateAscending())
}

func (r *mongoAppointmentRepository) List(ctx context.Context) ([]models.Appointment, error) {
	return findAll[models.Appointment](ctx, r.coll, bson.M{}, byDateAscending())
}

func (r *mongoAppointmentRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Appointment, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeOne[models.Appointment](r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts))
}

func (r *mongoAppointmentRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *mongoAppointmentRepository) CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": status})
}

func byDateAscending() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
}
