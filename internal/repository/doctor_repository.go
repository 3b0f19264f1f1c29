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

type mongoDoctorRepository struct {
	coll *mongo.Collection
}

// NewDoctorRepository returns a DoctorRepository backed by the "doctors" collection.
func NewDoctorRepository(db *mongo.Database) DoctorRepository {
	return &mongoDoctorRepository{coll: db.Collection("doctors")}
}

func (r *mongoDoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	now := time.Now()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, doctor); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (r *mongoDoctorRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	return decodeOne[models.Doctor](r.coll.FindOne(ctx, bson.M{"_id": id}))
}

func (r *mongoDoctorRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	return decodeOne[models.Doctor](r.coll.FindOne(ctx, bson.M{"user": userID}))
}

func (r *mongoDoctorRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Doctor, error) {
	doctors, err := findAll[models.Doctor](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Doctor, len(doctors))
	for _, d := range doctors {
		byID[d.ID] = d
	}
	return byID, nil
}

func (r *mongoDoctorRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Doctor, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeOne[models.Doctor](r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts))
}

func (r *mongoDoctorRepository) ListApproved(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error) {
	query := bson.M{"isApproved": true}
	if filter.Specialty != "" {
		query["specialty"] = filter.Specialty
	}

	fee := bson.M{}
	if filter.MinFee != nil {
		fee["$gte"] = *filter.MinFee
	}
	if filter.MaxFee != nil {
		fee["$lte"] = *filter.MaxFee
	}
	if len(fee) > 0 {
		query["consultationFee"] = fee
	}

	return findAll[models.Doctor](ctx, r.coll, query)
}

func (r *mongoDoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	return findAll[models.Doctor](ctx, r.coll, bson.M{})
}

func (r *mongoDoctorRepository) CountByApproval(ctx context.Context, approved bool) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"isApproved": approved})
}
