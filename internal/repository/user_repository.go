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

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository returns a UserRepository backed by the "users" collection.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection("users")}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return decodeOne[models.User](r.coll.FindOne(ctx, bson.M{"_id": id}))
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return decodeOne[models.User](r.coll.FindOne(ctx, bson.M{"email": email}))
}

func (r *mongoUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	users, err := findAll[models.User](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeOne[models.User](r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts))
}

func (r *mongoUserRepository) List(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, r.coll, bson.M{})
}

func (r *mongoUserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"role": role})
}

// EnsureIndexes creates the unique email index. Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
