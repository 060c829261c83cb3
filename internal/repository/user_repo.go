package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"instaclone/internal/model"
)

// UserRepository is the access layer for the "users" collection. Find methods
// return mongo.ErrNoDocuments when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (string, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Search(ctx context.Context, query string, limit int64) ([]model.User, error)
	UpdateProfile(ctx context.Context, id string, set map[string]interface{}) error
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection("users")}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (string, error) {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return "", err
	}

	id := res.InsertedID.(primitive.ObjectID)
	user.ID = id
	return id.Hex(), nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int64) ([]model.User, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"username": bson.M{"$regex": query, "$options": "i"}},
			{"fullName": bson.M{"$regex": query, "$options": "i"}},
		},
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, set map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	if len(set) == 0 {
		return nil
	}

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	return err
}

// Follow performs the dual set-union update: the follower's following list and
// the target's followers list. The two updates commit independently.
func (r *userRepository) Follow(ctx context.Context, followerID, targetID string) error {
	followerOID, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	targetOID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	if _, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": followerOID},
		bson.M{"$addToSet": bson.M{"following": targetID}},
	); err != nil {
		return err
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": targetOID},
		bson.M{"$addToSet": bson.M{"followers": followerID}},
	)
	return err
}

func (r *userRepository) Unfollow(ctx context.Context, followerID, targetID string) error {
	followerOID, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	targetOID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	if _, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": followerOID},
		bson.M{"$pull": bson.M{"following": targetID}},
	); err != nil {
		return err
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": targetOID},
		bson.M{"$pull": bson.M{"followers": followerID}},
	)
	return err
}
