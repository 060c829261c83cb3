package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"instaclone/internal/model"
)

// PostRepository is the access layer for the "posts" collection. Likes are an
// id set updated atomically with $addToSet/$pull; comments are embedded and
// appended with $push.
type PostRepository interface {
	Insert(ctx context.Context, post *model.Post) (string, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// FindByAuthors returns posts newest-first with offset pagination.
	// A nil author set means the global scan (discovery mode).
	FindByAuthors(ctx context.Context, authorIDs []string, skip, limit int64) ([]model.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	AppendComment(ctx context.Context, postID string, comment model.Comment) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{coll: db.Collection("posts")}
}

func (r *postRepository) Insert(ctx context.Context, post *model.Post) (string, error) {
	res, err := r.coll.InsertOne(ctx, post)
	if err != nil {
		return "", err
	}

	id := res.InsertedID.(primitive.ObjectID)
	post.ID = id
	return id.Hex(), nil
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var post model.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByAuthors(ctx context.Context, authorIDs []string, skip, limit int64) ([]model.Post, error) {
	filter := bson.M{}
	if authorIDs != nil {
		filter["userId"] = bson.M{"$in": authorIDs}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"userId": authorID})
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$addToSet": bson.M{"likes": userID}})
	return err
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$pull": bson.M{"likes": userID}})
	return err
}

func (r *postRepository) AppendComment(ctx context.Context, postID string, comment model.Comment) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"comments": comment}})
	return err
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
