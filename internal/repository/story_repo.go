package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"instaclone/internal/model"
)

// StoryRepository covers the "stories" and "story_views" collections. Views
// are deduplicated by the caller via FindView before InsertView; there is no
// uniqueness constraint on the collection.
type StoryRepository interface {
	Insert(ctx context.Context, story *model.Story) (string, error)
	FindByID(ctx context.Context, id string) (*model.Story, error)
	// FindActive returns stories newer than since, newest-first, capped at
	// limit. A nil author set means all authors (discovery mode).
	FindActive(ctx context.Context, authorIDs []string, since time.Time, limit int64) ([]model.Story, error)
	FindView(ctx context.Context, storyID, viewerID string) (*model.StoryView, error)
	InsertView(ctx context.Context, view *model.StoryView) error
	FindViews(ctx context.Context, storyID string, limit int64) ([]model.StoryView, error)
}

type storyRepository struct {
	stories *mongo.Collection
	views   *mongo.Collection
}

func NewStoryRepository(db *mongo.Database) StoryRepository {
	return &storyRepository{
		stories: db.Collection("stories"),
		views:   db.Collection("story_views"),
	}
}

func (r *storyRepository) Insert(ctx context.Context, story *model.Story) (string, error) {
	res, err := r.stories.InsertOne(ctx, story)
	if err != nil {
		return "", err
	}

	id := res.InsertedID.(primitive.ObjectID)
	story.ID = id
	return id.Hex(), nil
}

func (r *storyRepository) FindByID(ctx context.Context, id string) (*model.Story, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var story model.Story
	if err := r.stories.FindOne(ctx, bson.M{"_id": oid}).Decode(&story); err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) FindActive(ctx context.Context, authorIDs []string, since time.Time, limit int64) ([]model.Story, error) {
	filter := bson.M{"timestamp": bson.M{"$gte": since}}
	if authorIDs != nil {
		filter["userId"] = bson.M{"$in": authorIDs}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.stories.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []model.Story
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepository) FindView(ctx context.Context, storyID, viewerID string) (*model.StoryView, error) {
	var view model.StoryView
	err := r.views.FindOne(ctx, bson.M{"storyId": storyID, "userId": viewerID}).Decode(&view)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *storyRepository) InsertView(ctx context.Context, view *model.StoryView) error {
	_, err := r.views.InsertOne(ctx, view)
	return err
}

func (r *storyRepository) FindViews(ctx context.Context, storyID string, limit int64) ([]model.StoryView, error) {
	cursor, err := r.views.Find(ctx, bson.M{"storyId": storyID}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var views []model.StoryView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}
