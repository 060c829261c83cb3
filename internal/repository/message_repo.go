package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"instaclone/internal/model"
)

// MessageRepository is the access layer for the "messages" collection.
type MessageRepository interface {
	Insert(ctx context.Context, message *model.Message) (string, error)
	// FindTouching returns messages sent or received by userID, newest-first,
	// capped at limit.
	FindTouching(ctx context.Context, userID string, limit int64) ([]model.Message, error)
	// FindBetween returns the thread between two users, oldest-first.
	FindBetween(ctx context.Context, userA, userB string, limit int64) ([]model.Message, error)
	// MarkRead flags every unread message from senderID to receiverID as read.
	MarkRead(ctx context.Context, senderID, receiverID string) error
}

type messageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{coll: db.Collection("messages")}
}

func (r *messageRepository) Insert(ctx context.Context, message *model.Message) (string, error) {
	res, err := r.coll.InsertOne(ctx, message)
	if err != nil {
		return "", err
	}

	id := res.InsertedID.(primitive.ObjectID)
	message.ID = id
	return id.Hex(), nil
}

func (r *messageRepository) FindTouching(ctx context.Context, userID string, limit int64) ([]model.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"senderId": userID},
			{"receiverId": userID},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []model.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindBetween(ctx context.Context, userA, userB string, limit int64) ([]model.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"senderId": userA, "receiverId": userB},
			{"senderId": userB, "receiverId": userA},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []model.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, senderID, receiverID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"senderId": senderID, "receiverId": receiverID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
