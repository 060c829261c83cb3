package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"instaclone/internal/model"
)

// NotificationRepository is the access layer for the "notifications" collection.
type NotificationRepository interface {
	Insert(ctx context.Context, notification *model.Notification) error
	FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]model.Notification, error)
	// MarkRead flags a single notification read, scoped to its recipient.
	MarkRead(ctx context.Context, id, recipientID string) error
}

type notificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{coll: db.Collection("notifications")}
}

func (r *notificationRepository) Insert(ctx context.Context, notification *model.Notification) error {
	res, err := r.coll.InsertOne(ctx, notification)
	if err != nil {
		return err
	}

	notification.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]model.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"userId": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "userId": recipientID},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
