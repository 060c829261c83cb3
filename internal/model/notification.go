package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

// Notification is a document in the "notifications" collection. UserID is the
// recipient; one is never created when the actor is the recipient.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"userId" json:"userId"`
	ActorID   string             `bson:"actorId" json:"actorId"`
	Type      string             `bson:"type" json:"type"`
	Message   string             `bson:"message" json:"message"`
	PostID    *string            `bson:"postId,omitempty" json:"postId,omitempty"`
	PostImage *string            `bson:"postImage,omitempty" json:"postImage,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Read      bool               `bson:"read" json:"read"`
}
