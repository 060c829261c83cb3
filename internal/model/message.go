package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a directed message in the "messages" collection. A conversation
// is derived from the (sender, receiver) pair, not stored.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SenderID   string             `bson:"senderId" json:"senderId"`
	ReceiverID string             `bson:"receiverId" json:"receiverId"`
	Text       string             `bson:"text" json:"text"`
	PostID     *string            `bson:"postId,omitempty" json:"postId,omitempty"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Read       bool               `bson:"read" json:"read"`
}
