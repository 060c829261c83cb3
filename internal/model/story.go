package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story is a document in the "stories" collection. Nothing deletes expired
// stories; the 24h window is enforced by the list query alone.
type Story struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"userId" json:"userId"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
}

// StoryView records that a viewer has seen a story. At most one exists per
// (story, viewer) pair, enforced by a find-before-insert check.
type StoryView struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	StoryID   string             `bson:"storyId" json:"storyId"`
	UserID    string             `bson:"userId" json:"userId"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
