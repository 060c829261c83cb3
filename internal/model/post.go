package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is embedded inside a Post. Username is a snapshot of the commenter's
// username at comment time, never re-joined against the users collection.
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Username  string    `bson:"username" json:"username"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Post is a document in the "posts" collection. Likes is a set of user ids.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"userId" json:"userId"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	Caption   string             `bson:"caption" json:"caption"`
	Likes     []string           `bson:"likes" json:"-"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
