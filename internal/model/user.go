package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document in the "users" collection. Followers and following are
// denormalized id sets kept symmetric by the follow/unfollow dual update.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email          string             `bson:"email" json:"email"`
	Username       string             `bson:"username" json:"username"`
	FullName       string             `bson:"fullName" json:"fullName"`
	PasswordHash   string             `bson:"password_hash" json:"-"`
	ProfilePicture *string            `bson:"profilePicture" json:"profilePicture"`
	Bio            string             `bson:"bio" json:"bio"`
	Followers      []string           `bson:"followers" json:"-"`
	Following      []string           `bson:"following" json:"-"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
