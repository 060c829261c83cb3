package dto

import "time"

// NotificationResponse resolves the actor's profile at read time, so the
// username and avatar reflect current state rather than a write-time snapshot.
type NotificationResponse struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	ActorID             string    `json:"actorId"`
	ActorUsername       string    `json:"actorUsername"`
	ActorProfilePicture *string   `json:"actorProfilePicture"`
	Message             string    `json:"message"`
	PostID              *string   `json:"postId,omitempty"`
	PostImage           *string   `json:"postImage,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
	Read                bool      `json:"read"`
}
