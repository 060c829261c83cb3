package dto

import "time"

type SendMessageInput struct {
	Text string `json:"text" binding:"required"`
}

type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	PostID     *string   `json:"postId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
}

// Conversation is one row in the conversation list: the other participant's
// live profile plus the newest message exchanged with them.
type Conversation struct {
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	ProfilePicture *string   `json:"profilePicture"`
	LastMessage    string    `json:"lastMessage"`
	Timestamp      time.Time `json:"timestamp"`
	Unread         bool      `json:"unread"`
}
