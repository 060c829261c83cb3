package dto

import (
	"time"

	"instaclone/internal/model"
)

// PostResponse resolves the author's live username and avatar at read time.
type PostResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	Username           string          `json:"username"`
	UserProfilePicture *string         `json:"userProfilePicture"`
	ImageURL           string          `json:"imageUrl"`
	Caption            string          `json:"caption"`
	Likes              int             `json:"likes"`
	Liked              bool            `json:"liked"`
	Comments           []model.Comment `json:"comments"`
	Timestamp          time.Time       `json:"timestamp"`
}

type FeedResponse struct {
	Posts   []PostResponse `json:"posts"`
	HasMore bool           `json:"hasMore"`
}

type CommentCreate struct {
	Text string `json:"text" binding:"required"`
}

type SharePostInput struct {
	UserIDs []string `json:"userIds"`
}
