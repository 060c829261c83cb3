package dto

import "time"

type StoryItem struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	Timestamp time.Time `json:"timestamp"`
}

// StoryGroup bundles one author's live profile snapshot with their active
// stories, newest first.
type StoryGroup struct {
	UserID         string      `json:"userId"`
	Username       string      `json:"username"`
	ProfilePicture *string     `json:"profilePicture"`
	Stories        []StoryItem `json:"stories"`
}

type StoryViewEntry struct {
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	ProfilePicture *string   `json:"profilePicture"`
	Timestamp      time.Time `json:"timestamp"`
}

type StoryViewsResponse struct {
	Views []StoryViewEntry `json:"views"`
	Count int              `json:"count"`
}
