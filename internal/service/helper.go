package service

import (
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"instaclone/internal/dto"
	"instaclone/internal/model"
)

// MediaFile represents uploaded binary content plus the metadata the media
// storage needs to pick a transformation profile.
type MediaFile struct {
	Reader      io.Reader
	FileName    string
	ContentType string
}

var sanitizer = bluemonday.StrictPolicy()

// sanitizeText strips markup from free-text user input before it is stored.
func sanitizeText(s string) string {
	return strings.TrimSpace(sanitizer.Sanitize(s))
}

func buildUserResponse(user *model.User, postsCount int64) *dto.UserResponse {
	return &dto.UserResponse{
		ID:             user.ID.Hex(),
		Email:          user.Email,
		Username:       user.Username,
		FullName:       user.FullName,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
		Followers:      len(user.Followers),
		Following:      len(user.Following),
		Posts:          postsCount,
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
