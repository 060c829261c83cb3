package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"instaclone/internal/dto"
	"instaclone/internal/repository"
	"instaclone/pkg/apperror"
	"instaclone/pkg/storage"
)

const searchResultLimit = 20

type UserService interface {
	Search(ctx context.Context, callerID, query string) ([]dto.SearchResult, error)
	UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput, picture *MediaFile) (*dto.UserResponse, error)
	Follow(ctx context.Context, callerID, targetID string) error
	Unfollow(ctx context.Context, callerID, targetID string) error
}

type userService struct {
	users        repository.UserRepository
	posts        repository.PostRepository
	mediaStorage storage.MediaStorage
	uploadFolder string
}

func NewUserService(users repository.UserRepository, posts repository.PostRepository, mediaStorage storage.MediaStorage, uploadFolder string) UserService {
	return &userService{
		users:        users,
		posts:        posts,
		mediaStorage: mediaStorage,
		uploadFolder: uploadFolder,
	}
}

func (s *userService) Search(ctx context.Context, callerID, query string) ([]dto.SearchResult, error) {
	users, err := s.users.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, err
	}

	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SearchResult, 0, len(users))
	for _, u := range users {
		id := u.ID.Hex()
		if id == callerID {
			continue
		}

		results = append(results, dto.SearchResult{
			ID:             id,
			Username:       u.Username,
			FullName:       u.FullName,
			ProfilePicture: u.ProfilePicture,
			Followers:      len(u.Followers),
			IsFollowing:    contains(caller.Following, id),
		})
	}

	return results, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput, picture *MediaFile) (*dto.UserResponse, error) {
	set := map[string]interface{}{}

	// An empty full name leaves the stored value untouched; an empty bio is a
	// valid update.
	if input.FullName != nil && *input.FullName != "" {
		set["fullName"] = sanitizeText(*input.FullName)
	}
	if input.Bio != nil {
		set["bio"] = sanitizeText(*input.Bio)
	}

	if picture != nil && picture.Reader != nil {
		url, err := s.mediaStorage.Upload(ctx, picture.Reader, picture.ContentType, s.uploadFolder+"/profiles", picture.FileName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrMediaUpload, err)
		}
		set["profilePicture"] = url
	}

	if err := s.users.UpdateProfile(ctx, userID, set); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	postsCount, err := s.posts.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildUserResponse(user, postsCount), nil
}

func (s *userService) Follow(ctx context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return apperror.BadRequest("cannot follow yourself")
	}

	// Set-union semantics make repeats idempotent.
	return s.users.Follow(ctx, callerID, targetID)
}

func (s *userService) Unfollow(ctx context.Context, callerID, targetID string) error {
	return s.users.Unfollow(ctx, callerID, targetID)
}
