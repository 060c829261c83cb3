package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"instaclone/internal/dto"
	"instaclone/internal/model"
	"instaclone/internal/repository"
	"instaclone/pkg/apperror"
	"instaclone/pkg/storage"
)

const (
	storyWindow     = 24 * time.Hour
	storyScanLimit  = 100
	storyViewsLimit = 1000
)

type StoryService interface {
	List(ctx context.Context, callerID string) ([]dto.StoryGroup, error)
	Create(ctx context.Context, callerID string, image *MediaFile) (*dto.StoryItem, error)
	RecordView(ctx context.Context, callerID, storyID string) error
	Views(ctx context.Context, callerID, storyID string) (*dto.StoryViewsResponse, error)
}

type storyService struct {
	stories      repository.StoryRepository
	users        repository.UserRepository
	mediaStorage storage.MediaStorage
	uploadFolder string
}

func NewStoryService(stories repository.StoryRepository, users repository.UserRepository, mediaStorage storage.MediaStorage, uploadFolder string) StoryService {
	return &storyService{
		stories:      stories,
		users:        users,
		mediaStorage: mediaStorage,
		uploadFolder: uploadFolder,
	}
}

func (s *storyService) List(ctx context.Context, callerID string) ([]dto.StoryGroup, error) {
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	authors := append([]string{}, caller.Following...)
	authors = append(authors, callerID)

	// Same discovery fallback as the feed.
	if len(authors) <= 1 {
		authors = nil
	}

	since := time.Now().UTC().Add(-storyWindow)
	stories, err := s.stories.FindActive(ctx, authors, since, storyScanLimit)
	if err != nil {
		return nil, err
	}

	// Group by author, one group per author in order of first appearance.
	// Stories inside a group stay newest-first from the scan.
	groupIndex := map[string]int{}
	groups := []dto.StoryGroup{}

	for _, story := range stories {
		idx, ok := groupIndex[story.UserID]
		if !ok {
			author, err := s.users.FindByID(ctx, story.UserID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					continue
				}
				return nil, err
			}

			idx = len(groups)
			groupIndex[story.UserID] = idx
			groups = append(groups, dto.StoryGroup{
				UserID:         story.UserID,
				Username:       author.Username,
				ProfilePicture: author.ProfilePicture,
			})
		}

		groups[idx].Stories = append(groups[idx].Stories, dto.StoryItem{
			ID:        story.ID.Hex(),
			ImageURL:  story.ImageURL,
			Timestamp: story.Timestamp,
		})
	}

	return groups, nil
}

func (s *storyService) Create(ctx context.Context, callerID string, image *MediaFile) (*dto.StoryItem, error) {
	imageURL, err := s.mediaStorage.Upload(ctx, image.Reader, image.ContentType, s.uploadFolder+"/stories", image.FileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrMediaUpload, err)
	}

	now := time.Now().UTC()
	story := &model.Story{
		UserID:    callerID,
		ImageURL:  imageURL,
		Timestamp: now,
		// Nothing purges expired stories; the list query filter is the only
		// enforcement of this window.
		ExpiresAt: now.Add(storyWindow),
	}

	id, err := s.stories.Insert(ctx, story)
	if err != nil {
		return nil, err
	}

	return &dto.StoryItem{
		ID:        id,
		ImageURL:  imageURL,
		Timestamp: now,
	}, nil
}

func (s *storyService) RecordView(ctx context.Context, callerID, storyID string) error {
	// Find-before-insert keeps views unique per viewer; there is no
	// uniqueness constraint backing this up.
	if _, err := s.stories.FindView(ctx, storyID, callerID); err == nil {
		return nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	return s.stories.InsertView(ctx, &model.StoryView{
		StoryID:   storyID,
		UserID:    callerID,
		Timestamp: time.Now().UTC(),
	})
}

func (s *storyService) Views(ctx context.Context, callerID, storyID string) (*dto.StoryViewsResponse, error) {
	story, err := s.stories.FindByID(ctx, storyID)
	if err != nil || story.UserID != callerID {
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, apperror.Forbidden("not authorized")
	}

	views, err := s.stories.FindViews(ctx, storyID, storyViewsLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.StoryViewEntry, 0, len(views))
	for _, view := range views {
		viewer, err := s.users.FindByID(ctx, view.UserID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}

		entries = append(entries, dto.StoryViewEntry{
			UserID:         view.UserID,
			Username:       viewer.Username,
			ProfilePicture: viewer.ProfilePicture,
			Timestamp:      view.Timestamp,
		})
	}

	return &dto.StoryViewsResponse{
		Views: entries,
		Count: len(entries),
	}, nil
}
