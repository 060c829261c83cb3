package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"instaclone/internal/dto"
	"instaclone/internal/model"
	"instaclone/internal/repository"
	"instaclone/pkg/apperror"
	"instaclone/pkg/storage"
)

const (
	likeNotificationMessage = "curtiu sua foto"
	sharedPostMessage       = "Compartilhou um post"
	commentPreviewLength    = 30
)

type PostService interface {
	Feed(ctx context.Context, callerID string, page, limit int64) (*dto.FeedResponse, error)
	Create(ctx context.Context, callerID, caption string, image *MediaFile) (*dto.PostResponse, error)
	Like(ctx context.Context, callerID, postID string) error
	Unlike(ctx context.Context, callerID, postID string) error
	AddComment(ctx context.Context, callerID, postID, text string) (*model.Comment, error)
	Delete(ctx context.Context, callerID, postID string) error
	Share(ctx context.Context, callerID, postID string, targetIDs []string) (int, error)
}

type postService struct {
	posts         repository.PostRepository
	users         repository.UserRepository
	messages      repository.MessageRepository
	notifications NotificationService
	mediaStorage  storage.MediaStorage
	uploadFolder  string
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, messages repository.MessageRepository, notifications NotificationService, mediaStorage storage.MediaStorage, uploadFolder string) PostService {
	return &postService{
		posts:         posts,
		users:         users,
		messages:      messages,
		notifications: notifications,
		mediaStorage:  mediaStorage,
		uploadFolder:  uploadFolder,
	}
}

func (s *postService) Feed(ctx context.Context, callerID string, page, limit int64) (*dto.FeedResponse, error) {
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	authors := append([]string{}, caller.Following...)
	authors = append(authors, callerID)

	// Discovery mode: a user following no one gets the global timeline
	// instead of an empty feed.
	if len(authors) <= 1 {
		authors = nil
	}

	skip := (page - 1) * limit
	posts, err := s.posts.FindByAuthors(ctx, authors, skip, limit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		author, err := s.users.FindByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}

		results = append(results, dto.PostResponse{
			ID:                 p.ID.Hex(),
			UserID:             p.UserID,
			Username:           author.Username,
			UserProfilePicture: author.ProfilePicture,
			ImageURL:           p.ImageURL,
			Caption:            p.Caption,
			Likes:              len(p.Likes),
			Liked:              contains(p.Likes, callerID),
			Comments:           p.Comments,
			Timestamp:          p.Timestamp,
		})
	}

	// hasMore is an approximation: a full page claims more even when the
	// next page turns out empty.
	return &dto.FeedResponse{
		Posts:   results,
		HasMore: int64(len(posts)) == limit,
	}, nil
}

func (s *postService) Create(ctx context.Context, callerID, caption string, image *MediaFile) (*dto.PostResponse, error) {
	// Upload first: a failed upload must not leave a post document behind.
	imageURL, err := s.mediaStorage.Upload(ctx, image.Reader, image.ContentType, s.uploadFolder+"/posts", image.FileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrMediaUpload, err)
	}

	post := &model.Post{
		UserID:    callerID,
		ImageURL:  imageURL,
		Caption:   sanitizeText(caption),
		Likes:     []string{},
		Comments:  []model.Comment{},
		Timestamp: time.Now().UTC(),
	}

	if _, err := s.posts.Insert(ctx, post); err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return &dto.PostResponse{
		ID:                 post.ID.Hex(),
		UserID:             callerID,
		Username:           author.Username,
		UserProfilePicture: author.ProfilePicture,
		ImageURL:           imageURL,
		Caption:            post.Caption,
		Likes:              0,
		Liked:              false,
		Comments:           []model.Comment{},
		Timestamp:          post.Timestamp,
	}, nil
}

func (s *postService) Like(ctx context.Context, callerID, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Liking a missing post is a silent no-op.
			return nil
		}
		return err
	}

	alreadyLiked := contains(post.Likes, callerID)

	if err := s.posts.AddLike(ctx, postID, callerID); err != nil {
		return err
	}

	// Only a fresh like notifies the author; repeating the call must not fan
	// out duplicates.
	if alreadyLiked {
		return nil
	}

	imageURL := post.ImageURL
	return s.notifications.Notify(ctx, post.UserID, callerID, model.NotificationTypeLike, likeNotificationMessage, &postID, &imageURL)
}

func (s *postService) Unlike(ctx context.Context, callerID, postID string) error {
	return s.posts.RemoveLike(ctx, postID, callerID)
}

func (s *postService) AddComment(ctx context.Context, callerID, postID, text string) (*model.Comment, error) {
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	comment := model.Comment{
		ID:     primitive.NewObjectID().Hex(),
		UserID: callerID,
		// Snapshot of the commenter's username; later renames don't touch it.
		Username:  caller.Username,
		Text:      sanitizeText(text),
		Timestamp: time.Now().UTC(),
	}

	if err := s.posts.AppendComment(ctx, postID, comment); err != nil {
		return nil, err
	}

	if post != nil {
		preview := []rune(comment.Text)
		if len(preview) > commentPreviewLength {
			preview = preview[:commentPreviewLength]
		}

		imageURL := post.ImageURL
		message := fmt.Sprintf("comentou: \"%s\"", string(preview))
		if err := s.notifications.Notify(ctx, post.UserID, callerID, model.NotificationTypeComment, message, &postID, &imageURL); err != nil {
			return nil, err
		}
	}

	return &comment, nil
}

func (s *postService) Delete(ctx context.Context, callerID, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("post not found")
		}
		return err
	}

	if post.UserID != callerID {
		return apperror.Forbidden("not authorized to delete this post")
	}

	// Media goes first so a crash between the two steps leaves an orphaned
	// document, never an unreachable media asset. Deletion failures are
	// best effort and swallowed.
	s.mediaStorage.Delete(ctx, post.ImageURL)

	return s.posts.Delete(ctx, postID)
}

func (s *postService) Share(ctx context.Context, callerID, postID string, targetIDs []string) (int, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, apperror.NotFound("post not found")
		}
		return 0, err
	}

	// Target ids are not validated as existing users.
	for _, targetID := range targetIDs {
		sharedPostID := postID
		message := &model.Message{
			SenderID:   callerID,
			ReceiverID: targetID,
			Text:       sharedPostMessage,
			PostID:     &sharedPostID,
			Timestamp:  time.Now().UTC(),
			Read:       false,
		}

		if _, err := s.messages.Insert(ctx, message); err != nil {
			return 0, err
		}
	}

	return len(targetIDs), nil
}
