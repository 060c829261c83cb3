package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"instaclone/internal/dto"
	"instaclone/internal/model"
	"instaclone/internal/repository"
)

const notificationPageLimit = 50

type NotificationService interface {
	// Notify records a notification for recipientID. It is a no-op when the
	// actor is the recipient.
	Notify(ctx context.Context, recipientID, actorID, kind, message string, postID, postImage *string) error
	List(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
}

func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository) NotificationService {
	return &notificationService{
		notifications: notifications,
		users:         users,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipientID, actorID, kind, message string, postID, postImage *string) error {
	if recipientID == actorID {
		return nil
	}

	return s.notifications.Insert(ctx, &model.Notification{
		UserID:    recipientID,
		ActorID:   actorID,
		Type:      kind,
		Message:   message,
		PostID:    postID,
		PostImage: postImage,
		Timestamp: time.Now().UTC(),
		Read:      false,
	})
}

func (s *notificationService) List(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	notifications, err := s.notifications.FindByRecipient(ctx, userID, notificationPageLimit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		// Actor profiles are resolved live; notifications from deleted
		// actors are dropped from the list.
		actor, err := s.users.FindByID(ctx, n.ActorID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}

		results = append(results, dto.NotificationResponse{
			ID:                  n.ID.Hex(),
			Type:                n.Type,
			ActorID:             n.ActorID,
			ActorUsername:       actor.Username,
			ActorProfilePicture: actor.ProfilePicture,
			Message:             n.Message,
			PostID:              n.PostID,
			PostImage:           n.PostImage,
			Timestamp:           n.Timestamp,
			Read:                n.Read,
		})
	}

	return results, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}
