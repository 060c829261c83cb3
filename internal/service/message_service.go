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

// Conversation grouping scans at most this many recent messages. With more
// total messages touching a user, older partners fall off the list.
const messageScanLimit = 1000

type MessageService interface {
	Send(ctx context.Context, senderID, receiverID, text string) (*dto.MessageResponse, error)
	Conversations(ctx context.Context, userID string) ([]dto.Conversation, error)
	// Thread returns the full exchange with the other user, oldest-first,
	// and marks their unread messages to the caller as read.
	Thread(ctx context.Context, callerID, otherID string) ([]dto.MessageResponse, error)
}

type messageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository) MessageService {
	return &messageService{
		messages: messages,
		users:    users,
	}
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID, text string) (*dto.MessageResponse, error) {
	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       sanitizeText(text),
		Timestamp:  time.Now().UTC(),
		Read:       false,
	}

	id, err := s.messages.Insert(ctx, message)
	if err != nil {
		return nil, err
	}

	return &dto.MessageResponse{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       message.Text,
		Timestamp:  message.Timestamp,
		Read:       false,
	}, nil
}

func (s *messageService) Conversations(ctx context.Context, userID string) ([]dto.Conversation, error) {
	messages, err := s.messages.FindTouching(ctx, userID, messageScanLimit)
	if err != nil {
		return nil, err
	}

	// Newest-first scan + first-write-wins grouping keeps the latest message
	// per partner.
	seen := map[string]bool{}
	conversations := []dto.Conversation{}

	for _, msg := range messages {
		otherID := msg.SenderID
		if msg.SenderID == userID {
			otherID = msg.ReceiverID
		}

		if seen[otherID] {
			continue
		}
		seen[otherID] = true

		other, err := s.users.FindByID(ctx, otherID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}

		conversations = append(conversations, dto.Conversation{
			UserID:         otherID,
			Username:       other.Username,
			ProfilePicture: other.ProfilePicture,
			LastMessage:    msg.Text,
			Timestamp:      msg.Timestamp,
			Unread:         !msg.Read && msg.ReceiverID == userID,
		})
	}

	return conversations, nil
}

func (s *messageService) Thread(ctx context.Context, callerID, otherID string) ([]dto.MessageResponse, error) {
	messages, err := s.messages.FindBetween(ctx, callerID, otherID, messageScanLimit)
	if err != nil {
		return nil, err
	}

	// Reading the thread marks the other party's messages as read.
	if err := s.messages.MarkRead(ctx, otherID, callerID); err != nil {
		return nil, err
	}

	results := make([]dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		results = append(results, dto.MessageResponse{
			ID:         msg.ID.Hex(),
			SenderID:   msg.SenderID,
			ReceiverID: msg.ReceiverID,
			Text:       msg.Text,
			PostID:     msg.PostID,
			Timestamp:  msg.Timestamp,
			Read:       msg.Read,
		})
	}

	return results, nil
}
