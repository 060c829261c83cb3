package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"instaclone/internal/dto"
	"instaclone/internal/model"
	"instaclone/internal/repository"
	"instaclone/pkg/apperror"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	users       repository.UserRepository
	posts       repository.PostRepository
	redisClient *redis.Client
	secret      string
	tokenTTL    time.Duration
	loginWindow time.Duration
}

func NewAuthService(users repository.UserRepository, posts repository.PostRepository, redisClient *redis.Client, secret string, tokenTTL, loginWindow time.Duration) AuthService {
	return &authService{
		users:       users,
		posts:       posts,
		redisClient: redisClient,
		secret:      secret,
		tokenTTL:    tokenTTL,
		loginWindow: loginWindow,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	// Two sequential uniqueness checks; the insert below is not guarded by a
	// unique index, so a concurrent register can still race past them.
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.BadRequest("email already registered")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperror.BadRequest("username already taken")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		Username:     input.Username,
		FullName:     sanitizeText(input.FullName),
		PasswordHash: string(hashed),
		Bio:          "",
		Followers:    []string{},
		Following:    []string{},
		CreatedAt:    time.Now().UTC(),
	}

	userID, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(userID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  buildUserResponse(user, 0),
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, input.Email, "login", s.loginWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Same message as a wrong password: don't reveal which one it was.
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if err := ClearRateLimit(ctx, s.redisClient, input.Email, "login"); err != nil {
		return nil, err
	}

	userID := user.ID.Hex()

	postsCount, err := s.posts.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(userID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  buildUserResponse(user, postsCount),
	}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// A structurally valid token can outlive the user record.
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

func (s *authService) generateToken(userID string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
