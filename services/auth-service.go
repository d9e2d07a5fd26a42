package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gurkanusta/WorkNest/models"
	"github.com/gurkanusta/WorkNest/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type AuthService struct {
	users UserRepository
	jwt   *JWTService
}

func NewAuthService(users UserRepository, jwtService *JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwtService}
}

// Register creates an identity from email and password. The password is
// stored only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// The unique email index catches the race between lookup and insert.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Login verifies the credentials and returns the user with a signed token.
// Both an unknown email and a wrong password produce the same error so
// that user existence is never disclosed.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAuthToken(user.ID.Hex(), user.Email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
