package service

import (
	"context"
	"errors"
	"fmt"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/repository"
	"cabanas-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	staff  repository.StaffRepository
	tokens security.TokenManager
}

func NewAuthService(staff repository.StaffRepository, tokens security.TokenManager) AuthService {
	return &authService{staff: staff, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !user.Active {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
