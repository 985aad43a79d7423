package user

import (
	"context"
	"errors"
	"strings"

	"cendra-go/internal/domain"
	"cendra-go/internal/domain/access"
)

type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates an account at the first onboarding stage and signs it in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	input.Email = normalizeEmail(input.Email)
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:        input.Email,
		PasswordHash: hash,
		Onboarding:   access.StageEntitySetup,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}

	return s.session(user)
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	input.Email = normalizeEmail(input.Email)
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.session(*user)
}

func (s *Service) Me(ctx context.Context, p access.Principal) (*Profile, error) {
	return s.repo.GetProfile(ctx, p.UserID)
}

// Principal loads the current access identity of a user. It is read on every
// request so role changes apply without issuing a new token.
func (s *Service) Principal(ctx context.Context, userID int64) (access.Principal, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return access.Principal{}, err
	}
	return user.Principal(), nil
}

func (s *Service) session(user User) (*Session, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
