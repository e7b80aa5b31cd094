package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/mailer"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

const (
	resetTokenBytes = 20
	resetTokenTTL   = time.Hour
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword string, password string) error
}

// TokenManager mints and verifies the stateless token pair. Refresh
// tokens are never stored: possession of a validly signed one is proof
// enough.
type TokenManager interface {
	IssueAccess(userID uuid.UUID) (models.IssuedToken, error)
	IssuePair(userID uuid.UUID) (models.TokenPair, error)
	ParseAccess(access string) (uuid.UUID, error)
	ParseRefresh(refresh string) (uuid.UUID, error)
}

type Service struct {
	users  repository.UserRepo
	hasher PasswordHasher
	tokens TokenManager
	mail   mailer.Mailer
	log    logger.Logger

	// Base URL the reset link points the user to
	frontendURL string

	// Hash compared against when login hits an unknown email, so both
	// failure branches cost one bcrypt verification
	dummyHash string
}

func NewService(
	users repository.UserRepo,
	hasher PasswordHasher,
	tokens TokenManager,
	mail mailer.Mailer,
	frontendURL string,
	log logger.Logger,
) (*Service, error) {
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy password hash. Err: %w", err)
	}

	return &Service{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		mail:        mail,
		log:         log,
		frontendURL: frontendURL,
		dummyHash:   dummyHash,
	}, nil
}

type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a user account and signs it in right away
func (s *Service) Register(ctx context.Context, arg RegisterParams) (models.User, models.TokenPair, error) {
	hashed, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	now := time.Now()
	user, err := s.users.CreateUser(ctx, repository.CreateUserParams{
		Email:          arg.Email,
		HashedPassword: hashed,
		FirstName:      arg.FirstName,
		LastName:       arg.LastName,
		Role:           models.RoleClient,
		LastLogin:      &now,
	})
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Login verifies the credentials and issues a fresh token pair.
// Unknown email and wrong password are both reported as
// apperrors.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error) {
	user, err := s.users.UserByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Keep the timing of the unknown-email branch close to the
			// wrong-password one
			_ = s.hasher.Compare(s.dummyHash, password)
			return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
		}
		return models.User{}, models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	user, err = s.users.UpdateUser(ctx, user.ID, repository.UpdateUserParams{LastLogin: &now})
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself stays as it is, no rotation happens. Every
// verification failure maps to apperrors.ErrInvalidToken so a caller
// cannot probe which check rejected it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (models.IssuedToken, error) {
	if refreshToken == "" {
		return models.IssuedToken{}, apperrors.ErrInvalidRequest
	}

	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return models.IssuedToken{}, apperrors.ErrInvalidToken
	}

	// The account may be gone even though the token still verifies
	if _, err := s.users.UserByID(ctx, userID, false); err != nil {
		return models.IssuedToken{}, apperrors.ErrInvalidToken
	}

	return s.tokens.IssueAccess(userID)
}

// ForgotPassword issues a single-use reset token and mails the link.
// Only the sha256 of the token is stored; the raw value lives solely in
// the email. If the mail cannot be delivered the pending token is rolled
// back so no orphaned reset window stays open.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.UserByEmail(ctx, email, false)
	if err != nil {
		return err
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("error generating reset token. Err: %w", err)
	}
	token := hex.EncodeToString(raw)
	tokenHash := hashResetToken(token)

	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return err
	}

	msg := mailer.PasswordReset(s.frontendURL, user.Email, token)
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.Error("could not send reset email", "user_id", user.ID, "error", err)
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.Error("could not roll back reset token", "user_id", user.ID, "error", clearErr)
		}
		return apperrors.ErrEmailDeliveryFailed
	}

	return nil
}

// ResetPassword completes the recovery flow. The consuming update is a
// single statement, so a token can be spent exactly once no matter how
// many requests race on it.
func (s *Service) ResetPassword(ctx context.Context, token string, newPassword string) (models.User, error) {
	if token == "" || newPassword == "" {
		return models.User{}, apperrors.ErrInvalidRequest
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return models.User{}, err
	}

	return s.users.ConsumeResetToken(ctx, hashResetToken(token), hashed, time.Now())
}

// ChangePassword replaces the password of a signed-in user after
// re-checking the current one. Already issued tokens stay valid.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword string, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.ErrInvalidRequest
	}

	user, err := s.users.UserByID(ctx, userID, true)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.HashedPassword, currentPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	_, err = s.users.UpdateUser(ctx, userID, repository.UpdateUserParams{HashedPassword: &hashed})
	return err
}

// UserFromToken resolves an access token to its user. Used by the auth
// middleware on every protected request.
func (s *Service) UserFromToken(ctx context.Context, accessToken string) (models.User, error) {
	userID, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return models.User{}, apperrors.ErrInvalidToken
	}

	user, err := s.users.UserByID(ctx, userID, false)
	if err != nil {
		return models.User{}, apperrors.ErrInvalidToken
	}

	return user, nil
}

func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.users.UserByID(ctx, id, false)
}

type UpdateProfileParams struct {
	Email     *string
	FirstName *string
	LastName  *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, arg UpdateProfileParams) (models.User, error) {
	return s.users.UpdateUser(ctx, userID, repository.UpdateUserParams{
		Email:     arg.Email,
		FirstName: arg.FirstName,
		LastName:  arg.LastName,
	})
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
