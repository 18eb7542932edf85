// Package services contains the business logic of the development backend.
// IdentityService plays the identity provider: accounts, sessions and
// password reset. DocumentService plays the document store.
package services

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/eclinic/internal/common"
	"github.com/dmitrijs2005/eclinic/internal/cryptox"
	"github.com/dmitrijs2005/eclinic/internal/logging"
	"github.com/dmitrijs2005/eclinic/internal/server/auth"
	"github.com/dmitrijs2005/eclinic/internal/server/config"
	"github.com/dmitrijs2005/eclinic/internal/server/mail"
	"github.com/dmitrijs2005/eclinic/internal/server/models"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/documents"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/users"
)

// MinPasswordLength is the shortest password Register and
// ConfirmPasswordReset accept.
const MinPasswordLength = 6

const resetTokenBytes = 32

type IdentityService struct {
	users     UserStore
	documents documents.Repository
	tokens    tokens.Repository
	mailer    mail.Mailer
	logger    logging.Logger

	jwtSecret      []byte
	accessTokenTTL time.Duration
	resetTokenTTL  time.Duration
	resetLinkBase  string

	// dummyHash is verified against when the email is unknown so both
	// branches of SignIn cost one argon2 derivation.
	dummySalt []byte
	dummyHash []byte
}

func NewIdentityService(us UserStore, docs documents.Repository, tr tokens.Repository, m mail.Mailer, logger logging.Logger, cfg *config.Config) *IdentityService {
	salt := cryptox.NewSalt()
	return &IdentityService{
		users:          us,
		documents:      docs,
		tokens:         tr,
		mailer:         m,
		logger:         logger.With("module", "identity"),
		jwtSecret:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenValidityDuration,
		resetTokenTTL:  cfg.ResetTokenValidityDuration,
		resetLinkBase:  cfg.ResetLinkBase,
		dummySalt:      salt,
		dummyHash:      cryptox.HashPassword([]byte("eclinic"), salt),
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates the account and its empty users document, and returns
// the new user id. The user row is rolled back when the document cannot be
// written.
func (s *IdentityService) Register(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}

	salt := cryptox.NewSalt()
	user := &models.User{
		Email:        email,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
		Salt:         salt,
	}

	var created *models.User
	err := s.users.InTx(ctx, func(ctx context.Context, repo users.Repository) error {
		u, err := repo.Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrEmailInUse
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		if err := s.documents.Put(ctx, common.UsersCollection, u.ID, map[string]any{}); err != nil {
			return fmt.Errorf("error creating user document: %w", err)
		}
		created = u
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created.ID, nil
}

// SignIn verifies the credentials and issues an access token.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	email = NormalizeEmail(email)

	user, err := s.users.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword([]byte(password), s.dummySalt, s.dummyHash)
			return models.Session{}, ErrInvalidCredentials
		}
		return models.Session{}, fmt.Errorf("error loading user: %w", err)
	}

	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return models.Session{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return models.Session{}, fmt.Errorf("error generating token: %w", err)
	}
	if err := s.tokens.TrackSession(ctx, user.ID, token.ID, token.ExpiresAt); err != nil {
		return models.Session{}, fmt.Errorf("error tracking session: %w", err)
	}

	return models.Session{UserID: user.ID, AccessToken: token.Value}, nil
}

// Authenticate validates an access token and rejects revoked ones.
func (s *IdentityService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking revocation: %w", err)
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	return claims, nil
}

// SignOut revokes the token described by claims until it would have expired.
func (s *IdentityService) SignOut(ctx context.Context, claims *auth.Claims) error {
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// SendPasswordReset mails a single-use reset link. Unknown addresses succeed
// silently so the endpoint does not reveal which accounts exist.
func (s *IdentityService) SendPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := s.users.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "password reset for unknown email")
			return nil
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}

	if err := s.tokens.SaveResetToken(ctx, token, user.ID, s.resetTokenTTL); err != nil {
		return fmt.Errorf("error saving reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, s.resetLink(token)); err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}

	return nil
}

func (s *IdentityService) resetLink(token string) string {
	sep := "?"
	if strings.Contains(s.resetLinkBase, "?") {
		sep = "&"
	}
	return s.resetLinkBase + sep + "token=" + url.QueryEscape(token)
}

// ConfirmPasswordReset consumes token, replaces the owner's password and
// revokes every session issued before the change.
func (s *IdentityService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	userID, err := s.tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("error consuming reset token: %w", err)
	}

	salt := cryptox.NewSalt()
	hash := cryptox.HashPassword([]byte(newPassword), salt)
	if err := s.users.Users().UpdatePassword(ctx, userID, hash, salt); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("error updating password: %w", err)
	}

	// The new password is already stored, so a failure here is logged
	// rather than reported as a failed reset.
	if err := s.tokens.RevokeUserSessions(ctx, userID); err != nil {
		s.logger.Error(ctx, "revoking sessions after password reset failed", "user_id", userID, "error", err)
	}

	s.logger.Info(ctx, "password reset", "user_id", userID)
	return nil
}
