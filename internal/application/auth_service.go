package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/budgetwise/backend/config"
	"github.com/budgetwise/backend/internal/domain/entity"
	repo "github.com/budgetwise/backend/internal/domain/repository"
	"github.com/budgetwise/backend/pkg/helpers"
	"github.com/budgetwise/backend/pkg/mailer"
	tpl "github.com/budgetwise/backend/pkg/mailer/templates"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

// AuthService implements registration, login and the password-reset flow.
type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
	Cfg    *config.Config
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, pub *helpers.RabbitPublisher, cfg *config.Config) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Logger: logger, Pub: pub, Cfg: cfg}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates the user and their initial default budget (one transaction
// in the repository), then issues a session token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &entity.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if _, err := s.Repo.CreateWithDefaultBudget(ctx, u, entity.DefaultBudgetName); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		s.Logger.WithError(err).WithField("email", in.Email).Error("register failed")
		return nil, "", err
	}

	token, _, err := s.JWT.GenerateSessionToken(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		return nil, "", err
	}
	return u, token, nil
}

// Login validates email/password and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.Logger.WithError(err).Error("login lookup failed")
		return nil, "", err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.JWT.GenerateSessionToken(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		return nil, "", err
	}
	return u, token, nil
}

// ForgotPassword issues a short-lived reset token and persists it with its
// absolute expiry on the user row. It returns nil for unknown emails so the
// endpoint cannot confirm account existence to an anonymous caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("email", email).Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, exp, err := s.JWT.GenerateResetToken(u.ID)
	if err != nil {
		return err
	}
	if err := s.Repo.SetResetToken(ctx, u.ID, token, exp); err != nil {
		return err
	}

	s.enqueueResetEmail(ctx, u, token)
	return nil
}

// ResetPassword verifies the token signature and expiry, then delegates to a
// conditional update that also requires the stored token to match and be
// unexpired. The token is cleared in the same write, so it is single-use.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.JWT.ParseResetToken(token)
	if err != nil {
		return ErrResetTokenInvalid
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.ResetPassword(ctx, claims.UserID, token, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		s.Logger.WithError(err).WithField("user_id", claims.UserID).Error("reset password failed")
		return err
	}
	return nil
}

// GetUser loads the user behind a resolved identity.
func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Delivery must not affect the HTTP response; failures are logged and dropped.
func (s *AuthService) enqueueResetEmail(ctx context.Context, u *entity.User, token string) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	link := s.Cfg.ResetPasswordURL + "?token=" + token
	data := tpl.ResetPasswordData{
		Name:          u.FirstName,
		AppName:       s.Cfg.AppName,
		ResetURL:      link,
		ExpiresInText: fmt.Sprintf("%v", s.Cfg.ResetTTL),
	}
	job := mailer.EmailJob{To: u.Email, Template: "reset_password", Data: data.ToMap()}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue reset email failed")
	}
}
