package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/middleware/auth"
	"yamdb/internal/shared"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const confirmationSubject = "YaMDb confirmation code"

type AuthService interface {
	Signup(ctx context.Context, username, email string) (*models.User, error)
	ObtainToken(ctx context.Context, username, code string) (string, error)
}

type authService struct {
	userRepo  repository.UserRepository
	usernames *UsernameValidator
	codes     auth.CodeGenerator
	signer    auth.TokenSigner
	notifier  Notifier
	limiter   SignupLimiter
	opts      Options
	log       *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes auth.CodeGenerator,
	signer auth.TokenSigner,
	notifier Notifier,
	limiter SignupLimiter,
	opts Options,
	log *zap.Logger,
) (AuthService, error) {
	usernames, err := NewUsernameValidator(opts.UsernameForbiddenPatterns)
	if err != nil {
		return nil, err
	}
	if opts.ConfirmationCodeLength <= 0 {
		return nil, errors.New("confirmation code length must be positive")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		userRepo:  userRepo,
		usernames: usernames,
		codes:     codes,
		signer:    signer,
		notifier:  notifier,
		limiter:   limiter,
		opts:      opts,
		log:       log.Named("auth"),
	}, nil
}

// Signup registers a pending user or, for a known (username, email) pair,
// issues a fresh confirmation code. The code is persisted before delivery is
// attempted; a delivery failure is logged and does not fail the call.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if err := s.usernames.Validate(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := s.throttle(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.resolveSignupUser(ctx, username, email)
	if err != nil {
		return nil, err
	}

	code, err := s.codes.Generate(s.opts.ConfirmationCodeLength)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}

	if user.ID == "" {
		user.ConfirmationCode = hash
		err = s.userRepo.Create(ctx, user)
	} else {
		err = s.userRepo.SwapConfirmationCode(ctx, user.ID, user.ConfirmationCode, hash)
		if err == nil {
			user.ConfirmationCode = hash
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrStaleCode) {
			return nil, &ConflictError{Field: "username", Message: "a confirmation code was just issued for this user, try again"}
		}
		if isDuplicate(err) {
			field := conflictField(err, "username")
			return nil, &ConflictError{Field: field, Message: fmt.Sprintf("a user with that %s already exists", field)}
		}
		return nil, err
	}

	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := s.notifier.Send(ctx, user.Email, confirmationSubject, body); err != nil {
		s.log.Warn("confirmation code delivery failed",
			zap.String("username", user.Username), zap.Error(err))
	}
	return user, nil
}

// resolveSignupUser returns the existing user for an exact (username, email)
// match, a new unsaved user when neither is taken, or a ConflictError.
func (s *authService) resolveSignupUser(ctx context.Context, username, email string) (*models.User, error) {
	byName, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if byName != nil {
		if byName.Email == email {
			return byName, nil
		}
		return nil, &ConflictError{Field: "username", Message: "a user with that username already exists"}
	}

	byEmail, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if byEmail != nil {
		return nil, &ConflictError{Field: "email", Message: "a user with that email already exists"}
	}
	return &models.User{Username: username, Email: email, Role: models.RoleUser}, nil
}

// throttle fails open when the limiter store is unreachable.
func (s *authService) throttle(ctx context.Context, email string) error {
	if s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, "signup:"+email)
	if err != nil {
		s.log.Warn("signup throttle unavailable", zap.Error(err))
		return nil
	}
	if !ok {
		return ErrThrottled
	}
	return nil
}

// ObtainToken exchanges a valid confirmation code for an access token. With
// single-use codes the stored hash is cleared by a conditional update before
// the token is issued, so concurrent exchanges of one code yield one token.
func (s *authService) ObtainToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", notFound("user", err)
	}
	if !auth.VerifyCode(user.ConfirmationCode, code) {
		return "", ErrInvalidCredentials
	}

	if s.opts.ConfirmationCodeSingleUse {
		if err := s.userRepo.SwapConfirmationCode(ctx, user.ID, user.ConfirmationCode, ""); err != nil {
			if errors.Is(err, repository.ErrStaleCode) {
				return "", ErrInvalidCredentials
			}
			return "", fmt.Errorf("rotate confirmation code: %w", err)
		}
		user.ConfirmationCode = ""
	}

	return s.signer.Issue(shared.AuthClaims{UserID: user.ID, UserName: user.Username})
}
