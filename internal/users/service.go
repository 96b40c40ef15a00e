package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/fitjournal/internal/avatars"
	"github.com/2beens/fitjournal/internal/telemetry/metrics"
	"github.com/2beens/fitjournal/internal/telemetry/tracing"
	"github.com/2beens/fitjournal/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

var ErrWrongCredentials = errors.New("wrong credentials")

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=users_test

type usersRepo interface {
	CreateUser(ctx context.Context, user User, avatar string) (*UserProfile, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetUserProfile(ctx context.Context, userID int) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) error
}

type sessionService interface {
	Login(ctx context.Context, userID int, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type avatarStore interface {
	Save(ctx context.Context, originalName string, src io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

type Service struct {
	repo     usersRepo
	sessions sessionService
	avatars  avatarStore
	metrics  *metrics.Manager
}

func NewService(
	repo usersRepo,
	sessions sessionService,
	avatarStore avatarStore,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		avatars:  avatarStore,
		metrics:  metricsManager,
	}
}

// Register creates the user with its profile and logs them in, returning the session token.
func (s *Service) Register(ctx context.Context, req RegisterRequest, avatar *Upload) (_ string, _ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := pkg.Validate(req); err != nil {
		return "", nil, err
	}

	passwordHash, err := pkg.HashPassword(req.Password1)
	if err != nil {
		// max=72 counts characters, multibyte passwords can still be too long
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", nil, pkg.NewValidationError("password1", "ensure this value has at most 72 bytes")
		}
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	avatarName := avatars.DefaultAvatar
	if avatar != nil {
		avatarName, err = s.avatars.Save(ctx, avatar.Filename, avatar.File)
		if err != nil {
			return "", nil, fmt.Errorf("save avatar: %w", err)
		}
	}

	up, err := s.repo.CreateUser(ctx, User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}, avatarName)
	if err != nil {
		s.discardAvatar(ctx, avatar, avatarName)
		return "", nil, err
	}

	s.metrics.CounterRegistrations.Inc()
	span.SetAttributes(attribute.Int("user-id", up.User.ID))

	token, err := s.sessions.Login(ctx, up.User.ID, time.Now())
	if err != nil {
		return "", nil, fmt.Errorf("login after register: %w", err)
	}

	return token, up, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.login")
	defer func() {
		if errors.Is(err, ErrWrongCredentials) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Tracef("[username] failed login attempt for user: %s", req.Username)
			s.metrics.CounterLogins.WithLabelValues("wrong_credentials").Inc()
			return "", ErrWrongCredentials
		}
		return "", err
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", req.Username)
		s.metrics.CounterLogins.WithLabelValues("wrong_credentials").Inc()
		return "", ErrWrongCredentials
	}

	token, err := s.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	s.metrics.CounterLogins.WithLabelValues("ok").Inc()
	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	return s.sessions.Logout(ctx, token)
}

func (s *Service) Me(ctx context.Context, userID int) (*UserProfile, error) {
	return s.repo.GetUserProfile(ctx, userID)
}

// EditProfile updates the name and email fields and, when given, replaces the avatar.
func (s *Service) EditProfile(ctx context.Context, userID int, req EditProfileRequest, avatar *Upload) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.editProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if err := pkg.Validate(req); err != nil {
		return nil, err
	}

	current, err := s.repo.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	update := ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if avatar != nil {
		newAvatar, err := s.avatars.Save(ctx, avatar.Filename, avatar.File)
		if err != nil {
			return nil, fmt.Errorf("save avatar: %w", err)
		}
		update.Avatar = &newAvatar
	}

	if err := s.repo.UpdateProfile(ctx, userID, update); err != nil {
		if update.Avatar != nil {
			s.discardAvatar(ctx, avatar, *update.Avatar)
		}
		return nil, err
	}

	if update.Avatar != nil {
		s.discardAvatar(ctx, avatar, current.Profile.Avatar)
		current.Profile.Avatar = *update.Avatar
	}
	current.User.FirstName = update.FirstName
	current.User.LastName = update.LastName
	current.User.Email = update.Email

	return current, nil
}

func (s *Service) discardAvatar(ctx context.Context, avatar *Upload, name string) {
	if avatar == nil || name == avatars.DefaultAvatar {
		return
	}
	if err := s.avatars.Delete(ctx, name); err != nil && !errors.Is(err, avatars.ErrAvatarNotFound) {
		log.Errorf("discard avatar %s: %s", name, err)
	}
}
