package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"asset-management-be/internal/dto"
	"asset-management-be/internal/entity"
	"asset-management-be/internal/pkg/logger"
	"asset-management-be/internal/pkg/mailer"
	"asset-management-be/internal/repository/contract"
	"asset-management-be/internal/repository/specification"
	"asset-management-be/internal/repository/unitofwork"
	"asset-management-be/pkg/apperror"
	"asset-management-be/pkg/events"
	"asset-management-be/pkg/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// AuthOptions tunes login throttling and session length.
type AuthOptions struct {
	MaxAttempts     int
	LockoutWindow   time.Duration
	RefreshTokenTTL time.Duration
}

type authService struct {
	uowFactory       unitofwork.RepositoryFactory
	tokens           *token.Manager
	attempts         contract.LoginAttemptRepository
	emailService     mailer.IEmailService
	publisherService IPublisherService
	logger           logger.ILogger
	opts             AuthOptions
	now              func() time.Time
}

// NewAuthService wires authentication. emailService may be nil when SMTP is
// not configured.
func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *token.Manager,
	attempts contract.LoginAttemptRepository,
	emailService mailer.IEmailService,
	publisherService IPublisherService,
	logger logger.ILogger,
	opts AuthOptions,
) IAuthService {
	return &authService{
		uowFactory:       uowFactory,
		tokens:           tokens,
		attempts:         attempts,
		emailService:     emailService,
		publisherService: publisherService,
		logger:           logger,
		opts:             opts,
		now:              time.Now,
	}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	role := entity.UserRoleUser
	if req.Role != "" {
		parsed, err := entity.ParseUserRole(req.Role)
		if err != nil || parsed == entity.UserRoleAdmin {
			return nil, apperror.Validation("Invalid role").WithField("role", "Must be one of: user, vendor")
		}
		role = parsed
	}
	if req.Password != req.Password2 {
		return nil, apperror.Validation("Password fields didn't match.").WithField("password", "Password fields didn't match.")
	}
	username := strings.TrimSpace(req.Username)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		msg := "A user with that username already exists."
		return nil, apperror.Validation("%s", msg).WithField("username", msg)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Username:     username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CompanyName:  req.CompanyName,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.emailService != nil && user.Email != "" {
		go s.emailService.SendWelcome(user.Email, user.Username, string(user.Role))
	}
	emit(ctx, s.publisherService, s.logger, events.UserRegistered, map[string]interface{}{
		"user_id":  user.Id,
		"username": user.Username,
		"role":     string(user.Role),
	})

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	key := strings.ToLower(strings.TrimSpace(req.Username))

	failures, err := s.attempts.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if failures >= s.opts.MaxAttempts {
		s.logger.Warn("AUTH", "Login locked out", map[string]interface{}{
			"username": key,
			"ip":       ipAddress,
		})
		return nil, apperror.TooManyAttempts("Too many failed login attempts. Try again later.")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: strings.TrimSpace(req.Username)})
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, s.failLogin(ctx, key, ipAddress)
	}

	if err := s.attempts.Reset(ctx, key); err != nil {
		return nil, err
	}

	access, _, err := s.tokens.IssueAccess(user.Id, string(user.Role))
	if err != nil {
		return nil, err
	}

	rawRefreshToken := uuid.New().String()
	refreshTokenEntity := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(rawRefreshToken),
		ExpiresAt: s.now().Add(s.opts.RefreshTokenTTL),
		CreatedAt: s.now(),
		IpAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, refreshTokenEntity); err != nil {
		return nil, err
	}

	emit(ctx, s.publisherService, s.logger, events.UserLogin, map[string]interface{}{
		"user_id": user.Id,
		"device":  userAgent,
	})

	return &dto.LoginResponse{
		Access:  access,
		Refresh: rawRefreshToken,
		User:    *toUserResponse(user),
	}, nil
}

func (s *authService) failLogin(ctx context.Context, key, ipAddress string) error {
	n, err := s.attempts.Increment(ctx, key, s.opts.LockoutWindow)
	if err != nil {
		return err
	}
	s.logger.Warn("AUTH", "Failed login", map[string]interface{}{
		"username": key,
		"ip":       ipAddress,
		"attempts": n,
	})
	if n >= s.opts.MaxAttempts {
		return apperror.TooManyAttempts("Too many failed login attempts. Try again later.")
	}
	return apperror.Authentication("Invalid credentials")
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error) {
	invalid := apperror.Authentication("Invalid or expired refresh token")

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.UserRepository().FindRefreshToken(ctx,
		specification.ByTokenHash{Hash: hashToken(req.Refresh)},
		specification.NotRevoked{},
	)
	if err != nil {
		return nil, err
	}
	if stored == nil || !stored.ExpiresAt.After(s.now()) {
		return nil, invalid
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: stored.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid
	}

	access, _, err := s.tokens.IssueAccess(user.Id, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Access: access}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().RevokeRefreshToken(ctx, hashToken(refreshToken))
}
