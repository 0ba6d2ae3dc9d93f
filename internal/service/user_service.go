package service

import (
	"context"

	"asset-management-be/internal/dto"
	"asset-management-be/internal/entity"
	"asset-management-be/internal/pkg/logger"
	"asset-management-be/internal/repository/specification"
	"asset-management-be/internal/repository/unitofwork"
	"asset-management-be/pkg/access"
	"asset-management-be/pkg/apperror"
	"asset-management-be/pkg/events"

	"github.com/google/uuid"
)

type IUserService interface {
	// ResolvePrincipal loads the caller behind a verified token.
	ResolvePrincipal(ctx context.Context, userId uuid.UUID) (*access.Principal, error)
	Me(ctx context.Context, principal *access.Principal) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, principal *access.Principal, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context, principal *access.Principal) ([]*dto.UserResponse, error)
	Show(ctx context.Context, principal *access.Principal, id uuid.UUID) (*dto.UserResponse, error)
	Update(ctx context.Context, principal *access.Principal, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, principal *access.Principal, id uuid.UUID) error
}

type userService struct {
	uowFactory       unitofwork.RepositoryFactory
	policy           *access.Policy
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	policy *access.Policy,
	publisherService IPublisherService,
	logger logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:       uowFactory,
		policy:           policy,
		publisherService: publisherService,
		logger:           logger,
	}
}

func (s *userService) ResolvePrincipal(ctx context.Context, userId uuid.UUID) (*access.Principal, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Authentication("User no longer exists")
	}
	if !user.Role.Valid() {
		return nil, apperror.Authentication("User has no valid role")
	}
	return &access.Principal{Id: user.Id, Username: user.Username, Role: user.Role}, nil
}

func (s *userService) Me(ctx context.Context, principal *access.Principal) (*dto.UserResponse, error) {
	return s.Show(ctx, principal, principal.Id)
}

func (s *userService) UpdateMe(ctx context.Context, principal *access.Principal, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return s.Update(ctx, principal, principal.Id, req)
}

func (s *userService) List(ctx context.Context, principal *access.Principal) ([]*dto.UserResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionListUsers); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx, specification.OrderBy{Field: "username"})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserResponse(u))
	}
	return result, nil
}

// Show gives admins any profile and everyone else their own.
func (s *userService) Show(ctx context.Context, principal *access.Principal, id uuid.UUID) (*dto.UserResponse, error) {
	if !s.canSee(principal, id) {
		return nil, apperror.NotFound("User")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User")
	}
	return toUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, principal *access.Principal, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !s.canSee(principal, id) {
		return nil, apperror.NotFound("User")
	}

	var role entity.UserRole
	if req.Role != nil {
		if err := s.policy.Authorize(ctx, principal, access.ActionChangeRole); err != nil {
			return nil, apperror.PermissionDenied("You do not have permission to change roles")
		}
		parsed, err := entity.ParseUserRole(*req.Role)
		if err != nil {
			return nil, apperror.Validation("Invalid role").WithField("role", err.Error())
		}
		role = parsed
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User")
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.CompanyName != nil {
		user.CompanyName = *req.CompanyName
	}
	if role != "" && role != user.Role {
		s.logger.Info("USER", "Role changed", map[string]interface{}{
			"user_id":  user.Id.String(),
			"from":     string(user.Role),
			"to":       string(role),
			"actor_id": principal.Id.String(),
		})
		user.Role = role
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, principal *access.Principal, id uuid.UUID) error {
	if err := s.policy.Authorize(ctx, principal, access.ActionDeleteUsers); err != nil {
		return err
	}
	if principal.Id == id {
		return apperror.Validation("You cannot delete your own account")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("User")
	}

	owned, err := uow.AssetRepository().Count(ctx, specification.OwnedByVendor{VendorID: id})
	if err != nil {
		return err
	}
	if owned > 0 {
		return apperror.ReferentialConflict("Cannot delete user %q: %d asset(s) still belong to them", user.Username, owned)
	}

	if err := uow.UserRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	emit(ctx, s.publisherService, s.logger, events.UserDeleted, map[string]interface{}{
		"user_id":  id,
		"username": user.Username,
		"actor_id": principal.Id,
	})
	return nil
}

func (s *userService) canSee(principal *access.Principal, id uuid.UUID) bool {
	if principal == nil {
		return false
	}
	return principal.Role == entity.UserRoleAdmin || principal.Id == id
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:          u.Id,
		Username:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		CompanyName: u.CompanyName,
		CreatedAt:   u.CreatedAt,
	}
}
