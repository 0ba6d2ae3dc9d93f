package service

import (
	"context"
	"fmt"
	"strings"

	"asset-management-be/internal/dto"
	"asset-management-be/internal/entity"
	"asset-management-be/internal/pkg/logger"
	"asset-management-be/internal/repository/contract"
	"asset-management-be/internal/repository/specification"
	"asset-management-be/internal/repository/unitofwork"
	"asset-management-be/pkg/access"
	"asset-management-be/pkg/apperror"
	"asset-management-be/pkg/events"
	"asset-management-be/pkg/fieldschema"

	"github.com/google/uuid"
)

type ICategoryService interface {
	List(ctx context.Context, principal *access.Principal) ([]*dto.CategoryResponse, error)
	Show(ctx context.Context, principal *access.Principal, id uuid.UUID) (*dto.CategoryResponse, error)
	Create(ctx context.Context, principal *access.Principal, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, principal *access.Principal, id uuid.UUID, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, principal *access.Principal, id uuid.UUID) error
}

type categoryService struct {
	uowFactory       unitofwork.RepositoryFactory
	policy           *access.Policy
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewCategoryService(
	uowFactory unitofwork.RepositoryFactory,
	policy *access.Policy,
	publisherService IPublisherService,
	logger logger.ILogger,
) ICategoryService {
	return &categoryService{
		uowFactory:       uowFactory,
		policy:           policy,
		publisherService: publisherService,
		logger:           logger,
	}
}

func (s *categoryService) List(ctx context.Context, principal *access.Principal) ([]*dto.CategoryResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionReadCategories); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	categories, err := uow.CategoryRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, toCategoryResponse(c))
	}
	return result, nil
}

func (s *categoryService) Show(ctx context.Context, principal *access.Principal, id uuid.UUID) (*dto.CategoryResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionReadCategories); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NotFound("Category")
	}
	return toCategoryResponse(category), nil
}

func (s *categoryService) Create(ctx context.Context, principal *access.Principal, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionWriteCategories); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("Category name is required").WithField("name", "Category name is required")
	}
	specs := toFieldSpecs(req.Fields)
	if err := fieldschema.ValidateSpecs(specs); err != nil {
		return nil, err
	}

	category := &entity.Category{
		Id:   uuid.New(),
		Name: name,
	}
	category.Fields = fieldschema.BuildFields(category.Id, specs)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.CategoryRepository().Create(ctx, category); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	emit(ctx, s.publisherService, s.logger, events.CategoryCreated, map[string]interface{}{
		"category_id": category.Id,
		"name":        category.Name,
		"fields":      len(category.Fields),
		"actor_id":    principal.Id,
	})

	return toCategoryResponse(category), nil
}

func (s *categoryService) Update(ctx context.Context, principal *access.Principal, id uuid.UUID, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionWriteCategories); err != nil {
		return nil, err
	}

	var specs []fieldschema.FieldSpec
	if req.Fields != nil {
		specs = toFieldSpecs(*req.Fields)
		if err := fieldschema.ValidateSpecs(specs); err != nil {
			return nil, err
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	categories := uow.CategoryRepository()
	category, err := categories.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NotFound("Category")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("Category name is required").WithField("name", "Category name is required")
		}
		category.Name = name
		if err := categories.Update(ctx, category); err != nil {
			return nil, err
		}
	}

	var plan *fieldschema.Plan
	if req.Fields != nil {
		plan = fieldschema.PlanReconcile(category.Id, category.Fields, specs)
		if err := s.applyPlan(ctx, categories, uow.AssetRepository(), plan); err != nil {
			return nil, err
		}
	}

	updated, err := categories.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"category_id": id,
		"name":        updated.Name,
		"actor_id":    principal.Id,
	}
	if plan != nil {
		data["fields_created"] = len(plan.Creates)
		data["fields_updated"] = len(plan.Updates)
		data["fields_removed"] = len(plan.Removals)
	}
	emit(ctx, s.publisherService, s.logger, events.CategoryUpdated, data)

	return toCategoryResponse(updated), nil
}

// applyPlan removes before it writes. A removed field that still carries asset
// values is retired so those values stay readable; otherwise it is deleted.
func (s *categoryService) applyPlan(ctx context.Context, categories contract.CategoryRepository, assets contract.AssetRepository, plan *fieldschema.Plan) error {
	for _, f := range plan.Removals {
		refs, err := assets.CountFieldsByFormField(ctx, f.Id)
		if err != nil {
			return err
		}
		if refs > 0 {
			if err := categories.RetireField(ctx, f.Id); err != nil {
				return err
			}
			s.logger.Info("CATEGORY", "Form field retired", map[string]interface{}{
				"category_id": f.CategoryId.String(),
				"field":       f.Name,
				"references":  refs,
			})
			continue
		}
		if err := categories.DeleteField(ctx, f.Id); err != nil {
			return err
		}
	}
	for _, f := range plan.Updates {
		if err := categories.UpdateField(ctx, f); err != nil {
			return err
		}
	}
	for _, f := range plan.Creates {
		if err := categories.CreateField(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, principal *access.Principal, id uuid.UUID) error {
	if err := s.policy.Authorize(ctx, principal, access.ActionWriteCategories); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NotFound("Category")
	}

	inUse, err := uow.AssetRepository().Count(ctx, specification.ByCategoryID{CategoryID: id})
	if err != nil {
		return err
	}
	if inUse > 0 {
		return apperror.ReferentialConflict("Cannot delete category %q: %d asset(s) still use it", category.Name, inUse)
	}

	if err := uow.CategoryRepository().DeleteFieldsByCategory(ctx, id); err != nil {
		return err
	}
	if err := uow.CategoryRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit category delete: %w", err)
	}

	emit(ctx, s.publisherService, s.logger, events.CategoryDeleted, map[string]interface{}{
		"category_id": id,
		"name":        category.Name,
		"actor_id":    principal.Id,
	})
	return nil
}

func toFieldSpecs(fields []dto.FormFieldRequest) []fieldschema.FieldSpec {
	specs := make([]fieldschema.FieldSpec, 0, len(fields))
	for _, f := range fields {
		specs = append(specs, fieldschema.FieldSpec{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
			Order:    f.Order,
		})
	}
	return specs
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	res := &dto.CategoryResponse{
		Id:        c.Id,
		Name:      c.Name,
		Fields:    make([]dto.FormFieldResponse, 0, len(c.Fields)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	fields := make([]*entity.FormField, 0, len(c.Fields))
	for _, f := range c.Fields {
		if !f.IsRetired() {
			fields = append(fields, f)
		}
	}
	fieldschema.SortFields(fields)
	for _, f := range fields {
		res.Fields = append(res.Fields, dto.FormFieldResponse{
			Id:       f.Id,
			Name:     f.Name,
			Label:    f.Label,
			Type:     string(f.Type),
			Required: f.Required,
			Order:    f.Order,
		})
	}
	return res
}
