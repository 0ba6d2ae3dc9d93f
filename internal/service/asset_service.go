package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"asset-management-be/internal/dto"
	"asset-management-be/internal/entity"
	"asset-management-be/internal/pkg/logger"
	"asset-management-be/internal/repository/specification"
	"asset-management-be/internal/repository/unitofwork"
	"asset-management-be/pkg/access"
	"asset-management-be/pkg/apperror"
	"asset-management-be/pkg/events"
	"asset-management-be/pkg/fieldschema"
	"asset-management-be/pkg/metrics"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type IAssetService interface {
	List(ctx context.Context, principal *access.Principal, filter *dto.AssetListFilter) (*dto.AssetListResponse, error)
	MyAssets(ctx context.Context, principal *access.Principal, filter *dto.AssetListFilter) (*dto.AssetListResponse, error)
	Show(ctx context.Context, principal *access.Principal, id uuid.UUID) (*dto.AssetResponse, error)
	Create(ctx context.Context, principal *access.Principal, req *dto.AssetRequest) (*dto.AssetResponse, error)
	Update(ctx context.Context, principal *access.Principal, id uuid.UUID, req *dto.AssetRequest) (*dto.AssetResponse, error)
	Delete(ctx context.Context, principal *access.Principal, id uuid.UUID) error
}

type assetService struct {
	uowFactory       unitofwork.RepositoryFactory
	policy           *access.Policy
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewAssetService(
	uowFactory unitofwork.RepositoryFactory,
	policy *access.Policy,
	publisherService IPublisherService,
	logger logger.ILogger,
) IAssetService {
	return &assetService{
		uowFactory:       uowFactory,
		policy:           policy,
		publisherService: publisherService,
		logger:           logger,
	}
}

// visibility returns the filters limiting assets to what principal may see.
// ok is false when principal may see nothing at all.
func (s *assetService) visibility(principal *access.Principal) (specs []specification.Specification, ok bool) {
	switch s.policy.AssetScope(principal) {
	case access.ScopeAll:
		return nil, true
	case access.ScopeOwn:
		return []specification.Specification{specification.OwnedByVendor{VendorID: principal.Id}}, true
	}
	return nil, false
}

func (s *assetService) List(ctx context.Context, principal *access.Principal, filter *dto.AssetListFilter) (*dto.AssetListResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionReadAssets); err != nil {
		return nil, err
	}
	specs, ok := s.visibility(principal)
	return s.list(ctx, specs, ok, filter)
}

func (s *assetService) MyAssets(ctx context.Context, principal *access.Principal, filter *dto.AssetListFilter) (*dto.AssetListResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionReadAssets); err != nil {
		return nil, err
	}
	specs := []specification.Specification{specification.OwnedByVendor{VendorID: principal.Id}}
	return s.list(ctx, specs, true, filter)
}

func (s *assetService) list(ctx context.Context, specs []specification.Specification, visible bool, filter *dto.AssetListFilter) (*dto.AssetListResponse, error) {
	if filter == nil {
		filter = &dto.AssetListFilter{}
	}
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	res := &dto.AssetListResponse{
		Items: make([]*dto.AssetResponse, 0),
		Page:  page,
		Limit: limit,
	}

	if filter.Category != "" {
		categoryId, err := uuid.Parse(filter.Category)
		if err != nil {
			return nil, apperror.Validation("Invalid category filter").WithField("category", "Must be a valid UUID")
		}
		specs = append(specs, specification.Filter("assets.category_id", categoryId))
	}
	if !visible {
		return res, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.AssetRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}
	res.Total = total
	if total == 0 {
		return res, nil
	}

	query := append(specs,
		specification.OrderBy{Field: "assets.created_at", Desc: true},
		specification.Page(page, limit),
	)
	assets, err := uow.AssetRepository().FindAll(ctx, query...)
	if err != nil {
		return nil, err
	}
	for _, a := range assets {
		res.Items = append(res.Items, toAssetResponse(a))
	}
	return res, nil
}

func (s *assetService) Show(ctx context.Context, principal *access.Principal, id uuid.UUID) (*dto.AssetResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionReadAssets); err != nil {
		return nil, err
	}
	specs, ok := s.visibility(principal)
	if !ok {
		return nil, apperror.NotFound("Asset")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	asset, err := uow.AssetRepository().FindOne(ctx, append(specs, specification.ByID{ID: id})...)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, apperror.NotFound("Asset")
	}
	return toAssetResponse(asset), nil
}

func (s *assetService) Create(ctx context.Context, principal *access.Principal, req *dto.AssetRequest) (*dto.AssetResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionWriteAssets); err != nil {
		return nil, err
	}
	name, pairs, err := s.readRequest(req)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	category, err := s.resolveCategory(ctx, uow, req.Category)
	if err != nil {
		return nil, err
	}
	vendor, err := s.resolveVendor(ctx, uow, principal, req.VendorId)
	if err != nil {
		return nil, err
	}

	asset := &entity.Asset{
		Id:         uuid.New(),
		CategoryId: category.Id,
		VendorId:   vendor.Id,
		Name:       name,
		Category:   category,
		Vendor:     vendor,
	}
	fields, err := fieldschema.NewSchema(category).Bind(asset.Id, pairs)
	if err != nil {
		s.rejected("create", principal, err)
		return nil, err
	}
	asset.Fields = fields

	if err := uow.AssetRepository().Create(ctx, asset); err != nil {
		return nil, err
	}
	if err := uow.AssetRepository().CreateFields(ctx, fields); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	emit(ctx, s.publisherService, s.logger, events.AssetCreated, map[string]interface{}{
		"asset_id":    asset.Id,
		"category_id": asset.CategoryId,
		"vendor_id":   asset.VendorId,
		"actor_id":    principal.Id,
	})

	return toAssetResponse(asset), nil
}

// Update replaces name, category and every field value of an asset.
func (s *assetService) Update(ctx context.Context, principal *access.Principal, id uuid.UUID, req *dto.AssetRequest) (*dto.AssetResponse, error) {
	if err := s.policy.Authorize(ctx, principal, access.ActionWriteAssets); err != nil {
		return nil, err
	}
	name, pairs, err := s.readRequest(req)
	if err != nil {
		return nil, err
	}
	specs, _ := s.visibility(principal)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	assets := uow.AssetRepository()
	asset, err := assets.FindOne(ctx, append(specs, specification.ByID{ID: id})...)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, apperror.NotFound("Asset")
	}
	if err := s.policy.AuthorizeAssetOwner(ctx, principal, asset); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, uow, req.Category)
	if err != nil {
		return nil, err
	}
	vendor := asset.Vendor
	if req.VendorId != nil {
		if vendor, err = s.resolveVendor(ctx, uow, principal, req.VendorId); err != nil {
			return nil, err
		}
	}

	fields, err := fieldschema.NewSchema(category).Bind(asset.Id, pairs)
	if err != nil {
		s.rejected("update", principal, err)
		return nil, err
	}

	asset.Name = name
	asset.CategoryId = category.Id
	asset.Category = category
	if vendor != nil {
		asset.VendorId = vendor.Id
		asset.Vendor = vendor
	}
	asset.Fields = fields

	if err := assets.DeleteFieldsByAsset(ctx, asset.Id); err != nil {
		return nil, err
	}
	if err := assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	if err := assets.CreateFields(ctx, fields); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	emit(ctx, s.publisherService, s.logger, events.AssetUpdated, map[string]interface{}{
		"asset_id":    asset.Id,
		"category_id": asset.CategoryId,
		"vendor_id":   asset.VendorId,
		"actor_id":    principal.Id,
	})

	return toAssetResponse(asset), nil
}

func (s *assetService) Delete(ctx context.Context, principal *access.Principal, id uuid.UUID) error {
	if err := s.policy.Authorize(ctx, principal, access.ActionWriteAssets); err != nil {
		return err
	}
	specs, _ := s.visibility(principal)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	asset, err := uow.AssetRepository().FindOne(ctx, append(specs, specification.ByID{ID: id})...)
	if err != nil {
		return err
	}
	if asset == nil {
		return apperror.NotFound("Asset")
	}
	if err := s.policy.AuthorizeAssetOwner(ctx, principal, asset); err != nil {
		return err
	}

	if err := uow.AssetRepository().DeleteFieldsByAsset(ctx, id); err != nil {
		return err
	}
	if err := uow.AssetRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	emit(ctx, s.publisherService, s.logger, events.AssetDeleted, map[string]interface{}{
		"asset_id":    id,
		"category_id": asset.CategoryId,
		"vendor_id":   asset.VendorId,
		"actor_id":    principal.Id,
	})
	return nil
}

// readRequest checks the parts of a write that need no database access.
func (s *assetService) readRequest(req *dto.AssetRequest) (string, []fieldschema.Pair, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", nil, apperror.Validation("Asset name is required").WithField("name", "Asset name is required")
	}

	pairs := make([]fieldschema.Pair, 0, len(req.Fields))
	for _, f := range req.Fields {
		raw, ok := valueString(f.Value)
		if !ok {
			msg := "Invalid value for field " + f.Name + ": must be a string or a number"
			return "", nil, apperror.Validation("%s", msg).WithField(f.Name, msg)
		}
		pairs = append(pairs, fieldschema.Pair{Name: f.Name, Value: raw})
	}
	return name, pairs, nil
}

func (s *assetService) resolveCategory(ctx context.Context, uow unitofwork.UnitOfWork, raw string) (*entity.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		msg := "Category is required to validate fields"
		return nil, apperror.Validation("%s", msg).WithField("category", msg)
	}
	invalid := apperror.Validation("Invalid category").WithField("category", "Invalid category")

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalid
	}
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, invalid
	}
	return category, nil
}

// resolveVendor returns the owner of a new or reassigned asset. Only admins may
// name someone other than themselves, and the target must be an admin or vendor.
func (s *assetService) resolveVendor(ctx context.Context, uow unitofwork.UnitOfWork, principal *access.Principal, vendorId *uuid.UUID) (*entity.User, error) {
	if vendorId == nil || *vendorId == principal.Id {
		return &entity.User{Id: principal.Id, Username: principal.Username, Role: principal.Role}, nil
	}
	if principal.Role != entity.UserRoleAdmin {
		return nil, apperror.PermissionDenied("Only administrators may assign assets to another vendor.")
	}

	vendor, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: *vendorId})
	if err != nil {
		return nil, err
	}
	if vendor == nil || (vendor.Role != entity.UserRoleVendor && vendor.Role != entity.UserRoleAdmin) {
		return nil, apperror.Validation("Invalid vendor").WithField("vendor_id", "Must reference an admin or vendor user")
	}
	return vendor, nil
}

func (s *assetService) rejected(operation string, principal *access.Principal, err error) {
	metrics.AssetFieldRejections.WithLabelValues(operation).Inc()
	details := map[string]interface{}{
		"operation": operation,
		"user_id":   principal.Id.String(),
		"error":     err.Error(),
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		details["fields"] = appErr.Fields
	}
	s.logger.Info("ASSET", "Asset fields rejected", details)
}

// valueString accepts the JSON scalars a form can submit.
func valueString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	}
	return "", false
}

func toAssetResponse(a *entity.Asset) *dto.AssetResponse {
	res := &dto.AssetResponse{
		Id:        a.Id,
		Name:      a.Name,
		VendorId:  a.VendorId,
		Fields:    make([]dto.AssetFieldResponse, 0, len(a.Fields)),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Category != nil {
		res.Category = toCategoryResponse(a.Category)
	}
	if a.Vendor != nil {
		res.VendorName = a.Vendor.Username
	}
	for _, f := range a.Fields {
		field := dto.AssetFieldResponse{
			Id:        f.Id,
			FieldType: string(f.Value.Type),
			Value:     f.Value.Interface(),
		}
		if f.FormField != nil {
			field.FieldName = f.FormField.Name
			field.FieldLabel = f.FormField.Label
		}
		res.Fields = append(res.Fields, field)
	}
	return res
}
