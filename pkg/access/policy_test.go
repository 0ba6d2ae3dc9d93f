package access

import (
	"context"
	"testing"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/pkg/logger"
	"asset-management-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func principal(role entity.UserRole) *Principal {
	return &Principal{Id: uuid.New(), Username: string(role), Role: role}
}

func TestAuthorizeMatrix(t *testing.T) {
	p := NewPolicy(logger.NewNopLogger())
	ctx := context.Background()

	tests := []struct {
		role    entity.UserRole
		action  Action
		allowed bool
	}{
		{entity.UserRoleAdmin, ActionWriteCategories, true},
		{entity.UserRoleVendor, ActionWriteCategories, false},
		{entity.UserRoleUser, ActionWriteCategories, false},
		{entity.UserRoleUser, ActionReadCategories, true},
		{entity.UserRoleVendor, ActionWriteAssets, true},
		{entity.UserRoleUser, ActionWriteAssets, false},
		{entity.UserRoleUser, ActionReadAssets, true},
		{entity.UserRoleVendor, ActionListUsers, false},
		{entity.UserRoleAdmin, ActionDeleteUsers, true},
		{entity.UserRoleVendor, ActionChangeRole, false},
		{entity.UserRoleAdmin, Action("asset:explode"), false},
		{entity.UserRole("superuser"), ActionReadAssets, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+" "+string(tt.action), func(t *testing.T) {
			err := p.Authorize(ctx, principal(tt.role), tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
			}
		})
	}
}

func TestAuthorizeWithoutPrincipal(t *testing.T) {
	p := NewPolicy(logger.NewNopLogger())
	err := p.Authorize(context.Background(), nil, ActionReadAssets)
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
}

func TestAssetScope(t *testing.T) {
	p := NewPolicy(logger.NewNopLogger())
	assert.Equal(t, ScopeAll, p.AssetScope(principal(entity.UserRoleAdmin)))
	assert.Equal(t, ScopeOwn, p.AssetScope(principal(entity.UserRoleVendor)))
	assert.Equal(t, ScopeNone, p.AssetScope(principal(entity.UserRoleUser)))
	assert.Equal(t, ScopeNone, p.AssetScope(nil))
}

func TestAuthorizeAssetOwner(t *testing.T) {
	p := NewPolicy(logger.NewNopLogger())
	ctx := context.Background()
	vendor := principal(entity.UserRoleVendor)
	other := principal(entity.UserRoleVendor)
	asset := &entity.Asset{Id: uuid.New(), VendorId: vendor.Id}

	assert.NoError(t, p.AuthorizeAssetOwner(ctx, vendor, asset))
	assert.NoError(t, p.AuthorizeAssetOwner(ctx, principal(entity.UserRoleAdmin), asset))

	err := p.AuthorizeAssetOwner(ctx, other, asset)
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
	assert.Equal(t, "You do not have permission to modify this asset.", err.Error())

	err = p.AuthorizeAssetOwner(ctx, principal(entity.UserRoleUser), asset)
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
}
