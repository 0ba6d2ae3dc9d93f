// Package access holds the role-based authorization rules for assets,
// categories and users.
package access

import (
	"context"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/pkg/logger"
	"asset-management-be/pkg/apperror"

	"github.com/google/uuid"
)

// Principal is the authenticated caller.
type Principal struct {
	Id       uuid.UUID
	Username string
	Role     entity.UserRole
}

type Action string

const (
	ActionReadAssets      Action = "asset:read"
	ActionWriteAssets     Action = "asset:write"
	ActionReadCategories  Action = "category:read"
	ActionWriteCategories Action = "category:write"
	ActionListUsers       Action = "user:list"
	ActionDeleteUsers     Action = "user:delete"
	ActionChangeRole      Action = "user:change-role"
)

// AssetScope is the set of assets a principal may see.
type AssetScope int

const (
	ScopeNone AssetScope = iota
	ScopeOwn
	ScopeAll
)

var matrix = map[Action]map[entity.UserRole]bool{
	ActionReadAssets:      {entity.UserRoleAdmin: true, entity.UserRoleVendor: true, entity.UserRoleUser: true},
	ActionWriteAssets:     {entity.UserRoleAdmin: true, entity.UserRoleVendor: true},
	ActionReadCategories:  {entity.UserRoleAdmin: true, entity.UserRoleVendor: true, entity.UserRoleUser: true},
	ActionWriteCategories: {entity.UserRoleAdmin: true},
	ActionListUsers:       {entity.UserRoleAdmin: true},
	ActionDeleteUsers:     {entity.UserRoleAdmin: true},
	ActionChangeRole:      {entity.UserRoleAdmin: true},
}

type Policy struct {
	logger logger.ILogger
}

func NewPolicy(logger logger.ILogger) *Policy {
	return &Policy{logger: logger}
}

// Authorize returns nil when principal may perform action. Any other outcome,
// including a missing principal or an unknown role or action, is a logged
// PermissionDenied.
func (p *Policy) Authorize(ctx context.Context, principal *Principal, action Action) error {
	if principal == nil {
		return p.deny(nil, action, "no principal")
	}
	if !principal.Role.Valid() {
		return p.deny(principal, action, "unknown role")
	}
	allowed, known := matrix[action]
	if !known {
		return p.deny(principal, action, "unknown action")
	}
	if !allowed[principal.Role] {
		return p.deny(principal, action, "role not permitted")
	}
	return nil
}

// AssetScope reports which assets principal may see.
func (p *Policy) AssetScope(principal *Principal) AssetScope {
	if principal == nil {
		return ScopeNone
	}
	switch principal.Role {
	case entity.UserRoleAdmin:
		return ScopeAll
	case entity.UserRoleVendor:
		return ScopeOwn
	case entity.UserRoleUser:
		return ScopeNone
	}
	return ScopeNone
}

// AuthorizeAssetOwner is the object-level check for asset writes: admins may
// touch any asset, vendors only their own.
func (p *Policy) AuthorizeAssetOwner(ctx context.Context, principal *Principal, asset *entity.Asset) error {
	if err := p.Authorize(ctx, principal, ActionWriteAssets); err != nil {
		return err
	}
	if principal.Role == entity.UserRoleAdmin {
		return nil
	}
	if asset.VendorId != principal.Id {
		return p.deny(principal, ActionWriteAssets, "not the asset owner")
	}
	return nil
}

func (p *Policy) deny(principal *Principal, action Action, reason string) error {
	details := map[string]interface{}{
		"action": string(action),
		"reason": reason,
	}
	if principal != nil {
		details["user_id"] = principal.Id.String()
		details["role"] = string(principal.Role)
	}
	p.logger.Warn("ACCESS", "Permission denied", details)

	if action == ActionWriteAssets && reason == "not the asset owner" {
		return apperror.PermissionDenied("You do not have permission to modify this asset.")
	}
	return apperror.PermissionDenied("You do not have permission to perform this action.")
}
