package auth

import "context"

// Permission names stored in the permissions table.
const (
	PermApplyLeave        = "apply_leave"
	PermApproveLeave      = "approve_leave"
	PermManageAllocations = "manage_allocations"
	PermManager           = "manager"
	PermAdmin             = "admin"
)

type PermissionChecker interface {
	CanApplyLeave(userPermissions []string) bool
	CanApproveLeave(userPermissions []string) bool
	CanManageAllocations(userPermissions []string) bool
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	IsManager(userPermissions []string) bool
	IsAdmin(userPermissions []string) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error) {
	return c.HasAnyPermission(userPermissions, []string{permission}), nil
}

func (c *DefaultPermissionChecker) CanApproveLeaveCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanApproveLeave(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanManageAllocationsCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanManageAllocations(userPermissions), nil
}

func (c *DefaultPermissionChecker) IsManagerCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.IsManager(userPermissions), nil
}

func (c *DefaultPermissionChecker) IsAdminCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.IsAdmin(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanApplyLeave(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermApplyLeave, PermAdmin})
}

func (c *DefaultPermissionChecker) CanApproveLeave(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermApproveLeave, PermAdmin})
}

func (c *DefaultPermissionChecker) CanManageAllocations(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermManageAllocations, PermAdmin})
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (c *DefaultPermissionChecker) IsManager(userPermissions []string) bool {
	managerPerms := []string{PermManager, PermAdmin, PermApproveLeave}
	return c.HasAnyPermission(userPermissions, managerPerms)
}

func (c *DefaultPermissionChecker) IsAdmin(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermAdmin})
}
