package authz

import "github.com/tasktribe/tasktribe-api/internal/models"

// Role ranks replace scattered inline allowed-role lists: a single lookup
// table per roster type defines the ordering.
var workspaceRoleRank = map[models.WorkspaceRole]int{
	models.WorkspaceRoleViewer: 0,
	models.WorkspaceRoleMember: 1,
	models.WorkspaceRoleAdmin:  2,
	models.WorkspaceRoleOwner:  3,
}

var projectRoleRank = map[models.ProjectRole]int{
	models.ProjectRoleViewer:      0,
	models.ProjectRoleContributor: 1,
	models.ProjectRoleManager:     2,
}

// ValidWorkspaceRole reports whether r belongs to the closed workspace role set.
func ValidWorkspaceRole(r models.WorkspaceRole) bool {
	_, ok := workspaceRoleRank[r]
	return ok
}

// ValidProjectRole reports whether r belongs to the closed project role set.
func ValidProjectRole(r models.ProjectRole) bool {
	_, ok := projectRoleRank[r]
	return ok
}

// WorkspaceRoleAtLeast reports whether role ranks at or above min. Unknown
// roles rank below everything.
func WorkspaceRoleAtLeast(role, min models.WorkspaceRole) bool {
	r, ok := workspaceRoleRank[role]
	if !ok {
		return false
	}
	m, ok := workspaceRoleRank[min]
	if !ok {
		return false
	}
	return r >= m
}

// ProjectRoleAtLeast reports whether role ranks at or above min.
func ProjectRoleAtLeast(role, min models.ProjectRole) bool {
	r, ok := projectRoleRank[role]
	if !ok {
		return false
	}
	m, ok := projectRoleRank[min]
	if !ok {
		return false
	}
	return r >= m
}

// CanInviteToWorkspace reports whether the caller's role may issue invites.
func CanInviteToWorkspace(role models.WorkspaceRole) bool {
	return WorkspaceRoleAtLeast(role, models.WorkspaceRoleAdmin)
}

// ValidInviteRole reports whether r may be granted through an invite.
// Ownership is never assignable this way.
func ValidInviteRole(r models.WorkspaceRole) bool {
	return ValidWorkspaceRole(r) && r != models.WorkspaceRoleOwner
}
