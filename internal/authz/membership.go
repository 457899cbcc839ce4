// Package authz holds the membership predicates guarding every workspace,
// project and task mutation. The functions are pure: they scan the roster
// already loaded on the entity and perform no I/O. A nil resource is never
// a member (callers must 404 before authorizing).
package authz

import "github.com/tasktribe/tasktribe-api/internal/models"

// IsWorkspaceMember reports whether userID appears in the workspace roster.
func IsWorkspaceMember(ws *models.Workspace, userID uint64) bool {
	if ws == nil {
		return false
	}
	for _, m := range ws.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// WorkspaceRoleOf returns the caller's workspace role, if any.
func WorkspaceRoleOf(ws *models.Workspace, userID uint64) (models.WorkspaceRole, bool) {
	if ws == nil {
		return "", false
	}
	for _, m := range ws.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// HasWorkspaceRole reports whether the caller is a member holding one of the
// allowed roles.
func HasWorkspaceRole(ws *models.Workspace, userID uint64, allowed ...models.WorkspaceRole) bool {
	role, ok := WorkspaceRoleOf(ws, userID)
	if !ok {
		return false
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// IsProjectMember reports whether userID appears in the project roster.
// Task authorization checks this roster only, never the parent workspace's:
// a user removed from the workspace but still listed on the project keeps
// task access.
func IsProjectMember(p *models.Project, userID uint64) bool {
	if p == nil {
		return false
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// ProjectRoleOf returns the caller's project role, if any.
func ProjectRoleOf(p *models.Project, userID uint64) (models.ProjectRole, bool) {
	if p == nil {
		return "", false
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}
