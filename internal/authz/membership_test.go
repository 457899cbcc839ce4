package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tasktribe/tasktribe-api/internal/models"
)

func TestIsWorkspaceMember(t *testing.T) {
	ws := &models.Workspace{
		Members: []models.WorkspaceMember{
			{UserID: 1, Role: models.WorkspaceRoleOwner},
			{UserID: 2, Role: models.WorkspaceRoleMember},
		},
	}

	require.True(t, IsWorkspaceMember(ws, 1))
	require.True(t, IsWorkspaceMember(ws, 2))
	require.False(t, IsWorkspaceMember(ws, 3))
	require.False(t, IsWorkspaceMember(nil, 1))
}

func TestWorkspaceRoleOf(t *testing.T) {
	ws := &models.Workspace{
		Members: []models.WorkspaceMember{
			{UserID: 1, Role: models.WorkspaceRoleAdmin},
		},
	}

	role, ok := WorkspaceRoleOf(ws, 1)
	require.True(t, ok)
	require.Equal(t, models.WorkspaceRoleAdmin, role)

	_, ok = WorkspaceRoleOf(ws, 99)
	require.False(t, ok)
}

// A user kept on a project roster retains task access even after leaving
// the parent workspace; the project roster is the only input.
func TestIsProjectMemberIgnoresWorkspace(t *testing.T) {
	p := &models.Project{
		Members: []models.ProjectMember{
			{UserID: 5, Role: models.ProjectRoleContributor},
		},
	}

	require.True(t, IsProjectMember(p, 5))
	require.False(t, IsProjectMember(p, 6))
	require.False(t, IsProjectMember(nil, 5))
}

func TestWorkspaceRoleAtLeast(t *testing.T) {
	cases := []struct {
		role models.WorkspaceRole
		min  models.WorkspaceRole
		want bool
	}{
		{models.WorkspaceRoleOwner, models.WorkspaceRoleAdmin, true},
		{models.WorkspaceRoleAdmin, models.WorkspaceRoleAdmin, true},
		{models.WorkspaceRoleMember, models.WorkspaceRoleAdmin, false},
		{models.WorkspaceRoleViewer, models.WorkspaceRoleMember, false},
		{models.WorkspaceRoleMember, models.WorkspaceRoleViewer, true},
		{"bogus", models.WorkspaceRoleViewer, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, WorkspaceRoleAtLeast(tc.role, tc.min),
			"role=%s min=%s", tc.role, tc.min)
	}
}

func TestProjectRoleAtLeast(t *testing.T) {
	require.True(t, ProjectRoleAtLeast(models.ProjectRoleManager, models.ProjectRoleContributor))
	require.True(t, ProjectRoleAtLeast(models.ProjectRoleContributor, models.ProjectRoleContributor))
	require.False(t, ProjectRoleAtLeast(models.ProjectRoleViewer, models.ProjectRoleContributor))
	require.False(t, ProjectRoleAtLeast("bogus", models.ProjectRoleViewer))
}

func TestCanInviteToWorkspace(t *testing.T) {
	require.True(t, CanInviteToWorkspace(models.WorkspaceRoleOwner))
	require.True(t, CanInviteToWorkspace(models.WorkspaceRoleAdmin))
	require.False(t, CanInviteToWorkspace(models.WorkspaceRoleMember))
	require.False(t, CanInviteToWorkspace(models.WorkspaceRoleViewer))
}

func TestValidRoles(t *testing.T) {
	require.True(t, ValidWorkspaceRole(models.WorkspaceRoleMember))
	require.False(t, ValidWorkspaceRole("superuser"))
	require.True(t, ValidProjectRole(models.ProjectRoleManager))
	require.False(t, ValidProjectRole("lead"))
}

func TestValidInviteRole(t *testing.T) {
	require.True(t, ValidInviteRole(models.WorkspaceRoleAdmin))
	require.True(t, ValidInviteRole(models.WorkspaceRoleMember))
	require.True(t, ValidInviteRole(models.WorkspaceRoleViewer))
	require.False(t, ValidInviteRole(models.WorkspaceRoleOwner))
	require.False(t, ValidInviteRole("superuser"))
}
