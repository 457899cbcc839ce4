package dto

import (
	"time"

	"github.com/tasktribe/tasktribe-api/internal/models"
)

// WorkspaceMemberDTO represents a workspace roster entry in API responses
type WorkspaceMemberDTO struct {
	User     UserDTO              `json:"user"`
	Role     models.WorkspaceRole `json:"role"`
	JoinedAt time.Time            `json:"joinedAt"`
}

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID          uint64               `json:"_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Color       string               `json:"color"`
	Owner       uint64               `json:"owner"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Members     []WorkspaceMemberDTO `json:"members,omitempty"`
}

// InviteDetailsDTO describes the workspace behind an invitation to someone
// deciding whether to accept it
type InviteDetailsDTO struct {
	WorkspaceID uint64 `json:"workspaceId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	MemberCount int    `json:"memberCount"`
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(workspace models.Workspace) WorkspaceDTO {
	dto := WorkspaceDTO{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		Color:       workspace.Color,
		Owner:       workspace.OwnerID,
		CreatedAt:   workspace.CreatedAt,
		UpdatedAt:   workspace.UpdatedAt,
	}

	// Include members if preloaded
	if len(workspace.Members) > 0 {
		dto.Members = make([]WorkspaceMemberDTO, len(workspace.Members))
		for i, member := range workspace.Members {
			dto.Members[i] = WorkspaceMemberDTO{
				User:     ToUserDTO(member.User),
				Role:     member.Role,
				JoinedAt: member.JoinedAt,
			}
		}
	}

	return dto
}

// ToWorkspaceDTOs converts a slice of workspaces
func ToWorkspaceDTOs(workspaces []models.Workspace) []WorkspaceDTO {
	dtos := make([]WorkspaceDTO, len(workspaces))
	for i, workspace := range workspaces {
		dtos[i] = ToWorkspaceDTO(workspace)
	}
	return dtos
}

// ToInviteDetailsDTO converts a workspace to InviteDetailsDTO
func ToInviteDetailsDTO(workspace models.Workspace) InviteDetailsDTO {
	return InviteDetailsDTO{
		WorkspaceID: workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		Color:       workspace.Color,
		MemberCount: len(workspace.Members),
	}
}
