package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tasktribe/tasktribe-api/internal/authz"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/repository"
	"gorm.io/gorm"
)

// StatsBundle is the dashboard payload for a workspace.
type StatsBundle struct {
	Stats                     StatsCard                   `json:"stats"`
	TaskTrendsData            []TaskTrendPoint            `json:"taskTrendsData"`
	ProjectStatusData         []DistributionSlice         `json:"projectStatusData"`
	TaskPriorityData          []DistributionSlice         `json:"taskPriorityData"`
	WorkspaceProductivityData []ProjectProductivityPoint  `json:"workspaceProductivityData"`
	UpcomingTasks             []models.Task               `json:"upcomingTasks"`
	RecentProjects            []models.Project            `json:"recentProjects"`
}

// StatsCard carries the headline counters.
type StatsCard struct {
	TotalProject           int `json:"totalProject"`
	TotalTask              int `json:"totalTask"`
	TotalProjectInProgress int `json:"totalProjectInProgress"`
	TotalProjectCompleted  int `json:"totalProjectCompleted"`
	TotalTaskCompleted     int `json:"totalTaskCompleted"`
	TotalTaskToDo          int `json:"totalTaskToDo"`
	TotalTaskInProgress    int `json:"totalTaskInProgress"`
}

// TaskTrendPoint is one weekday bucket of the trailing-week trend chart.
type TaskTrendPoint struct {
	Name       string `json:"name"`
	Completed  int    `json:"completed"`
	InProgress int    `json:"inProgress"`
	ToDo       int    `json:"todo"`
}

// DistributionSlice is one slice of a status or priority pie chart.
type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ProjectProductivityPoint compares completed against total tasks per project.
type ProjectProductivityPoint struct {
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// StatsService derives dashboard metrics from a workspace's projects and
// tasks. It is a pure read: every call recomputes from the store.
type StatsService struct {
	workspaceRepo repository.WorkspaceRepository
	projectRepo   repository.ProjectRepository
	now           func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(workspaceRepo repository.WorkspaceRepository, projectRepo repository.ProjectRepository) *StatsService {
	return &StatsService{
		workspaceRepo: workspaceRepo,
		projectRepo:   projectRepo,
		now:           time.Now,
	}
}

// ComputeStats aggregates the workspace dashboard. The caller must be a
// workspace member.
func (s *StatsService) ComputeStats(workspaceID, callerID uint64) (*StatsBundle, error) {
	workspace, err := s.workspaceRepo.FindByIDWithMembers(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	if !authz.IsWorkspaceMember(workspace, callerID) {
		return nil, ErrNotWorkspaceMember
	}

	projects, err := s.projectRepo.ListByWorkspaceWithTasks(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	bundle := &StatsBundle{}
	bundle.Stats.TotalProject = len(projects)

	var tasks []models.Task
	for _, p := range projects {
		switch p.Status {
		case models.ProjectStatusInProgress:
			bundle.Stats.TotalProjectInProgress++
		case models.ProjectStatusCompleted:
			bundle.Stats.TotalProjectCompleted++
		}
		tasks = append(tasks, p.Tasks...)
	}
	bundle.Stats.TotalTask = len(tasks)

	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusDone:
			bundle.Stats.TotalTaskCompleted++
		case models.TaskStatusToDo:
			bundle.Stats.TotalTaskToDo++
		case models.TaskStatusInProgress:
			bundle.Stats.TotalTaskInProgress++
		}
	}

	now := s.now()
	bundle.TaskTrendsData = s.taskTrends(tasks, now)
	bundle.ProjectStatusData = projectStatusDistribution(projects)
	bundle.TaskPriorityData = taskPriorityDistribution(tasks)
	bundle.WorkspaceProductivityData = productivity(projects)
	bundle.UpcomingTasks = upcomingTasks(tasks, now)
	bundle.RecentProjects = recentProjects(projects)

	return bundle, nil
}

// taskTrends buckets tasks into the trailing 7 calendar days, oldest bucket
// first, keyed by weekday name. A task counts toward the day its UpdatedAt
// falls on (calendar match, not a rolling 168h window).
func (s *StatsService) taskTrends(tasks []models.Task, now time.Time) []TaskTrendPoint {
	points := make([]TaskTrendPoint, 7)
	days := make([]time.Time, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i-6)
		days[i] = day
		points[i].Name = day.Format("Mon")
	}

	for _, t := range tasks {
		for i, day := range days {
			if sameCalendarDay(t.UpdatedAt, day) {
				switch t.Status {
				case models.TaskStatusDone:
					points[i].Completed++
				case models.TaskStatusInProgress:
					points[i].InProgress++
				case models.TaskStatusToDo:
					points[i].ToDo++
				}
				break
			}
		}
	}

	return points
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var projectStatusColors = []struct {
	status models.ProjectStatus
	color  string
}{
	{models.ProjectStatusCompleted, "#10b981"},
	{models.ProjectStatusInProgress, "#3b82f6"},
	{models.ProjectStatusPlanning, "#f59e0b"},
	{models.ProjectStatusOnHold, "#6b7280"},
	{models.ProjectStatusCancelled, "#ef4444"},
}

func projectStatusDistribution(projects []models.Project) []DistributionSlice {
	counts := make(map[models.ProjectStatus]int)
	for _, p := range projects {
		counts[p.Status]++
	}

	slices := make([]DistributionSlice, 0, len(projectStatusColors))
	for _, entry := range projectStatusColors {
		if counts[entry.status] > 0 {
			slices = append(slices, DistributionSlice{
				Name:  string(entry.status),
				Value: counts[entry.status],
				Color: entry.color,
			})
		}
	}
	return slices
}

var taskPriorityColors = []struct {
	priority models.TaskPriority
	color    string
}{
	{models.TaskPriorityHigh, "#ef4444"},
	{models.TaskPriorityMedium, "#f59e0b"},
	{models.TaskPriorityLow, "#6b7280"},
}

func taskPriorityDistribution(tasks []models.Task) []DistributionSlice {
	counts := make(map[models.TaskPriority]int)
	for _, t := range tasks {
		counts[t.Priority]++
	}

	slices := make([]DistributionSlice, 0, len(taskPriorityColors))
	for _, entry := range taskPriorityColors {
		if counts[entry.priority] > 0 {
			slices = append(slices, DistributionSlice{
				Name:  string(entry.priority),
				Value: counts[entry.priority],
				Color: entry.color,
			})
		}
	}
	return slices
}

// productivity counts a task as completed only when it is done and not
// archived; archived tasks still count toward the total.
func productivity(projects []models.Project) []ProjectProductivityPoint {
	points := make([]ProjectProductivityPoint, 0, len(projects))
	for _, p := range projects {
		point := ProjectProductivityPoint{Name: p.Title, Total: len(p.Tasks)}
		for _, t := range p.Tasks {
			if t.Status == models.TaskStatusDone && !t.IsArchived {
				point.Completed++
			}
		}
		points = append(points, point)
	}
	return points
}

// upcomingTasks returns tasks due strictly after now and within the next
// seven days.
func upcomingTasks(tasks []models.Task, now time.Time) []models.Task {
	horizon := now.Add(7 * 24 * time.Hour)
	upcoming := make([]models.Task, 0)
	for _, t := range tasks {
		if t.DueDate == nil || t.IsArchived {
			continue
		}
		if t.DueDate.After(now) && !t.DueDate.After(horizon) {
			upcoming = append(upcoming, t)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
	})
	return upcoming
}

// recentProjects returns the five most recently created projects.
func recentProjects(projects []models.Project) []models.Project {
	recent := make([]models.Project, len(projects))
	copy(recent, projects)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return recent
}
