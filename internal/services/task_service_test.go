package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/utils"
)

type taskTestFixture struct {
	env     *serviceTestEnv
	svc     *TaskService
	alice   *models.User
	bob     *models.User
	outside *models.User
	project *models.Project
}

// setupTaskTest builds a workspace with a project whose roster is alice
// (manager) and bob (contributor); outside is a workspace member kept off
// the project.
func setupTaskTest(t *testing.T) *taskTestFixture {
	env := setupServiceTest(t)
	wsSvc := newWorkspaceService(env)
	projSvc := newProjectService(env)

	alice := env.createUser(t, "Alice", "alice@example.com")
	bob := env.createUser(t, "Bob", "bob@example.com")
	outside := env.createUser(t, "Oscar", "oscar@example.com")

	ws, err := wsSvc.CreateWorkspace(CreateWorkspaceInput{Name: "Team", OwnerID: alice.ID})
	require.NoError(t, err)
	_, err = wsSvc.AcceptGenerateInvite(ws.ID, bob.ID)
	require.NoError(t, err)
	_, err = wsSvc.AcceptGenerateInvite(ws.ID, outside.ID)
	require.NoError(t, err)

	project, err := projSvc.CreateProject(CreateProjectInput{
		WorkspaceID: ws.ID,
		CallerID:    alice.ID,
		Title:       "Launch",
		Members: []ProjectMemberInput{
			{UserID: alice.ID, Role: models.ProjectRoleManager},
			{UserID: bob.ID},
		},
	})
	require.NoError(t, err)

	return &taskTestFixture{
		env:     env,
		svc:     NewTaskService(env.taskRepo, env.projectRepo, env.recorder, env.activityRepo),
		alice:   alice,
		bob:     bob,
		outside: outside,
		project: project,
	}
}

func (f *taskTestFixture) createTask(t *testing.T, title string, assignees ...uint64) *models.Task {
	t.Helper()
	task, err := f.svc.CreateTask(CreateTaskInput{
		ProjectID: f.project.ID,
		CallerID:  f.alice.ID,
		Title:     title,
		Assignees: assignees,
	})
	require.NoError(t, err)
	return task
}

func TestCreateTaskDefaults(t *testing.T) {
	f := setupTaskTest(t)

	task := f.createTask(t, "Ship it")
	require.Equal(t, models.TaskStatusToDo, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)

	rows := f.env.activityRows(t, models.ResourceTask, task.ID)
	require.Len(t, rows, 1)
	require.Equal(t, models.ActionCreatedTask, rows[0].Action)
}

// Workspace membership alone is not enough to touch tasks: authorization
// scans the project roster only.
func TestTaskOpsRequireProjectMembership(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Restricted")

	_, err := f.svc.CreateTask(CreateTaskInput{
		ProjectID: f.project.ID,
		CallerID:  f.outside.ID,
		Title:     "Not allowed",
	})
	require.ErrorIs(t, err, ErrNotProjectMember)

	_, err = f.svc.GetTask(task.ID, f.outside.ID)
	require.ErrorIs(t, err, ErrNotProjectMember)

	_, err = f.svc.UpdateTitle(task.ID, f.outside.ID, "Hijacked")
	require.ErrorIs(t, err, ErrNotProjectMember)

	_, _, err = f.svc.WatchTask(task.ID, f.outside.ID)
	require.ErrorIs(t, err, ErrNotProjectMember)
}

func TestCreateTaskAssigneesRoundTrip(t *testing.T) {
	f := setupTaskTest(t)

	task := f.createTask(t, "Pair work", f.alice.ID, f.bob.ID)

	loaded, err := f.svc.GetTask(task.ID, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Assignees, 2)
	require.Equal(t, f.alice.ID, loaded.Assignees[0].UserID)
	require.Equal(t, f.bob.ID, loaded.Assignees[1].UserID)
}

func TestUpdateAssigneesFullReplace(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Rotate", f.alice.ID)

	updated, err := f.svc.UpdateAssignees(task.ID, f.alice.ID, []uint64{f.bob.ID, f.alice.ID})
	require.NoError(t, err)
	require.Len(t, updated.Assignees, 2)
	// Replace, not merge, and in request order.
	require.Equal(t, f.bob.ID, updated.Assignees[0].UserID)
	require.Equal(t, f.alice.ID, updated.Assignees[1].UserID)

	updated, err = f.svc.UpdateAssignees(task.ID, f.alice.ID, []uint64{f.bob.ID})
	require.NoError(t, err)
	require.Len(t, updated.Assignees, 1)
	require.Equal(t, f.bob.ID, updated.Assignees[0].UserID)
}

func TestUpdateAssigneesRejectsNonMembers(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Guarded")

	_, err := f.svc.UpdateAssignees(task.ID, f.alice.ID, []uint64{f.outside.ID})
	require.ErrorIs(t, err, ErrAssigneeNotMember)
}

func TestFieldUpdatesRecordPriorValue(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Original title")

	_, err := f.svc.UpdateTitle(task.ID, f.bob.ID, "New title")
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(task.ID, f.bob.ID, models.TaskStatusInProgress)
	require.NoError(t, err)

	_, err = f.svc.UpdatePriority(task.ID, f.bob.ID, models.TaskPriorityHigh)
	require.NoError(t, err)

	rows := f.env.activityRows(t, models.ResourceTask, task.ID)
	// created + three updates, newest first.
	require.Len(t, rows, 4)

	require.Equal(t, "priority", rows[0].Details.Field)
	require.Equal(t, string(models.TaskPriorityMedium), rows[0].Details.OldValue)
	require.Equal(t, string(models.TaskPriorityHigh), rows[0].Details.NewValue)

	require.Equal(t, "status", rows[1].Details.Field)
	require.Equal(t, string(models.TaskStatusToDo), rows[1].Details.OldValue)

	require.Equal(t, "title", rows[2].Details.Field)
	require.Equal(t, "Original title", rows[2].Details.OldValue)
	require.Contains(t, rows[2].Details.Description, "Original title")
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Strict")

	_, err := f.svc.UpdateStatus(task.ID, f.alice.ID, "Parked")
	require.ErrorIs(t, err, ErrInvalidTaskStatus)

	_, err = f.svc.UpdatePriority(task.ID, f.alice.ID, "Urgent")
	require.ErrorIs(t, err, ErrInvalidTaskPriority)
}

func TestWatchTaskDoubleToggle(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Watched")

	updated, watching, err := f.svc.WatchTask(task.ID, f.bob.ID)
	require.NoError(t, err)
	require.True(t, watching)
	require.Len(t, updated.Watchers, 1)

	updated, watching, err = f.svc.WatchTask(task.ID, f.bob.ID)
	require.NoError(t, err)
	require.False(t, watching)
	require.Empty(t, updated.Watchers)
}

func TestArchiveExcludesFromListingsButNotGet(t *testing.T) {
	f := setupTaskTest(t)
	projSvc := newProjectService(f.env)
	task := f.createTask(t, "Old work", f.bob.ID)

	archived, err := f.svc.ArchiveTask(task.ID, f.alice.ID)
	require.NoError(t, err)
	require.True(t, archived.IsArchived)

	_, tasks, err := projSvc.GetProjectTasks(f.project.ID, f.alice.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)

	mine, err := f.svc.GetMyTasks(f.bob.ID)
	require.NoError(t, err)
	require.Empty(t, mine)

	// Still retrievable by id.
	loaded, err := f.svc.GetTask(task.ID, f.alice.ID)
	require.NoError(t, err)
	require.True(t, loaded.IsArchived)

	// Second call unarchives.
	unarchived, err := f.svc.ArchiveTask(task.ID, f.alice.ID)
	require.NoError(t, err)
	require.False(t, unarchived.IsArchived)
}

func TestSubTasksDoNotCascadeToParentStatus(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Parent")

	withSub, err := f.svc.AddSubTask(task.ID, f.bob.ID, "Child step")
	require.NoError(t, err)
	require.Len(t, withSub.SubTasks, 1)

	completed := true
	updated, err := f.svc.UpdateSubTask(UpdateSubTaskInput{
		TaskID:    task.ID,
		SubTaskID: withSub.SubTasks[0].ID,
		CallerID:  f.bob.ID,
		Completed: &completed,
	})
	require.NoError(t, err)
	require.True(t, updated.SubTasks[0].Completed)
	require.Equal(t, models.TaskStatusToDo, updated.Status)
}

func TestUpdateSubTaskUnknownID(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Parent")

	completed := true
	_, err := f.svc.UpdateSubTask(UpdateSubTaskInput{
		TaskID:    task.ID,
		SubTaskID: 9999,
		CallerID:  f.alice.ID,
		Completed: &completed,
	})
	require.ErrorIs(t, err, ErrSubTaskNotFound)
}

func TestCommentsNewestFirst(t *testing.T) {
	f := setupTaskTest(t)
	task := f.createTask(t, "Discussed")

	first, err := f.svc.AddComment(task.ID, f.alice.ID, "first")
	require.NoError(t, err)
	second, err := f.svc.AddComment(task.ID, f.bob.ID, "second")
	require.NoError(t, err)

	comments, err := f.svc.GetComments(task.ID, f.alice.ID, firstPage())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, second.ID, comments[0].ID)
	require.Equal(t, first.ID, comments[1].ID)

	page2, err := f.svc.GetComments(task.ID, f.alice.ID, utils.PaginationParams{Page: 2, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	require.Equal(t, first.ID, page2[0].ID)
}

func TestGetMyTasks(t *testing.T) {
	f := setupTaskTest(t)
	f.createTask(t, "Bob's", f.bob.ID)
	f.createTask(t, "Alice's", f.alice.ID)

	mine, err := f.svc.GetMyTasks(f.bob.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Bob's", mine[0].Title)
}
