package services

import (
	"log"

	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/repository"
)

// ActivityRecorder appends audit-trail rows for every mutation. Recording is
// best-effort: a failed or dropped entry is logged server-side and never
// surfaces to the caller whose mutation triggered it.
type ActivityRecorder struct {
	repo    repository.ActivityRepository
	entries chan *models.ActivityLog
	done    chan struct{}
}

// NewActivityRecorder starts a recorder draining a buffer of the given size.
// A size of zero records synchronously (used in tests, where assertions need
// the row to exist as soon as Record returns).
func NewActivityRecorder(repo repository.ActivityRepository, buffer int) *ActivityRecorder {
	r := &ActivityRecorder{repo: repo}
	if buffer > 0 {
		r.entries = make(chan *models.ActivityLog, buffer)
		r.done = make(chan struct{})
		go r.drain()
	}
	return r
}

// Record submits one activity entry. It never blocks and never returns an
// error: a full buffer drops the entry with a log line.
func (r *ActivityRecorder) Record(userID uint64, action models.ActionType, resourceType models.ResourceType, resourceID uint64, details models.ActivityDetails) {
	entry := &models.ActivityLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}

	if r.entries == nil {
		r.write(entry)
		return
	}

	select {
	case r.entries <- entry:
	default:
		log.Printf("activity buffer full, dropping %s on %s/%d", action, resourceType, resourceID)
	}
}

// Close stops accepting entries and waits for the buffer to drain.
func (r *ActivityRecorder) Close() {
	if r.entries == nil {
		return
	}
	close(r.entries)
	<-r.done
}

func (r *ActivityRecorder) drain() {
	for entry := range r.entries {
		r.write(entry)
	}
	close(r.done)
}

func (r *ActivityRecorder) write(entry *models.ActivityLog) {
	if err := r.repo.Create(entry); err != nil {
		log.Printf("failed to record activity %s on %s/%d: %v",
			entry.Action, entry.ResourceType, entry.ResourceID, err)
	}
}
