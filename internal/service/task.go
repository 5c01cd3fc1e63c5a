// Package service implements the task operations behind the HTTP
// boundary: list, upsert, get, delete, seed, and clear.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/timekeep/timekeep/internal/domain"
	"github.com/timekeep/timekeep/internal/store"
)

// seedNames is the fixed vocabulary for synthetic demo tasks.
var seedNames = []string{
	"Morning Standup", "Code Review", "Feature Development",
	"Bug Fixes", "Documentation", "Team Meeting", "Design Session",
	"Testing", "Deployment", "Research", "Learning", "Planning",
	"Client Call", "Refactoring", "Performance Optimization",
}

const (
	seedDays        = 30
	seedMinDuration = 900  // 15 minutes
	seedMaxDuration = 7200 // 2 hours
)

// TaskService handles task business logic.
type TaskService struct {
	repo  *store.TaskRepository
	clock func() time.Time
	rng   *rand.Rand
	log   *logrus.Entry
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *store.TaskRepository) *TaskService {
	return &TaskService{
		repo:  repo,
		clock: time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   logrus.WithField("component", "tasks"),
	}
}

// UpsertInput carries the client payload for an upsert. Pointer fields
// distinguish omitted keys from zero values so defaults apply only when
// a field is genuinely absent.
type UpsertInput struct {
	ID          string
	Name        *string
	Duration    *int64
	SessionDate *string
	CreatedAt   *int64
	UpdatedAt   *int64
	TimerLogs   []json.RawMessage
	Subtasks    []json.RawMessage
}

// List returns all tasks, or only those on the given session date when
// dateFilter is non-nil. An empty result is an empty slice, never an
// error.
func (s *TaskService) List(ctx context.Context, dateFilter *string) ([]*domain.Task, error) {
	tasks, err := s.repo.List(ctx, dateFilter)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return tasks, nil
}

// Upsert creates or fully replaces the task with the payload's ID.
// Omitted fields reset to their defaults rather than preserving prior
// stored values. The returned record is re-read from the store so the
// response reflects exactly what was persisted.
func (s *TaskService) Upsert(ctx context.Context, input UpsertInput) (*domain.Task, error) {
	if input.ID == "" {
		return nil, domain.NewValidationError("Task ID is required")
	}

	now := s.clock()
	nowMillis := now.UnixMilli()

	task := &domain.Task{
		ID:          input.ID,
		Name:        domain.DefaultName,
		Duration:    0,
		SessionDate: now.Format(domain.DateLayout),
		CreatedAt:   nowMillis,
		UpdatedAt:   nowMillis,
		TimerLogs:   input.TimerLogs,
		Subtasks:    input.Subtasks,
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Duration != nil {
		task.Duration = *input.Duration
	}
	if input.SessionDate != nil {
		task.SessionDate = *input.SessionDate
	}
	if input.CreatedAt != nil {
		task.CreatedAt = *input.CreatedAt
	}
	if input.UpdatedAt != nil {
		task.UpdatedAt = *input.UpdatedAt
	}
	if task.TimerLogs == nil {
		task.TimerLogs = []json.RawMessage{}
	}
	if task.Subtasks == nil {
		task.Subtasks = []json.RawMessage{}
	}

	if err := s.repo.Upsert(ctx, task); err != nil {
		return nil, domain.NewInternalError(err)
	}

	saved, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	return saved, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, domain.NewTaskNotFoundError()
		}
		return nil, domain.NewInternalError(err)
	}
	return task, nil
}

// Delete removes a task by ID.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == store.ErrNotFound {
			return domain.NewTaskNotFoundError()
		}
		return domain.NewInternalError(err)
	}
	return nil
}

// Seed inserts 2-5 synthetic tasks for each of the past 30 calendar
// days including today. IDs are deterministic per day and index
// (seed_<date>_<i>) and existing rows are replaced, so repeated seeding
// does not accumulate duplicates. Returns the number of rows written.
func (s *TaskService) Seed(ctx context.Context) (int, error) {
	now := s.clock()
	created := 0

	for daysAgo := 0; daysAgo < seedDays; daysAgo++ {
		day := now.AddDate(0, 0, -daysAgo)
		dateStr := day.Format(domain.DateLayout)

		tasksPerDay := 2 + s.rng.Intn(4)
		for i := 0; i < tasksPerDay; i++ {
			// Hourly stagger keeps created_at ordering stable within a day.
			createdAt := day.Add(-time.Duration(i) * time.Hour).UnixMilli()

			task := &domain.Task{
				ID:          fmt.Sprintf("seed_%s_%d", dateStr, i),
				Name:        seedNames[s.rng.Intn(len(seedNames))],
				Duration:    int64(seedMinDuration + s.rng.Intn(seedMaxDuration-seedMinDuration+1)),
				SessionDate: dateStr,
				CreatedAt:   createdAt,
				UpdatedAt:   createdAt,
			}

			if err := s.repo.SeedReplace(ctx, task); err != nil {
				return 0, domain.NewInternalError(err)
			}
			created++
		}
	}

	s.log.WithField("count", created).Info("seeded demo tasks")
	return created, nil
}

// ClearAll unconditionally deletes every task and returns the count
// removed.
func (s *TaskService) ClearAll(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, domain.NewInternalError(err)
	}

	s.log.WithField("count", removed).Info("cleared all tasks")
	return removed, nil
}
