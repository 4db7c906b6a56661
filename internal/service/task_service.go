package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"opsdesk/internal/model"
	"opsdesk/internal/repository"
	"opsdesk/internal/schedule"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotAssignedDoer   = errors.New("only the assigned doer can complete this task")
	ErrInvalidDepartment = errors.New("invalid department")
	ErrInvalidFrequency  = errors.New("invalid frequency code")
)

// TaskInput carries the fields needed to create a checklist task.
type TaskInput struct {
	Name       string
	Department string
	Frequency  schedule.Frequency
	StartDate  time.Time
}

// TaskService wraps checklist task business logic: creation with reference
// numbers, role-scoped listing and completion marking.
type TaskService struct {
	tasks       *repository.TaskRepository
	departments *repository.DepartmentRepository
	completions *repository.CompletionRepository
	users       *repository.UserRepository
	log         zerolog.Logger
}

func NewTaskService(
	tasks *repository.TaskRepository,
	departments *repository.DepartmentRepository,
	completions *repository.CompletionRepository,
	users *repository.UserRepository,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:       tasks,
		departments: departments,
		completions: completions,
		users:       users,
		log:         log,
	}
}

func (s *TaskService) Departments(ctx context.Context) ([]string, error) {
	return s.departments.ListNames(ctx)
}

// Create registers a new recurring task owned by the doer.
func (s *TaskService) Create(ctx context.Context, doer *model.User, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("task name is required")
	}
	if !input.Frequency.Valid() {
		return nil, ErrInvalidFrequency
	}
	allowed, err := s.departments.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	valid := false
	for _, name := range allowed {
		if name == input.Department {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidDepartment
	}

	task := model.Task{
		ID:          uuid.NewString(),
		ReferenceNo: s.nextReferenceNo(ctx, doer),
		Name:        strings.TrimSpace(input.Name),
		DoerID:      doer.ID,
		Department:  input.Department,
		Frequency:   string(input.Frequency),
		StartDate:   schedule.Normalize(input.StartDate),
		CreatedBy:   doer.ID,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskView is a task with its doer's display name attached.
type TaskView struct {
	model.Task
	DoerName string
}

// List returns tasks visible to the viewer. Regular users only ever see
// their own; admins may filter by doer or see everything.
func (s *TaskService) List(ctx context.Context, viewer *model.User, doerID, referenceNo string) ([]TaskView, error) {
	if !viewer.IsAdmin() {
		doerID = viewer.ID
	}
	tasks, err := s.tasks.List(ctx, doerID, referenceNo)
	if err != nil {
		return nil, err
	}
	names, err := s.users.NameMap(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("tasks: user names unavailable")
		names = map[string]string{}
	}
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{Task: t, DoerName: names[t.DoerID]})
	}
	return views, nil
}

// Complete marks one occurrence of a task as done. Only the assigned doer
// may complete it; the completion write itself is idempotent.
func (s *TaskService) Complete(ctx context.Context, actor *model.User, taskID string, occurrenceDate time.Time) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("find task: %w", err)
	}
	if task.DoerID != actor.ID {
		return ErrNotAssignedDoer
	}
	return s.completions.MarkComplete(ctx, taskID, schedule.Normalize(occurrenceDate), actor.ID, time.Now().UTC())
}

// nextReferenceNo builds CHK-<name prefix>-NNN for the doer, falling back to
// a random suffix when the sequence lookup fails.
func (s *TaskService) nextReferenceNo(ctx context.Context, doer *model.User) string {
	prefix := namePrefix(doer.FullName)
	refs, err := s.tasks.ReferenceNos(ctx, "CHK-"+prefix+"-")
	if err != nil {
		s.log.Warn().Err(err).Msg("reference no sequence lookup failed, using random suffix")
		return "CHK-" + strings.ToUpper(uuid.NewString()[:8])
	}
	next := 1
	for _, ref := range refs {
		parts := strings.Split(ref, "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil && n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("CHK-%s-%03d", prefix, next)
}

// namePrefix keeps the first six alphanumeric characters of the name,
// uppercased. "USER" when nothing usable remains.
func namePrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			if b.Len() >= 6 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "USER"
	}
	return b.String()
}
