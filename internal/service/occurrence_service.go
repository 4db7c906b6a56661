package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"opsdesk/internal/repository"
	"opsdesk/internal/schedule"
)

// Filter selects one occurrence view.
type Filter string

const (
	FilterToday     Filter = "today"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
	FilterUpcoming  Filter = "upcoming"
)

func (f Filter) Valid() bool {
	switch f {
	case FilterToday, FilterCompleted, FilterOverdue, FilterUpcoming:
		return true
	}
	return false
}

// Occurrence is one derived due date of a task, with completion state merged
// in. It is never persisted.
type Occurrence struct {
	TaskID      string
	TaskName    string
	ReferenceNo string
	DoerID      string
	DoerName    string
	Department  string
	Date        time.Time
	CompletedAt *time.Time
}

type completionKey struct {
	taskID string
	date   time.Time
}

// OccurrenceService projects tasks across a rolling window of years and
// classifies the result. It is read-only: completion state is never mutated
// here.
type OccurrenceService struct {
	tasks       *repository.TaskRepository
	holidays    *repository.HolidayRepository
	completions *repository.CompletionRepository
	users       *repository.UserRepository
	log         zerolog.Logger
}

func NewOccurrenceService(
	tasks *repository.TaskRepository,
	holidays *repository.HolidayRepository,
	completions *repository.CompletionRepository,
	users *repository.UserRepository,
	log zerolog.Logger,
) *OccurrenceService {
	return &OccurrenceService{
		tasks:       tasks,
		holidays:    holidays,
		completions: completions,
		users:       users,
		log:         log,
	}
}

// List expands the matching tasks over {today-1y, today, today+1y}, merges
// completion state and applies the filter. "today" is caller-supplied so the
// classification stays deterministic under test. Lookup failures degrade to
// empty data with a logged diagnostic; they never fail the request.
func (s *OccurrenceService) List(ctx context.Context, filter Filter, today time.Time, doerID, referenceNo string) []Occurrence {
	today = schedule.Normalize(today)

	tasks, err := s.tasks.List(ctx, doerID, referenceNo)
	if err != nil {
		s.log.Error().Err(err).Msg("occurrences: task list unavailable")
		return []Occurrence{}
	}

	names, err := s.users.NameMap(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("occurrences: user names unavailable")
		names = map[string]string{}
	}

	completed := s.completionIndex(ctx)

	years := []int{today.Year() - 1, today.Year(), today.Year() + 1}
	predicates := make(map[int]schedule.HolidayFunc, len(years))
	for _, y := range years {
		predicates[y] = holidayPredicate(ctx, s.holidays, y, s.log)
	}

	var out []Occurrence
	for _, task := range tasks {
		for _, y := range years {
			dates := schedule.Occurrences(task.StartDate, schedule.Frequency(task.Frequency), y, predicates[y])
			for _, d := range dates {
				occ := Occurrence{
					TaskID:      task.ID,
					TaskName:    task.Name,
					ReferenceNo: task.ReferenceNo,
					DoerID:      task.DoerID,
					DoerName:    names[task.DoerID],
					Department:  task.Department,
					Date:        d,
				}
				if at, ok := completed[completionKey{task.ID, d}]; ok {
					t := at
					occ.CompletedAt = &t
				}
				out = append(out, occ)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TaskName < out[j].TaskName
	})

	return filterOccurrences(out, filter, today)
}

// filterOccurrences applies the view filter. "today" matches by date alone,
// so a completed occurrence due today shows up in both the today and the
// completed views. That overlap is intended.
func filterOccurrences(occurrences []Occurrence, filter Filter, today time.Time) []Occurrence {
	out := make([]Occurrence, 0, len(occurrences))
	for _, o := range occurrences {
		switch filter {
		case FilterToday:
			if o.Date.Equal(today) {
				out = append(out, o)
			}
		case FilterCompleted:
			if o.CompletedAt != nil {
				out = append(out, o)
			}
		case FilterOverdue:
			if o.CompletedAt == nil && o.Date.Before(today) {
				out = append(out, o)
			}
		case FilterUpcoming:
			if o.CompletedAt == nil && o.Date.After(today) {
				out = append(out, o)
			}
		default:
			out = append(out, o)
		}
	}
	return out
}

func (s *OccurrenceService) completionIndex(ctx context.Context) map[completionKey]time.Time {
	rows, err := s.completions.ListAll(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("occurrences: completions unavailable")
		return map[completionKey]time.Time{}
	}
	idx := make(map[completionKey]time.Time, len(rows))
	for _, c := range rows {
		idx[completionKey{c.TaskID, schedule.Normalize(c.OccurrenceDate)}] = c.CompletedAt
	}
	return idx
}

// holidayPredicate loads a year's holiday set. An unreadable set is treated
// as "no holidays this year" rather than failing the whole computation.
func holidayPredicate(ctx context.Context, repo *repository.HolidayRepository, year int, log zerolog.Logger) schedule.HolidayFunc {
	rows, err := repo.ListByYear(ctx, year)
	if err != nil {
		log.Warn().Err(err).Int("year", year).Msg("holiday set unavailable, treating year as holiday-free")
		return schedule.NoHolidays
	}
	set := make(map[time.Time]struct{}, len(rows))
	for _, h := range rows {
		set[schedule.Normalize(h.Date)] = struct{}{}
	}
	return func(d time.Time) bool {
		_, ok := set[schedule.Normalize(d)]
		return ok
	}
}
