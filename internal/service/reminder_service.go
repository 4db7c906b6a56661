package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"opsdesk/internal/repository"
	"opsdesk/internal/schedule"
)

// Mailer delivers one message. Implemented by the SMTP sender; tests swap in
// a fake.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

const reminderSubject = "Checklist: Tasks due today"

var reminderTemplate = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body>
  <h3>You have pending checklist tasks</h3>
  <p>Hi {{.Name}},</p>
  <p>You have <strong>{{len .Tasks}}</strong> task(s) due today:</p>
  <ul>
{{- range .Tasks}}
    <li>{{.}}</li>
{{- end}}
  </ul>
  <p>Please log in to complete them.</p>
</body>
</html>
`))

// ReminderService is the daily dispatch job: find every task due today and
// not yet completed, group the names by doer, send one consolidated email
// per doer, and record a (doer, date) marker so reruns within the same day
// stay silent.
type ReminderService struct {
	tasks       *repository.TaskRepository
	holidays    *repository.HolidayRepository
	completions *repository.CompletionRepository
	reminders   *repository.ReminderRepository
	users       *repository.UserRepository
	mailer      Mailer
	log         zerolog.Logger
}

func NewReminderService(
	tasks *repository.TaskRepository,
	holidays *repository.HolidayRepository,
	completions *repository.CompletionRepository,
	reminders *repository.ReminderRepository,
	users *repository.UserRepository,
	mailer Mailer,
	log zerolog.Logger,
) *ReminderService {
	return &ReminderService{
		tasks:       tasks,
		holidays:    holidays,
		completions: completions,
		reminders:   reminders,
		users:       users,
		mailer:      mailer,
		log:         log,
	}
}

// Run executes one dispatch for the given date and returns how many doers
// were notified. A delivery failure for one doer never blocks the rest, and
// no failure escapes to the caller.
func (s *ReminderService) Run(ctx context.Context, today time.Time) int {
	today = schedule.Normalize(today)

	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reminders: task list unavailable, skipping run")
		return 0
	}

	alreadySent, err := s.reminders.SentOn(ctx, today)
	if err != nil {
		// Duplicate suppression still holds through the marker's unique
		// constraint at insert time.
		s.log.Warn().Err(err).Msg("reminders: sent markers unavailable")
		alreadySent = map[string]bool{}
	}

	completed := s.completionIndex(ctx)
	isHoliday := holidayPredicate(ctx, s.holidays, today.Year(), s.log)

	due := map[string][]string{}
	for _, task := range tasks {
		if task.DoerID == "" || alreadySent[task.DoerID] {
			continue
		}
		dates := schedule.Occurrences(task.StartDate, schedule.Frequency(task.Frequency), today.Year(), isHoliday)
		for _, d := range dates {
			if !d.Equal(today) {
				continue
			}
			if _, done := completed[completionKey{task.ID, d}]; !done {
				due[task.DoerID] = append(due[task.DoerID], task.Name)
			}
			break
		}
	}

	if len(due) == 0 {
		s.log.Info().Str("date", today.Format(time.DateOnly)).Msg("reminders: nothing due")
		return 0
	}

	users, err := s.users.ListActive(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reminders: user lookup failed, no mail sent")
		return 0
	}
	addresses := make(map[string]struct{ email, name string }, len(users))
	for _, u := range users {
		addresses[u.ID] = struct{ email, name string }{strings.TrimSpace(u.Email), u.FullName}
	}

	sent := 0
	for doerID, names := range due {
		addr := addresses[doerID]
		if addr.email == "" {
			s.log.Warn().Str("doer_id", doerID).Msg("reminders: no recipient email, skipping")
			continue
		}
		htmlBody, textBody, err := reminderBody(addr.name, names)
		if err != nil {
			s.log.Error().Err(err).Str("doer_id", doerID).Msg("reminders: compose failed")
			continue
		}
		if err := s.mailer.Send(ctx, addr.email, reminderSubject, htmlBody, textBody); err != nil {
			// No marker on failure: a rerun later today retries this doer.
			s.log.Warn().Err(err).Str("doer_id", doerID).Msg("reminders: delivery failed")
			continue
		}
		recorded, err := s.reminders.MarkSent(ctx, doerID, today)
		if err != nil {
			s.log.Error().Err(err).Str("doer_id", doerID).Msg("reminders: failed recording sent marker")
			continue
		}
		if !recorded {
			s.log.Debug().Str("doer_id", doerID).Msg("reminders: marker already present, concurrent run")
			continue
		}
		s.log.Info().Str("doer_id", doerID).Int("tasks", len(names)).Msg("reminder sent")
		sent++
	}

	s.log.Info().Int("sent", sent).Str("date", today.Format(time.DateOnly)).Msg("reminder dispatch finished")
	return sent
}

func (s *ReminderService) completionIndex(ctx context.Context) map[completionKey]time.Time {
	rows, err := s.completions.ListAll(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("reminders: completions unavailable")
		return map[completionKey]time.Time{}
	}
	idx := make(map[completionKey]time.Time, len(rows))
	for _, c := range rows {
		idx[completionKey{c.TaskID, schedule.Normalize(c.OccurrenceDate)}] = c.CompletedAt
	}
	return idx
}

func reminderBody(doerName string, taskNames []string) (html, text string, err error) {
	if doerName == "" {
		doerName = "User"
	}
	var buf bytes.Buffer
	data := struct {
		Name  string
		Tasks []string
	}{doerName, taskNames}
	if err := reminderTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render reminder: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d task(s) due today:\n\n", len(taskNames))
	for _, name := range taskNames {
		fmt.Fprintf(&sb, "  - %s\n", name)
	}
	sb.WriteString("\nPlease log in to complete them.")
	return buf.String(), sb.String(), nil
}
