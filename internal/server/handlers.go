package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"opsdesk/internal/model"
	"opsdesk/internal/schedule"
	"opsdesk/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password required"})
		return
	}
	token, user, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}
		s.log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

func (s *Server) handleListDepartments(c *gin.Context) {
	departments, err := s.tasks.Departments(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list departments failed")
		departments = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

func (s *Server) handleListHolidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "year query parameter required"})
		return
	}
	rows, err := s.holidays.ListByYear(c.Request.Context(), year)
	if err != nil {
		s.log.Error().Err(err).Int("year", year).Msg("list holidays failed")
		c.JSON(http.StatusOK, gin.H{"holidays": []gin.H{}})
		return
	}
	holidays := make([]gin.H, 0, len(rows))
	for _, h := range rows {
		holidays = append(holidays, gin.H{
			"holiday_date": h.Date.Format(time.DateOnly),
			"holiday_name": h.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}

type holidayUploadItem struct {
	HolidayDate string `json:"holiday_date" binding:"required"`
	HolidayName string `json:"holiday_name" binding:"required"`
}

type holidayUploadRequest struct {
	Year     int                 `json:"year" binding:"required"`
	Holidays []holidayUploadItem `json:"holidays" binding:"required"`
}

// handleUploadHolidays accepts next year's holiday list. The window opens
// December 15th; earlier uploads and uploads for the current or past years
// are rejected.
func (s *Server) handleUploadHolidays(c *gin.Context) {
	var req holidayUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "year and holidays required"})
		return
	}
	today := time.Now()
	if today.Month() < time.December || today.Day() < 15 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Holiday list upload available from December 15th for the next year."})
		return
	}
	if req.Year <= today.Year() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Can only upload holiday list for next year (after Dec 15)."})
		return
	}
	rows := make([]model.Holiday, 0, len(req.Holidays))
	for _, h := range req.Holidays {
		d, err := time.Parse(time.DateOnly, h.HolidayDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid holiday_date. Use YYYY-MM-DD"})
			return
		}
		rows = append(rows, model.Holiday{
			Date: schedule.Normalize(d),
			Year: req.Year,
			Name: h.HolidayName,
		})
	}
	if err := s.holidays.Upsert(c.Request.Context(), rows); err != nil {
		s.log.Error().Err(err).Msg("holiday upload failed")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "holiday upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(rows)})
}

type createTaskRequest struct {
	TaskName   string `json:"task_name" binding:"required"`
	Department string `json:"department" binding:"required"`
	Frequency  string `json:"frequency" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "task_name, department, frequency and start_date required"})
		return
	}
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid start_date. Use YYYY-MM-DD"})
		return
	}
	task, err := s.tasks.Create(c.Request.Context(), currentUser(c), service.TaskInput{
		Name:       req.TaskName,
		Department: req.Department,
		Frequency:  schedule.Frequency(req.Frequency),
		StartDate:  start,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDepartment), errors.Is(err, service.ErrInvalidFrequency):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			s.log.Error().Err(err).Msg("create task failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "create task failed"})
		}
		return
	}
	c.JSON(http.StatusOK, taskJSON(task, currentUser(c).FullName))
}

func (s *Server) handleListTasks(c *gin.Context) {
	views, err := s.tasks.List(c.Request.Context(), currentUser(c), c.Query("user_id"), c.Query("reference_no"))
	if err != nil {
		s.log.Error().Err(err).Msg("list tasks failed")
		c.JSON(http.StatusOK, gin.H{"tasks": []gin.H{}})
		return
	}
	tasks := make([]gin.H, 0, len(views))
	for _, v := range views {
		tasks = append(tasks, taskJSON(&v.Task, v.DoerName))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleListOccurrences(c *gin.Context) {
	viewer := currentUser(c)
	doerID := c.Query("user_id")
	if !viewer.IsAdmin() {
		doerID = viewer.ID
	}
	filter := service.Filter(c.DefaultQuery("filter", "today"))

	occurrences := s.occurrences.List(c.Request.Context(), filter, time.Now(), doerID, c.Query("reference_no"))

	out := make([]gin.H, 0, len(occurrences))
	for _, o := range occurrences {
		row := gin.H{
			"task_id":         o.TaskID,
			"task_name":       o.TaskName,
			"reference_no":    o.ReferenceNo,
			"doer_id":         o.DoerID,
			"doer_name":       o.DoerName,
			"department":      o.Department,
			"occurrence_date": o.Date.Format(time.DateOnly),
			"completed_at":    nil,
		}
		if o.CompletedAt != nil {
			row["completed_at"] = o.CompletedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, gin.H{"occurrences": out})
}

type completeTaskRequest struct {
	OccurrenceDate string `json:"occurrence_date" binding:"required"`
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	var req completeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "occurrence_date required"})
		return
	}
	date, err := time.Parse(time.DateOnly, req.OccurrenceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid occurrence_date. Use YYYY-MM-DD"})
		return
	}
	err = s.tasks.Complete(c.Request.Context(), currentUser(c), c.Param("id"), date)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task marked as completed"})
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrNotAssignedDoer):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	default:
		s.log.Error().Err(err).Msg("complete task failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "complete task failed"})
	}
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.ListActive(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list users failed")
		c.JSON(http.StatusOK, gin.H{"users": []gin.H{}})
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{"id": u.ID, "full_name": u.FullName})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// handleSendDailyReminders starts the dispatch in the background and
// acknowledges immediately; the triggering request is never held open for
// the scan and mail delivery. Authorized by cron secret or admin session.
func (s *Server) handleSendDailyReminders(c *gin.Context) {
	secret := c.GetHeader("X-Cron-Secret")
	if secret == "" {
		secret = c.Query("secret")
	}
	if s.cronSecret == "" || secret != s.cronSecret {
		user := s.sessionUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "set X-Cron-Secret or log in as admin"})
			return
		}
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "admin only"})
			return
		}
	}
	go s.reminders.Run(context.Background(), time.Now())
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "started",
		"message": "Reminder job started. Check server logs for result.",
	})
}

func taskJSON(t *model.Task, doerName string) gin.H {
	return gin.H{
		"id":           t.ID,
		"reference_no": t.ReferenceNo,
		"task_name":    t.Name,
		"doer_id":      t.DoerID,
		"doer_name":    doerName,
		"department":   t.Department,
		"frequency":    t.Frequency,
		"start_date":   t.StartDate.Format(time.DateOnly),
		"created_at":   t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
