// Package server exposes the checklist service over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"opsdesk/internal/repository"
	"opsdesk/internal/service"
)

// Server is the HTTP surface of the checklist service.
type Server struct {
	router      *gin.Engine
	auth        *service.AuthService
	tasks       *service.TaskService
	occurrences *service.OccurrenceService
	reminders   *service.ReminderService
	holidays    *repository.HolidayRepository
	users       *repository.UserRepository
	cronSecret  string
	log         zerolog.Logger
}

// NewServer wires the routes.
func NewServer(
	auth *service.AuthService,
	tasks *service.TaskService,
	occurrences *service.OccurrenceService,
	reminders *service.ReminderService,
	holidays *repository.HolidayRepository,
	users *repository.UserRepository,
	cronSecret string,
	log zerolog.Logger,
) *Server {
	router := gin.Default()

	s := &Server{
		router:      router,
		auth:        auth,
		tasks:       tasks,
		occurrences: occurrences,
		reminders:   reminders,
		holidays:    holidays,
		users:       users,
		cronSecret:  cronSecret,
		log:         log,
	}

	api := router.Group("/api")
	api.POST("/auth/login", s.handleLogin)

	cl := api.Group("/checklist")
	// The reminder trigger authorizes itself: cron secret or admin session.
	cl.POST("/send-daily-reminders", s.handleSendDailyReminders)
	cl.GET("/send-daily-reminders", s.handleSendDailyReminders)

	authed := cl.Group("", s.requireUser())
	{
		authed.GET("/departments", s.handleListDepartments)
		authed.GET("/holidays", s.handleListHolidays)
		authed.POST("/holidays/upload", s.requireAdmin(), s.handleUploadHolidays)
		authed.POST("/tasks", s.handleCreateTask)
		authed.GET("/tasks", s.handleListTasks)
		authed.GET("/occurrences", s.handleListOccurrences)
		authed.POST("/tasks/:id/complete", s.handleCompleteTask)
		authed.GET("/users", s.requireAdmin(), s.handleListUsers)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return s
}

// Handler returns the router for mounting on an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}
