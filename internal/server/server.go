// Package server hosts the task core behind an HTTP API. It is a thin
// presentation adapter: request parsing, error-kind mapping, and the
// projection parameters the dashboard views need.
package server

import (
	"errors"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"dayflow/internal/repository"
	"dayflow/internal/service"
)

// Server wires the services into fiber routes.
type Server struct {
	app        *fiber.App
	tasks      *service.TaskService
	categories *service.CategoryService
	progress   *service.ProgressService
	reminders  *service.ReminderService

	// version bumps on every task mutation; clients poll it to know when
	// to re-fetch their views.
	version atomic.Int64
}

func New(tasks *service.TaskService, categories *service.CategoryService, progress *service.ProgressService, reminders *service.ReminderService) *Server {
	s := &Server{
		tasks:      tasks,
		categories: categories,
		progress:   progress,
		reminders:  reminders,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "DayFlow API",
		DisableStartupMessage: true,
	})
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	tasks.OnMutate(func() { s.version.Add(1) })
	s.routes()
	return s
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/v1")

	tasks := api.Group("/tasks")
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.createTask)
	tasks.Get("/version", s.taskVersion)
	tasks.Get("/today", s.todaysTasks)
	tasks.Get("/tomorrow", s.tasksDueTomorrow)
	tasks.Get("/range", s.tasksForRange)
	tasks.Get("/schedule", s.taskSchedule)
	tasks.Get("/calendar", s.taskCalendar)
	tasks.Get("/:id", s.getTask)
	tasks.Patch("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)

	categories := api.Group("/categories")
	categories.Get("/", s.listCategories)
	categories.Post("/", s.createCategory)
	categories.Get("/:id", s.getCategory)
	categories.Patch("/:id", s.updateCategory)
	categories.Delete("/:id", s.deleteCategory)

	progress := api.Group("/progress")
	progress.Get("/:date", s.getProgress)
	progress.Put("/:date", s.upsertProgress)
	progress.Post("/:date/recompute", s.recomputeProgress)

	reminders := api.Group("/reminders")
	reminders.Post("/run", s.runReminders)
	reminders.Get("/upcoming", s.upcomingReminders)
}

func (s *Server) taskVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"version": s.version.Load()})
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps the core's error kinds onto HTTP statuses: NotFound to
// 404, validation failures to 400, everything else to 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrInvalidEmail):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}
