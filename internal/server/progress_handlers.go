package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"dayflow/internal/model"
	"dayflow/internal/service"
)

type upsertProgressRequest struct {
	TotalTasks        *int `json:"totalTasks"`
	CompletedTasks    *int `json:"completedTasks"`
	ProductivityScore *int `json:"productivityScore"`
}

func (s *Server) getProgress(c *fiber.Ctx) error {
	date, ok := dateParam(c)
	if !ok {
		return badRequest(c, "date must be formatted yyyy-mm-dd")
	}
	progress, err := s.progress.GetByDate(c.Context(), date)
	if err != nil {
		return respondError(c, err)
	}
	if progress == nil {
		return c.JSON(nil)
	}
	return c.JSON(progress)
}

func (s *Server) upsertProgress(c *fiber.Ctx) error {
	date, ok := dateParam(c)
	if !ok {
		return badRequest(c, "date must be formatted yyyy-mm-dd")
	}
	var req upsertProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	progress, err := s.progress.UpdateByDate(c.Context(), date, service.ProgressUpdate{
		TotalTasks:        req.TotalTasks,
		CompletedTasks:    req.CompletedTasks,
		ProductivityScore: req.ProductivityScore,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(progress)
}

// recomputeProgress rebuilds the day's aggregates from the live task
// collection and upserts the record.
func (s *Server) recomputeProgress(c *fiber.Ctx) error {
	date, ok := dateParam(c)
	if !ok {
		return badRequest(c, "date must be formatted yyyy-mm-dd")
	}
	tasks, err := s.tasks.GetAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	progress, err := s.progress.RecomputeForDate(c.Context(), date, tasks)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(progress)
}

func dateParam(c *fiber.Ctx) (string, bool) {
	raw := c.Params("date")
	if _, err := time.ParseInLocation(model.DateLayout, raw, time.Local); err != nil {
		return "", false
	}
	return raw, true
}
