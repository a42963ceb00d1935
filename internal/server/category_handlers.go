package server

import (
	"github.com/gofiber/fiber/v2"

	"dayflow/internal/service"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type updateCategoryRequest struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	TaskCount *int    `json:"taskCount"`
}

// listCategories returns all categories. With ?withCounts=true each
// category's taskCount is recomputed from the current task snapshot.
func (s *Server) listCategories(c *fiber.Ctx) error {
	categories, err := s.categories.GetAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if c.QueryBool("withCounts") {
		tasks, err := s.tasks.GetAll(c.Context())
		if err != nil {
			return respondError(c, err)
		}
		categories = service.WithTaskCounts(categories, tasks)
	}
	return c.JSON(categories)
}

func (s *Server) createCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	category, err := s.categories.Create(c.Context(), service.CategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (s *Server) getCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "category id must be an integer")
	}
	category, err := s.categories.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

func (s *Server) updateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "category id must be an integer")
	}
	var req updateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	category, err := s.categories.Update(c.Context(), id, service.CategoryUpdate{
		Name:      req.Name,
		Color:     req.Color,
		TaskCount: req.TaskCount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

func (s *Server) deleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "category id must be an integer")
	}
	if err := s.categories.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
