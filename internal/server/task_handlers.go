package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"dayflow/internal/model"
	"dayflow/internal/query"
	"dayflow/internal/service"
)

type createTaskRequest struct {
	Title         string     `json:"title"`
	Priority      string     `json:"priority"`
	Category      string     `json:"category"`
	DueDate       *time.Time `json:"dueDate"`
	AssignedUsers []string   `json:"assignedUsers"`
}

// updateTaskRequest mirrors service.TaskUpdate. Any Id in the body is
// ignored; identity comes from the URL and is not writable.
type updateTaskRequest struct {
	Title         *string    `json:"title"`
	Priority      *string    `json:"priority"`
	Category      *string    `json:"category"`
	DueDate       *time.Time `json:"dueDate"`
	ClearDueDate  bool       `json:"clearDueDate"`
	Completed     *bool      `json:"completed"`
	AssignedUsers *[]string  `json:"assignedUsers"`
}

// listTasks serves the list projection. Query params: categories (comma
// separated, empty = all) and sort (priority|dueDate|created).
func (s *Server) listTasks(c *fiber.Ctx) error {
	tasks, err := s.tasks.GetAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	if raw := c.Query("categories"); raw != "" {
		tasks = query.FilterByCategories(tasks, strings.Split(raw, ","))
	}
	if sortKey := c.Query("sort"); sortKey != "" {
		tasks = query.SortTasks(tasks, query.SortKey(sortKey))
	}
	return c.JSON(tasks)
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	input := service.TaskInput{
		Title:         req.Title,
		Category:      req.Category,
		DueDate:       req.DueDate,
		AssignedUsers: req.AssignedUsers,
	}
	if req.Priority != "" {
		priority, ok := model.ParsePriority(req.Priority)
		if !ok {
			return badRequest(c, "priority must be low, medium, or high")
		}
		input.Priority = priority
	}

	task, err := s.tasks.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) getTask(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "task id must be an integer")
	}
	task, err := s.tasks.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "task id must be an integer")
	}
	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	upd := service.TaskUpdate{
		Title:         req.Title,
		Category:      req.Category,
		DueDate:       req.DueDate,
		ClearDueDate:  req.ClearDueDate,
		Completed:     req.Completed,
		AssignedUsers: req.AssignedUsers,
	}
	if req.Priority != nil {
		priority, ok := model.ParsePriority(*req.Priority)
		if !ok {
			return badRequest(c, "priority must be low, medium, or high")
		}
		upd.Priority = &priority
	}

	task, err := s.tasks.Update(c.Context(), id, upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "task id must be an integer")
	}
	if err := s.tasks.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) todaysTasks(c *fiber.Ctx) error {
	tasks, err := s.tasks.GetTodaysTasks(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

func (s *Server) tasksDueTomorrow(c *fiber.Ctx) error {
	tasks, err := s.tasks.GetTasksDueTomorrow(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

func (s *Server) tasksForRange(c *fiber.Ctx) error {
	start, err := time.ParseInLocation(time.RFC3339, c.Query("start"), time.Local)
	if err != nil {
		return badRequest(c, "start must be an RFC 3339 timestamp")
	}
	end, err := time.ParseInLocation(time.RFC3339, c.Query("end"), time.Local)
	if err != nil {
		return badRequest(c, "end must be an RFC 3339 timestamp")
	}
	tasks, err := s.tasks.GetTasksForDateRange(c.Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// scheduleSlot is one hour of the time-block view.
type scheduleSlot struct {
	Hour  int          `json:"hour"`
	Tasks []model.Task `json:"tasks"`
}

// taskSchedule serves the time-block projection: the day's tasks bucketed
// into the 8 AM to 7 PM slots. Defaults to today.
func (s *Server) taskSchedule(c *fiber.Ctx) error {
	day, err := dayParam(c)
	if err != nil {
		return badRequest(c, "date must be formatted yyyy-mm-dd")
	}
	tasks, err := s.tasks.GetAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	slots := make([]scheduleSlot, 0, len(query.WorkingHours()))
	for _, hour := range query.WorkingHours() {
		slots = append(slots, scheduleSlot{Hour: hour, Tasks: query.TasksForHour(tasks, day, hour)})
	}
	return c.JSON(slots)
}

// taskCalendar serves the calendar projection: tasks due on one calendar
// day, time of day ignored. Defaults to today.
func (s *Server) taskCalendar(c *fiber.Ctx) error {
	day, err := dayParam(c)
	if err != nil {
		return badRequest(c, "date must be formatted yyyy-mm-dd")
	}
	tasks, err := s.tasks.GetAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(query.TasksForDate(tasks, day))
}

func dayParam(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation(model.DateLayout, raw, time.Local)
}
