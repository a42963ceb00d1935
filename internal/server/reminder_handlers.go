package server

import "github.com/gofiber/fiber/v2"

// runReminders triggers one reminder sweep outside the daily schedule.
func (s *Server) runReminders(c *fiber.Ctx) error {
	result, err := s.reminders.CheckAndSendReminders(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) upcomingReminders(c *fiber.Ctx) error {
	upcoming, err := s.reminders.UpcomingReminders(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(upcoming)
}
