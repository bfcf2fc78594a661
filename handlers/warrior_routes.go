// handlers/warrior_routes.go
package handlers

import (
	"net/url"
	"strconv"

	"nird-resistance/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWarriorRoutes(api fiber.Router, warriorService *services.WarriorService, queryService *services.QueryService) {
	warriors := api.Group("/warriors")

	// 📜 List with filters + pagination
	warriors.Get("/", func(c *fiber.Ctx) error {
		page := queryInt(c, "page", services.DefaultPage)
		limit := queryInt(c, "limit", services.DefaultPageSize)
		filter := services.ListFilter{
			Mission: c.Query("mission"),
			Status:  c.Query("status"),
			Village: c.Query("village"),
		}

		result, err := queryService.ListWarriors(c.UserContext(), filter, page, limit)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"count":       len(result.Warriors),
			"total":       result.Total,
			"totalPages":  result.TotalPages,
			"currentPage": result.Page,
			"warriors":    result.Warriors,
		})
	})

	// 🔎 Search, registered before /:id so "search" is not taken for an id
	warriors.Get("/search/:query", func(c *fiber.Ctx) error {
		query, err := url.PathUnescape(c.Params("query"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid search query")
		}
		found, err := queryService.SearchWarriors(c.UserContext(), query)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"count":    len(found),
			"warriors": found,
		})
	})

	warriors.Get("/:id", func(c *fiber.Ctx) error {
		warrior, err := queryService.GetWarrior(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "warrior": warrior})
	})

	// 🛡️ Registration
	warriors.Post("/", func(c *fiber.Ctx) error {
		var in services.CreateWarriorInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		warrior, err := warriorService.CreateWarrior(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Welcome to the resistance! 🛡️",
			"warrior": warrior,
		})
	})

	warriors.Put("/:id", func(c *fiber.Ctx) error {
		var in services.UpdateWarriorInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
			}
		}

		warrior, err := warriorService.UpdateWarrior(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Profile updated successfully! 🎉",
			"warrior": warrior,
		})
	})

	warriors.Delete("/:id", func(c *fiber.Ctx) error {
		if err := warriorService.DeleteWarrior(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Warrior removed from resistance",
		})
	})

	// 🏅 Achievements
	warriors.Post("/:id/achievements", func(c *fiber.Ctx) error {
		var in services.AchievementInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		achievement, err := warriorService.AddAchievement(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"message":     "Achievement unlocked! 🎉",
			"achievement": achievement,
		})
	})
}

// queryInt reads an integer query parameter. A present but non-numeric value
// becomes 0, which the services reject as out of range.
func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
