// handlers/stats_routes.go
package handlers

import (
	"nird-resistance/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStatsRoutes(api fiber.Router, queryService *services.QueryService) {
	api.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := queryService.Stats(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":        true,
			"totalWarriors":  stats.TotalWarriors,
			"missionStats":   stats.MissionStats,
			"recentWarriors": stats.RecentWarriors,
			"goals":          stats.Goals,
			"impactMetrics":  stats.ImpactMetrics,
		})
	})

	// 🏆 Top warriors by impact score
	api.Get("/leaderboard", func(c *fiber.Ctx) error {
		board, err := queryService.Leaderboard(c.UserContext(), c.QueryInt("limit", services.DefaultLeaderboardLimit))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "warriors": board})
	})
}

// SetupCaptchaRoutes exposes challenge issuance. Only mounted when a captcha secret is configured.
func SetupCaptchaRoutes(api fiber.Router, captcha *services.CaptchaService) {
	api.Get("/captcha", func(c *fiber.Ctx) error {
		challenge, err := captcha.Issue()
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"token":     challenge.Token,
			"question":  challenge.Question,
			"expiresAt": challenge.ExpiresAt,
		})
	})
}
