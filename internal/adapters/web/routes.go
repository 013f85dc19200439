package web

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures the API routes. Generation endpoints sit
// behind the rate limiter; everything except login requires the
// X-User-ID header.
func SetupRoutes(app *fiber.App, handlers *Handlers, rateLimiter *RateLimiter) {
	api := app.Group("/api")

	api.Post("/auth/login", handlers.Login)

	authed := api.Group("", handlers.AuthMiddleware())
	authed.Post("/auth/logout", handlers.Logout)

	authed.Get("/preferences", handlers.GetPreferences)
	authed.Put("/preferences", handlers.PutPreferences)
	authed.Get("/profile", handlers.GetProfile)
	authed.Put("/profile", handlers.PutProfile)

	authed.Get("/history", handlers.ListHistory)
	authed.Post("/history/:id/load", handlers.LoadHistory)
	authed.Delete("/history/:id", handlers.DeleteHistory)
	authed.Delete("/history", handlers.ClearHistory)

	authed.Get("/plan", handlers.GetPlan)
	authed.Get("/plan/export/xlsx", handlers.ExportXlsx)
	authed.Get("/plan/export/markdown", handlers.ExportMarkdown)
	authed.Get("/plan/teleprompter", handlers.Teleprompter)

	// local mutations, no model call
	authed.Post("/plan/hook/apply", handlers.ApplyHook)
	authed.Post("/plan/title/apply", handlers.ApplyTitle)
	authed.Put("/plan/shots/:id/image", handlers.UploadShotImage)

	gen := authed.Group("", rateLimiter.Middleware())
	gen.Post("/plan/analyze", handlers.Analyze)
	gen.Post("/plan/select", handlers.SelectAngle)
	gen.Post("/plan/hook/variations", handlers.HookVariations)
	gen.Post("/plan/hook/visual", handlers.HookVisual)
	gen.Post("/plan/body/rewrite", handlers.RewriteBody)
	gen.Post("/plan/audit", handlers.Audit)
	gen.Post("/plan/diagnostics", handlers.Diagnostics)
	gen.Post("/plan/titles", handlers.Titles)
	gen.Post("/plan/audio", handlers.Narration)
	gen.Post("/plan/shots/:id/image", handlers.ShotImage)
	gen.Post("/plan/thumbnail", handlers.Thumbnail)
}
