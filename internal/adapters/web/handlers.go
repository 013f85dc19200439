// Package web exposes the planning pipeline as a JSON API.
package web

import (
	"context"
	"errors"
	"net/url"
	"time"

	"viralflow/internal/adapters/export"
	"viralflow/internal/domain"
	"viralflow/internal/prompt"
	"viralflow/internal/usecases"
	"viralflow/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// localsUserID is the Fiber locals key holding the authenticated
// user id.
const localsUserID = "userID"

// Handlers contains the HTTP handlers for the planning API.
type Handlers struct {
	accounts *usecases.AccountsUseCase
	sessions *usecases.SessionManager
	timeout  time.Duration
}

// NewHandlers creates a new Handlers instance. The timeout caps every
// generation call issued on behalf of a request.
func NewHandlers(accounts *usecases.AccountsUseCase, sessions *usecases.SessionManager, timeout time.Duration) *Handlers {
	return &Handlers{
		accounts: accounts,
		sessions: sessions,
		timeout:  timeout,
	}
}

// AuthMiddleware resolves the X-User-ID header to a stored user and
// rejects requests without one.
func (h *Handlers) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := h.accounts.User(c.UserContext(), c.Get("X-User-ID"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "请先登录。"})
		}
		c.Locals(localsUserID, user.ID)
		return c.Next()
	}
}

func (h *Handlers) userID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}

func (h *Handlers) pipeline(c *fiber.Ctx) *usecases.Pipeline {
	return h.sessions.Pipeline(h.userID(c))
}

// genContext derives a deadline-bounded context for generation calls.
func (h *Handlers) genContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}

// statusForError maps the domain error taxonomy to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrEmptyTopic),
		errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAngleNotFound),
		errors.Is(err, domain.ErrShotNotFound),
		errors.Is(err, domain.ErrHistoryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrNoActivePlan),
		errors.Is(err, domain.ErrOperationInFlight):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrGenerationFailed),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrNoImagePayload),
		errors.Is(err, domain.ErrNoAudioPayload):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Login creates a user record for the given name and email.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.accounts.Login(c.UserContext(), body.Name, body.Email)
	if err != nil {
		return respondError(c, err)
	}
	log.GlobalInfoCtx(c.UserContext(), "user logged in", "user_id", user.ID)
	return c.JSON(user)
}

// Logout discards the user's in-memory session.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	h.sessions.Drop(h.userID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPreferences returns the user's generation defaults.
func (h *Handlers) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.accounts.Preferences(c.UserContext(), h.userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prefs)
}

// PutPreferences stores the user's generation defaults.
func (h *Handlers) PutPreferences(c *fiber.Ctx) error {
	var prefs domain.Preferences
	if err := c.BodyParser(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	saved, err := h.accounts.SavePreferences(c.UserContext(), h.userID(c), prefs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saved)
}

// GetProfile returns the user's creator profile.
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	profile, err := h.accounts.Profile(c.UserContext(), h.userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// PutProfile stores the user's creator profile.
func (h *Handlers) PutProfile(c *fiber.Ctx) error {
	var profile domain.CreatorProfile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.accounts.SaveProfile(c.UserContext(), h.userID(c), profile); err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// ListHistory returns the user's saved plans, most recent first.
func (h *Handlers) ListHistory(c *fiber.Ctx) error {
	items, err := h.pipeline(c).History(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}
	return c.JSON(items)
}

// LoadHistory restores a saved record as the active plan.
func (h *Handlers) LoadHistory(c *fiber.Ctx) error {
	p := h.pipeline(c)
	if err := p.LoadHistory(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(p.State())
}

// DeleteHistory removes one saved record.
func (h *Handlers) DeleteHistory(c *fiber.Ctx) error {
	p := h.pipeline(c)
	if err := p.DeleteHistory(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(p.State())
}

// ClearHistory removes all saved records.
func (h *Handlers) ClearHistory(c *fiber.Ctx) error {
	p := h.pipeline(c)
	if err := p.ClearHistory(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(p.State())
}

// GetPlan returns the pipeline state snapshot.
func (h *Handlers) GetPlan(c *fiber.Ctx) error {
	return c.JSON(h.pipeline(c).State())
}

// Analyze starts a new analysis for a topic.
func (h *Handlers) Analyze(c *fiber.Ctx) error {
	var body struct {
		Topic    string `json:"topic"`
		Platform string `json:"platform"`
		Tone     string `json:"tone"`
		Duration string `json:"duration"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, cancel := h.genContext(c)
	defer cancel()

	p := h.pipeline(c)
	if err := p.Analyze(ctx, body.Topic, body.Platform, body.Tone, body.Duration); err != nil {
		if errors.Is(err, domain.ErrEmptyTopic) || errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrOperationInFlight) {
			return respondError(c, err)
		}
		// pipeline is now in the error state; surface the snapshot
		return c.Status(fiber.StatusBadGateway).JSON(p.State())
	}
	return c.JSON(p.State())
}

// SelectAngle picks an angle and drafts the plan.
func (h *Handlers) SelectAngle(c *fiber.Ctx) error {
	var body struct {
		AngleID string `json:"angleId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, cancel := h.genContext(c)
	defer cancel()

	p := h.pipeline(c)
	if err := p.SelectAngle(ctx, body.AngleID); err != nil {
		if errors.Is(err, domain.ErrAngleNotFound) || errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrOperationInFlight) {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusBadGateway).JSON(p.State())
	}
	return c.JSON(p.State())
}

// HookVariations generates three alternative hooks without mutating
// the plan.
func (h *Handlers) HookVariations(c *fiber.Ctx) error {
	ctx, cancel := h.genContext(c)
	defer cancel()

	variations, err := h.pipeline(c).OptimizeHook(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"variations": variations})
}

// ApplyHook replaces the script hook with a chosen variation.
func (h *Handlers) ApplyHook(c *fiber.Ctx) error {
	var body struct {
		Hook string `json:"hook"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	plan, err := h.pipeline(c).ApplyHook(c.UserContext(), body.Hook)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// HookVisual generates the ephemeral opening-frame image.
func (h *Handlers) HookVisual(c *fiber.Ctx) error {
	ctx, cancel := h.genContext(c)
	defer cancel()

	uri, err := h.pipeline(c).GenerateHookVisual(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"imageUrl": uri})
}

// RewriteBody rewrites the script body with a preset or a custom
// instruction.
func (h *Handlers) RewriteBody(c *fiber.Ctx) error {
	var body struct {
		Preset      string `json:"preset"`
		Instruction string `json:"instruction"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, cancel := h.genContext(c)
	defer cancel()

	plan, err := h.pipeline(c).PolishBody(ctx, body.Preset, body.Instruction)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// Audit runs the writing-quality audit.
func (h *Handlers) Audit(c *fiber.Ctx) error {
	ctx, cancel := h.genContext(c)
	defer cancel()

	plan, err := h.pipeline(c).Audit(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// Diagnostics runs the platform algorithm-fit simulation.
func (h *Handlers) Diagnostics(c *fiber.Ctx) error {
	ctx, cancel := h.genContext(c)
	defer cancel()

	plan, err := h.pipeline(c).Diagnose(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// Titles generates alternative titles without mutating the plan.
func (h *Handlers) Titles(c *fiber.Ctx) error {
	ctx, cancel := h.genContext(c)
	defer cancel()

	titles, err := h.pipeline(c).GenerateTitles(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"titles": titles})
}

// ApplyTitle replaces the script title with a chosen variation.
func (h *Handlers) ApplyTitle(c *fiber.Ctx) error {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	plan, err := h.pipeline(c).ApplyTitle(c.UserContext(), body.Title)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// Narration synthesizes the narration audio.
func (h *Handlers) Narration(c *fiber.Ctx) error {
	ctx, cancel := h.genContext(c)
	defer cancel()

	plan, err := h.pipeline(c).SynthesizeNarration(ctx)
	if err != nil {
		if statusForError(err) == fiber.StatusBadGateway {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "生成失败，请重试"})
		}
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// ShotImage generates a visual for one shot.
func (h *Handlers) ShotImage(c *fiber.Ctx) error {
	ctx, cancel := h.genContext(c)
	defer cancel()

	plan, err := h.pipeline(c).GenerateShotImage(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// UploadShotImage replaces one shot's image with an uploaded data URI.
func (h *Handlers) UploadShotImage(c *fiber.Ctx) error {
	var body struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	plan, err := h.pipeline(c).UploadShotImage(c.UserContext(), c.Params("id"), body.ImageURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// Thumbnail generates the cover image.
func (h *Handlers) Thumbnail(c *fiber.Ctx) error {
	ctx, cancel := h.genContext(c)
	defer cancel()

	plan, err := h.pipeline(c).GenerateThumbnail(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// ExportXlsx streams the plan workbook.
func (h *Handlers) ExportXlsx(c *fiber.Ctx) error {
	state := h.pipeline(c).State()
	if state.Plan == nil {
		return respondError(c, domain.ErrNoActivePlan)
	}

	data, err := export.Workbook(*state.Plan, state.EstimatedSeconds)
	if err != nil {
		return respondError(c, err)
	}

	filename := export.WorkbookFilename(state.Plan.Script.Title)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename*=UTF-8''`+url.PathEscape(filename))
	return c.Send(data)
}

// ExportMarkdown streams the minimal script document.
func (h *Handlers) ExportMarkdown(c *fiber.Ctx) error {
	state := h.pipeline(c).State()
	if state.Plan == nil {
		return respondError(c, domain.ErrNoActivePlan)
	}

	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="script.md"`)
	return c.SendString(export.Markdown(*state.Plan))
}

// Teleprompter returns the spoken script as plain text.
func (h *Handlers) Teleprompter(c *fiber.Ctx) error {
	state := h.pipeline(c).State()
	if state.Plan == nil {
		return respondError(c, domain.ErrNoActivePlan)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(prompt.TeleprompterText(state.Plan.Script))
}
