// Package usecases orchestrates the content-planning pipeline: topic
// analysis, angle selection, plan drafting, and plan refinement.
package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"viralflow/internal/domain"
	"viralflow/internal/prompt"
	"viralflow/pkg/log"
)

// Status is the pipeline state machine position.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusAnalyzing      Status = "analyzing"
	StatusSelectingAngle Status = "selecting_angle"
	StatusDrafting       Status = "drafting"
	StatusComplete       Status = "complete"
	StatusError          Status = "error"
)

// User-facing pipeline failure messages.
const (
	msgAnalysisFailed = "分析爆款角度失败，请重试。"
	msgDraftFailed    = "生成脚本失败，请重试。"
)

// missingSearchContext stands in for the inspiration summary when the
// contextual search step fails or returns nothing.
const missingSearchContext = "No search results available."

// Operation keys for the single-flight guards. Shot-image keys are
// derived per shot.
const (
	opAnalyze        = "analyze"
	opDraft          = "draft"
	opHookVariations = "hook_variations"
	opHookVisual     = "hook_visual"
	opBodyRewrite    = "body_rewrite"
	opAudit          = "audit"
	opDiagnostics    = "diagnostics"
	opTitles         = "titles"
	opNarration      = "narration"
	opThumbnail      = "thumbnail"
)

// Generator issues generative-model tasks. Satisfied by the genai
// adapter.
type Generator interface {
	AnalyzeAngles(ctx context.Context, topic string) ([]domain.ViralAngle, error)
	SearchInspiration(ctx context.Context, topic string) (domain.Inspiration, error)
	GeneratePlan(ctx context.Context, req prompt.PlanRequest) (domain.VideoPlan, error)
	Diagnose(ctx context.Context, plan domain.VideoPlan, profile *domain.CreatorProfile) (domain.ViralDiagnostics, error)
	AuditScript(ctx context.Context, script domain.VideoScript) (domain.ScriptAudit, error)
	HookVariations(ctx context.Context, currentHook, topic, tone string) ([]domain.HookVariation, error)
	TitleVariations(ctx context.Context, topic, summary string) ([]string, error)
	RewriteSection(ctx context.Context, currentText, instruction, contextText string) (string, error)
	GenerateShotImage(ctx context.Context, description, visualStyle, refDataURI string) (string, error)
	GenerateThumbnail(ctx context.Context, idea, title string) (string, error)
	SynthesizeNarration(ctx context.Context, text string) (string, error)
}

// Store persists user-scoped state. Satisfied by the store adapters.
type Store interface {
	User(ctx context.Context, id string) (domain.User, bool, error)
	SaveUser(ctx context.Context, user domain.User) error
	Preferences(ctx context.Context, userID string) (domain.Preferences, bool, error)
	SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error
	Profile(ctx context.Context, userID string) (domain.CreatorProfile, bool, error)
	SaveProfile(ctx context.Context, userID string, profile domain.CreatorProfile) error
	History(ctx context.Context, userID string) ([]domain.HistoryItem, error)
	SaveHistory(ctx context.Context, userID string, items []domain.HistoryItem) error
}

// Pipeline owns one user's generation state. All state is guarded by
// mu; model calls run outside the lock and their completions are
// applied only when the epoch captured at start is still current, so a
// restart or history load in the meantime discards stale results.
type Pipeline struct {
	gen    Generator
	store  Store
	userID string

	mu       sync.Mutex
	epoch    uint64
	inFlight map[string]bool

	status      Status
	errMsg      string
	topic       string
	platform    prompt.Platform
	tone        string
	duration    prompt.Duration
	angles      []domain.ViralAngle
	selected    *domain.ViralAngle
	plan        *domain.VideoPlan
	inspiration domain.Inspiration
	historyID   string
}

// NewPipeline creates an idle pipeline for one user.
func NewPipeline(gen Generator, store Store, userID string) *Pipeline {
	return &Pipeline{
		gen:      gen,
		store:    store,
		userID:   userID,
		inFlight: make(map[string]bool),
		status:   StatusIdle,
		platform: prompt.DefaultPlatform,
		tone:     prompt.DefaultTone,
		duration: prompt.DurationMedium,
	}
}

// PlanState is an immutable snapshot of the pipeline for callers.
type PlanState struct {
	Status           Status              `json:"status"`
	Error            string              `json:"error,omitempty"`
	Topic            string              `json:"topic,omitempty"`
	Platform         string              `json:"platform"`
	Tone             string              `json:"tone"`
	Duration         string              `json:"duration"`
	Angles           []domain.ViralAngle `json:"angles,omitempty"`
	SelectedAngleID  string              `json:"selectedAngleId,omitempty"`
	Plan             *domain.VideoPlan   `json:"plan,omitempty"`
	Inspiration      *domain.Inspiration `json:"inspiration,omitempty"`
	HistoryID        string              `json:"historyId,omitempty"`
	EstimatedSeconds int                 `json:"estimatedSeconds,omitempty"`
}

// State returns the current pipeline snapshot.
func (p *Pipeline) State() PlanState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pipeline) snapshotLocked() PlanState {
	state := PlanState{
		Status:    p.status,
		Error:     p.errMsg,
		Topic:     p.topic,
		Platform:  string(p.platform),
		Tone:      p.tone,
		Duration:  string(p.duration),
		HistoryID: p.historyID,
	}
	if len(p.angles) > 0 {
		state.Angles = append([]domain.ViralAngle(nil), p.angles...)
	}
	if p.selected != nil {
		state.SelectedAngleID = p.selected.ID
	}
	if p.plan != nil {
		plan := p.plan.Clone()
		state.Plan = &plan
		state.EstimatedSeconds = EstimateSpokenSeconds(plan.Script)
	}
	if p.inspiration.Summary != "" || len(p.inspiration.Sources) > 0 {
		insp := p.inspiration
		insp.Sources = append([]domain.GroundingSource(nil), p.inspiration.Sources...)
		state.Inspiration = &insp
	}
	return state
}

// EstimateSpokenSeconds estimates narration length at 4.5 spoken
// characters per second, rounded up. Only CJK characters count; Latin
// text, digits, and punctuation are read too unevenly to weigh.
func EstimateSpokenSeconds(script domain.VideoScript) int {
	chars := 0
	for _, r := range script.Hook + script.Body + script.CTA {
		if r >= 0x4e00 && r <= 0x9fa5 {
			chars++
		}
	}
	if chars == 0 {
		return 0
	}
	return int((float64(chars) + 4.4) / 4.5)
}

// fillDefaults resolves an omitted platform or tone from the user's
// saved preferences, falling back to the global defaults when none are
// stored. A store failure only costs the per-user defaults.
func (p *Pipeline) fillDefaults(ctx context.Context, platform, tone string) (string, string) {
	platform = strings.TrimSpace(platform)
	tone = strings.TrimSpace(tone)
	if platform == "" || tone == "" {
		prefs, found, err := p.store.Preferences(ctx, p.userID)
		if err != nil {
			log.GlobalWarnCtx(ctx, "failed to load preferences", "error", err.Error())
		} else if found {
			if platform == "" {
				platform = prefs.DefaultPlatform
			}
			if tone == "" {
				tone = prefs.DefaultTone
			}
		}
	}
	if tone == "" {
		tone = prompt.DefaultTone
	}
	return platform, tone
}

// Analyze (re)starts the pipeline for a topic. Allowed only from idle,
// complete, or error; it discards previous angles, the selected angle,
// and the link to any saved history record.
func (p *Pipeline) Analyze(ctx context.Context, topic, platform, tone, duration string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.ErrEmptyTopic
	}
	platform, tone = p.fillDefaults(ctx, platform, tone)

	p.mu.Lock()
	if p.inFlight[opAnalyze] {
		p.mu.Unlock()
		return domain.ErrOperationInFlight
	}
	switch p.status {
	case StatusIdle, StatusComplete, StatusError:
	default:
		status := p.status
		p.mu.Unlock()
		return fmt.Errorf("%w: cannot start analysis from %s", domain.ErrInvalidState, status)
	}

	p.epoch++
	epoch := p.epoch
	p.inFlight[opAnalyze] = true
	p.status = StatusAnalyzing
	p.errMsg = ""
	p.topic = topic
	p.platform = prompt.ParsePlatform(platform)
	p.duration = prompt.ParseDuration(duration)
	p.tone = tone
	p.angles = nil
	p.selected = nil
	p.plan = nil
	p.inspiration = domain.Inspiration{}
	p.historyID = ""
	p.mu.Unlock()

	angles, err := p.gen.AnalyzeAngles(ctx, topic)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, opAnalyze)
	if epoch != p.epoch {
		log.GlobalWarnCtx(ctx, "discarding stale analysis result", "topic", topic)
		return nil
	}
	if err != nil {
		p.status = StatusError
		p.errMsg = msgAnalysisFailed
		return fmt.Errorf("analyze topic: %w", err)
	}
	p.status = StatusSelectingAngle
	p.angles = angles
	return nil
}

// SelectAngle picks one of the analyzed angles and drafts the full
// plan. The contextual search step is best effort: its failure
// degrades to empty context instead of failing the draft.
func (p *Pipeline) SelectAngle(ctx context.Context, angleID string) error {
	p.mu.Lock()
	if p.inFlight[opDraft] {
		p.mu.Unlock()
		return domain.ErrOperationInFlight
	}
	if p.status != StatusSelectingAngle {
		status := p.status
		p.mu.Unlock()
		return fmt.Errorf("%w: cannot select an angle from %s", domain.ErrInvalidState, status)
	}

	var angle *domain.ViralAngle
	for i := range p.angles {
		if p.angles[i].ID == angleID {
			angle = &p.angles[i]
			break
		}
	}
	if angle == nil {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrAngleNotFound, angleID)
	}

	epoch := p.epoch
	p.inFlight[opDraft] = true
	p.status = StatusDrafting
	p.errMsg = ""
	selected := *angle
	p.selected = &selected
	topic, platform, tone, duration := p.topic, p.platform, p.tone, p.duration
	p.mu.Unlock()

	inspiration, err := p.gen.SearchInspiration(ctx, topic)
	if err != nil {
		log.GlobalWarnCtx(ctx, "inspiration search degraded", "error", err.Error())
		inspiration = domain.Inspiration{}
	}
	searchContext := inspiration.Summary
	if searchContext == "" {
		searchContext = missingSearchContext
	}

	profile := p.loadProfile(ctx)

	plan, err := p.gen.GeneratePlan(ctx, prompt.PlanRequest{
		Topic:    topic,
		Angle:    selected,
		Tone:     tone,
		Platform: platform,
		Duration: duration,
		Context:  searchContext,
		Profile:  profile,
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, opDraft)
	if epoch != p.epoch {
		log.GlobalWarnCtx(ctx, "discarding stale draft result", "topic", topic)
		return nil
	}
	if err != nil {
		p.status = StatusError
		p.errMsg = msgDraftFailed
		return fmt.Errorf("draft plan: %w", err)
	}

	p.status = StatusComplete
	p.plan = &plan
	p.inspiration = inspiration
	p.recordHistoryLocked(ctx)
	return nil
}

// recordHistoryLocked persists a new history record for the active
// plan and links the pipeline to it. Caller holds mu.
func (p *Pipeline) recordHistoryLocked(ctx context.Context) {
	item := domain.HistoryItem{
		ID:                 uuid.NewString(),
		Timestamp:          time.Now().UnixMilli(),
		Topic:              p.topic,
		Plan:               p.plan.Clone(),
		InspirationSummary: p.inspiration.Summary,
		Sources:            append([]domain.GroundingSource(nil), p.inspiration.Sources...),
	}
	if p.selected != nil {
		item.AngleUsed = p.selected.Title
	}

	items, err := p.store.History(ctx, p.userID)
	if err != nil {
		log.GlobalErrorCtx(ctx, "load history for append", "error", err.Error())
		return
	}
	items = append([]domain.HistoryItem{item}, items...)
	if err := p.store.SaveHistory(ctx, p.userID, items); err != nil {
		log.GlobalErrorCtx(ctx, "save history", "error", err.Error())
		return
	}
	p.historyID = item.ID
}

// syncHistoryLocked writes the active plan back to its linked history
// record, if any. Caller holds mu.
func (p *Pipeline) syncHistoryLocked(ctx context.Context) {
	if p.historyID == "" || p.plan == nil {
		return
	}
	items, err := p.store.History(ctx, p.userID)
	if err != nil {
		log.GlobalErrorCtx(ctx, "load history for sync", "error", err.Error())
		return
	}
	for i := range items {
		if items[i].ID == p.historyID {
			items[i].Plan = p.plan.Clone()
			if err := p.store.SaveHistory(ctx, p.userID, items); err != nil {
				log.GlobalErrorCtx(ctx, "sync history record", "error", err.Error())
			}
			return
		}
	}
}

func (p *Pipeline) loadProfile(ctx context.Context) *domain.CreatorProfile {
	profile, found, err := p.store.Profile(ctx, p.userID)
	if err != nil {
		log.GlobalWarnCtx(ctx, "load creator profile", "error", err.Error())
		return nil
	}
	if !found || !profile.IsSet() {
		return nil
	}
	return &profile
}

// Reset returns the pipeline to idle and invalidates in-flight work.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Pipeline) resetLocked() {
	p.epoch++
	p.status = StatusIdle
	p.errMsg = ""
	p.topic = ""
	p.platform = prompt.DefaultPlatform
	p.tone = prompt.DefaultTone
	p.duration = prompt.DurationMedium
	p.angles = nil
	p.selected = nil
	p.plan = nil
	p.inspiration = domain.Inspiration{}
	p.historyID = ""
}

// History lists the user's saved plans, most recent first.
func (p *Pipeline) History(ctx context.Context) ([]domain.HistoryItem, error) {
	return p.store.History(ctx, p.userID)
}

// LoadHistory restores a saved record as the active complete plan and
// re-links it, so subsequent refinements update the stored copy.
func (p *Pipeline) LoadHistory(ctx context.Context, historyID string) error {
	items, err := p.store.History(ctx, p.userID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	for _, item := range items {
		if item.ID != historyID {
			continue
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		p.epoch++
		p.status = StatusComplete
		p.errMsg = ""
		p.topic = item.Topic
		p.platform = prompt.ParsePlatform(item.Plan.Platform)
		p.tone = item.Plan.Script.Tone
		p.angles = nil
		p.selected = nil
		if item.AngleUsed != "" {
			p.selected = &domain.ViralAngle{Title: item.AngleUsed}
		}
		plan := item.Plan.Clone()
		p.plan = &plan
		p.inspiration = domain.Inspiration{
			Summary: item.InspirationSummary,
			Sources: append([]domain.GroundingSource(nil), item.Sources...),
		}
		p.historyID = item.ID
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrHistoryNotFound, historyID)
}

// DeleteHistory removes one saved record. Deleting the record backing
// the active plan resets the pipeline to idle.
func (p *Pipeline) DeleteHistory(ctx context.Context, historyID string) error {
	items, err := p.store.History(ctx, p.userID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ID == historyID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrHistoryNotFound, historyID)
	}
	if err := p.store.SaveHistory(ctx, p.userID, kept); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.historyID == historyID {
		p.resetLocked()
	}
	return nil
}

// ClearHistory removes all saved records and unlinks the active plan.
func (p *Pipeline) ClearHistory(ctx context.Context) error {
	if err := p.store.SaveHistory(ctx, p.userID, nil); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.historyID = ""
	return nil
}
