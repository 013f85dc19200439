package usecases

import (
	"context"
	"fmt"
	"strings"

	"viralflow/internal/domain"
	"viralflow/internal/prompt"
	"viralflow/pkg/log"
)

// beginRefinement validates that a complete plan is active, takes the
// operation's single-flight slot, and returns the current epoch plus a
// working copy of the plan.
func (p *Pipeline) beginRefinement(op string) (uint64, domain.VideoPlan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusComplete || p.plan == nil {
		return 0, domain.VideoPlan{}, domain.ErrNoActivePlan
	}
	if p.inFlight[op] {
		return 0, domain.VideoPlan{}, domain.ErrOperationInFlight
	}
	p.inFlight[op] = true
	return p.epoch, p.plan.Clone(), nil
}

// applyRefinement applies a field mutation to the then-current plan
// value and syncs the linked history record. A completion whose epoch
// was superseded by a restart or history load is discarded.
func (p *Pipeline) applyRefinement(ctx context.Context, op string, epoch uint64, mutate func(*domain.VideoPlan)) (domain.VideoPlan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, op)

	if epoch != p.epoch || p.plan == nil {
		log.GlobalWarnCtx(ctx, "discarding superseded refinement result", "operation", op)
		return domain.VideoPlan{}, fmt.Errorf("%w: %s result superseded", domain.ErrInvalidState, op)
	}

	updated := p.plan.Clone()
	mutate(&updated)
	p.plan = &updated
	p.syncHistoryLocked(ctx)
	return updated.Clone(), nil
}

// abortRefinement releases the single-flight slot without mutating
// the plan.
func (p *Pipeline) abortRefinement(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, op)
}

// OptimizeHook generates three alternative hooks. It never mutates the
// plan; a variation takes effect only through ApplyHook.
func (p *Pipeline) OptimizeHook(ctx context.Context) ([]domain.HookVariation, error) {
	_, plan, err := p.beginRefinement(opHookVariations)
	if err != nil {
		return nil, err
	}
	defer p.abortRefinement(opHookVariations)

	variations, err := p.gen.HookVariations(ctx, plan.Script.Hook, p.topicSnapshot(), plan.Script.Tone)
	if err != nil {
		return nil, fmt.Errorf("optimize hook: %w", err)
	}
	return variations, nil
}

// ApplyHook replaces the script hook with a chosen variation. Local
// mutation, no model call.
func (p *Pipeline) ApplyHook(ctx context.Context, hook string) (domain.VideoPlan, error) {
	hook = strings.TrimSpace(hook)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusComplete || p.plan == nil {
		return domain.VideoPlan{}, domain.ErrNoActivePlan
	}
	updated := p.plan.Clone()
	updated.Script.Hook = hook
	p.plan = &updated
	p.syncHistoryLocked(ctx)
	return updated.Clone(), nil
}

// GenerateHookVisual renders an opening-frame image seeded from the
// first shot (falling back to the hook text), optionally conditioned
// on that shot's existing image. The result is ephemeral and not
// written into the plan.
func (p *Pipeline) GenerateHookVisual(ctx context.Context) (string, error) {
	_, plan, err := p.beginRefinement(opHookVisual)
	if err != nil {
		return "", err
	}
	defer p.abortRefinement(opHookVisual)

	description := plan.Script.Hook
	reference := ""
	if len(plan.ShotList) > 0 {
		if first := plan.ShotList[0]; first.Description != "" {
			description = first.Description
			reference = first.ImageURL
		}
	}

	uri, err := p.gen.GenerateShotImage(ctx, description, prompt.HookVisualStyle, reference)
	if err != nil {
		return "", fmt.Errorf("generate hook visual: %w", err)
	}
	return uri, nil
}

// PolishBody rewrites the script body with a fixed preset or an
// arbitrary instruction. Unknown presets fall back to the instruction
// text as-is.
func (p *Pipeline) PolishBody(ctx context.Context, preset, instruction string) (domain.VideoPlan, error) {
	if text, ok := prompt.RewritePresets[preset]; ok {
		instruction = text
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return domain.VideoPlan{}, fmt.Errorf("%w: empty rewrite instruction", domain.ErrInvalidInput)
	}

	epoch, plan, err := p.beginRefinement(opBodyRewrite)
	if err != nil {
		return domain.VideoPlan{}, err
	}

	rewriteContext := fmt.Sprintf("开头: %s\n结尾: %s", plan.Script.Hook, plan.Script.CTA)
	body, err := p.gen.RewriteSection(ctx, plan.Script.Body, instruction, rewriteContext)
	if err != nil {
		p.abortRefinement(opBodyRewrite)
		return domain.VideoPlan{}, fmt.Errorf("polish body: %w", err)
	}

	return p.applyRefinement(ctx, opBodyRewrite, epoch, func(plan *domain.VideoPlan) {
		plan.Script.Body = body
	})
}

// Audit runs the writing-quality audit and attaches the result to the
// plan. Repeat invocations replace the previous audit only.
func (p *Pipeline) Audit(ctx context.Context) (domain.VideoPlan, error) {
	epoch, plan, err := p.beginRefinement(opAudit)
	if err != nil {
		return domain.VideoPlan{}, err
	}

	audit, err := p.gen.AuditScript(ctx, plan.Script)
	if err != nil {
		p.abortRefinement(opAudit)
		return domain.VideoPlan{}, fmt.Errorf("audit script: %w", err)
	}

	return p.applyRefinement(ctx, opAudit, epoch, func(plan *domain.VideoPlan) {
		plan.ScriptAudit = &audit
	})
}

// Diagnose runs the platform algorithm-fit simulation and attaches the
// result to the plan.
func (p *Pipeline) Diagnose(ctx context.Context) (domain.VideoPlan, error) {
	epoch, plan, err := p.beginRefinement(opDiagnostics)
	if err != nil {
		return domain.VideoPlan{}, err
	}

	diagnostics, err := p.gen.Diagnose(ctx, plan, p.loadProfile(ctx))
	if err != nil {
		p.abortRefinement(opDiagnostics)
		return domain.VideoPlan{}, fmt.Errorf("diagnose plan: %w", err)
	}

	return p.applyRefinement(ctx, opDiagnostics, epoch, func(plan *domain.VideoPlan) {
		plan.Diagnostics = &diagnostics
	})
}

// GenerateTitles produces alternative high-CTR titles. Non-mutating
// until a title is applied.
func (p *Pipeline) GenerateTitles(ctx context.Context) ([]string, error) {
	_, plan, err := p.beginRefinement(opTitles)
	if err != nil {
		return nil, err
	}
	defer p.abortRefinement(opTitles)

	titles, err := p.gen.TitleVariations(ctx, p.topicSnapshot(), plan.Script.Body)
	if err != nil {
		return nil, fmt.Errorf("generate titles: %w", err)
	}
	return titles, nil
}

// ApplyTitle replaces the script title with a chosen variation. Local
// mutation, no model call.
func (p *Pipeline) ApplyTitle(ctx context.Context, title string) (domain.VideoPlan, error) {
	title = strings.TrimSpace(title)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusComplete || p.plan == nil {
		return domain.VideoPlan{}, domain.ErrNoActivePlan
	}
	updated := p.plan.Clone()
	updated.Script.Title = title
	p.plan = &updated
	p.syncHistoryLocked(ctx)
	return updated.Clone(), nil
}

// SynthesizeNarration generates the narration audio for the script and
// stores its data URI on the plan.
func (p *Pipeline) SynthesizeNarration(ctx context.Context) (domain.VideoPlan, error) {
	epoch, plan, err := p.beginRefinement(opNarration)
	if err != nil {
		return domain.VideoPlan{}, err
	}

	audioURL, err := p.gen.SynthesizeNarration(ctx, prompt.NarrationText(plan.Script))
	if err != nil {
		p.abortRefinement(opNarration)
		return domain.VideoPlan{}, fmt.Errorf("synthesize narration: %w", err)
	}

	return p.applyRefinement(ctx, opNarration, epoch, func(plan *domain.VideoPlan) {
		plan.Script.AudioURL = audioURL
	})
}

// GenerateShotImage renders a visual for one shot, conditioned on the
// shot's existing image when it has one.
func (p *Pipeline) GenerateShotImage(ctx context.Context, shotID string) (domain.VideoPlan, error) {
	op := "shot_image/" + shotID

	epoch, plan, err := p.beginRefinement(op)
	if err != nil {
		return domain.VideoPlan{}, err
	}

	idx := plan.FindShot(shotID)
	if idx < 0 {
		p.abortRefinement(op)
		return domain.VideoPlan{}, fmt.Errorf("%w: %s", domain.ErrShotNotFound, shotID)
	}
	shot := plan.ShotList[idx]

	uri, err := p.gen.GenerateShotImage(ctx, shot.Description, plan.Editing.VisualStyle, shot.ImageURL)
	if err != nil {
		p.abortRefinement(op)
		return domain.VideoPlan{}, fmt.Errorf("generate shot image: %w", err)
	}

	return p.applyRefinement(ctx, op, epoch, func(plan *domain.VideoPlan) {
		if i := plan.FindShot(shotID); i >= 0 {
			plan.ShotList[i].ImageURL = uri
		}
	})
}

// UploadShotImage replaces one shot's image with a caller-supplied
// data URI. Bypasses the model entirely.
func (p *Pipeline) UploadShotImage(ctx context.Context, shotID, dataURI string) (domain.VideoPlan, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return domain.VideoPlan{}, fmt.Errorf("%w: shot image must be an image data URI", domain.ErrInvalidInput)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusComplete || p.plan == nil {
		return domain.VideoPlan{}, domain.ErrNoActivePlan
	}
	if p.plan.FindShot(shotID) < 0 {
		return domain.VideoPlan{}, fmt.Errorf("%w: %s", domain.ErrShotNotFound, shotID)
	}

	updated := p.plan.Clone()
	updated.ShotList[updated.FindShot(shotID)].ImageURL = dataURI
	p.plan = &updated
	p.syncHistoryLocked(ctx)
	return updated.Clone(), nil
}

// GenerateThumbnail renders the cover image from the publishing
// guide's thumbnail idea and the current title.
func (p *Pipeline) GenerateThumbnail(ctx context.Context) (domain.VideoPlan, error) {
	epoch, plan, err := p.beginRefinement(opThumbnail)
	if err != nil {
		return domain.VideoPlan{}, err
	}

	uri, err := p.gen.GenerateThumbnail(ctx, plan.Publishing.ThumbnailIdea, plan.Script.Title)
	if err != nil {
		p.abortRefinement(opThumbnail)
		return domain.VideoPlan{}, fmt.Errorf("generate thumbnail: %w", err)
	}

	return p.applyRefinement(ctx, opThumbnail, epoch, func(plan *domain.VideoPlan) {
		plan.Publishing.ThumbnailImageURL = uri
	})
}

func (p *Pipeline) topicSnapshot() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.topic
}
