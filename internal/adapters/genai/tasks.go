package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"viralflow/internal/domain"
	"viralflow/internal/prompt"
	"viralflow/pkg/log"
)

// AnalyzeAngles runs the angle-analysis task. The response must decode
// to exactly four angles, one per psychological driver; any other
// cardinality is treated as a malformed response.
func (c *Client) AnalyzeAngles(ctx context.Context, topic string) ([]domain.ViralAngle, error) {
	text, schema := prompt.AngleAnalysis(topic)

	var out struct {
		Angles []domain.ViralAngle `json:"angles" validate:"required,len=4,dive"`
	}
	if err := c.generateJSON(ctx, c.models.Text, text, schema, &out); err != nil {
		return nil, fmt.Errorf("analyze angles: %w", err)
	}
	return out.Angles, nil
}

// SearchInspiration runs the grounded contextual search. It never uses
// a response schema; the summary is the raw text and sources come from
// the grounding metadata.
func (c *Client) SearchInspiration(ctx context.Context, topic string) (domain.Inspiration, error) {
	resp, err := c.generate(ctx, c.models.Text, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt.InspirationSearch(topic)}}}},
		Tools:    []tool{{}},
	})
	if err != nil {
		return domain.Inspiration{}, fmt.Errorf("search inspiration: %w", err)
	}

	summary := strings.TrimSpace(resp.text())
	if summary == "" {
		summary = "暂无摘要可用。"
	}

	var sources []domain.GroundingSource
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			src := domain.GroundingSource{Title: chunk.Web.Title, URI: chunk.Web.URI}
			if src.Title == "" {
				src.Title = "Source"
			}
			if src.URI == "" {
				src.URI = "#"
			}
			sources = append(sources, src)
		}
	}

	return domain.Inspiration{Summary: summary, Sources: sources}, nil
}

// GeneratePlan runs the plan-generation task. The platform identifier
// is attached to the parsed plan here; the model never produces it.
func (c *Client) GeneratePlan(ctx context.Context, req prompt.PlanRequest) (domain.VideoPlan, error) {
	text, schema := prompt.Plan(req)

	var plan domain.VideoPlan
	if err := c.generateJSON(ctx, c.models.Text, text, schema, &plan); err != nil {
		return domain.VideoPlan{}, fmt.Errorf("generate plan: %w", err)
	}
	plan.Platform = string(req.Platform)
	return plan, nil
}

// Diagnose runs the platform algorithm-fit simulation on the
// reasoning model.
func (c *Client) Diagnose(ctx context.Context, plan domain.VideoPlan, profile *domain.CreatorProfile) (domain.ViralDiagnostics, error) {
	text, schema := prompt.Diagnostics(plan, profile)

	var out domain.ViralDiagnostics
	if err := c.generateJSON(ctx, c.models.Reasoning, text, schema, &out); err != nil {
		return domain.ViralDiagnostics{}, fmt.Errorf("diagnose: %w", err)
	}
	return out, nil
}

// AuditScript runs the writing-quality audit on the script alone.
func (c *Client) AuditScript(ctx context.Context, script domain.VideoScript) (domain.ScriptAudit, error) {
	text, schema := prompt.Audit(script)

	var out domain.ScriptAudit
	if err := c.generateJSON(ctx, c.models.Text, text, schema, &out); err != nil {
		return domain.ScriptAudit{}, fmt.Errorf("audit script: %w", err)
	}
	return out, nil
}

// HookVariations requests exactly three hook rewrites, one per
// rhetorical strategy; wrong cardinality fails the call.
func (c *Client) HookVariations(ctx context.Context, currentHook, topic, tone string) ([]domain.HookVariation, error) {
	text, schema := prompt.HookVariations(currentHook, topic, tone)

	var out struct {
		Variations []domain.HookVariation `json:"variations" validate:"required,len=3,dive"`
	}
	if err := c.generateJSON(ctx, c.models.Text, text, schema, &out); err != nil {
		return nil, fmt.Errorf("hook variations: %w", err)
	}
	return out.Variations, nil
}

// TitleVariations requests alternative high-CTR titles.
func (c *Client) TitleVariations(ctx context.Context, topic, summary string) ([]string, error) {
	text, schema := prompt.TitleVariations(topic, summary)

	var out struct {
		Titles []string `json:"titles" validate:"required,min=1"`
	}
	if err := c.generateJSON(ctx, c.models.Text, text, schema, &out); err != nil {
		return nil, fmt.Errorf("title variations: %w", err)
	}
	return out.Titles, nil
}

// RewriteSection runs the raw-text rewrite task. The result is the
// model's trimmed text; an empty response falls back to the original.
func (c *Client) RewriteSection(ctx context.Context, currentText, instruction, contextText string) (string, error) {
	resp, err := c.generate(ctx, c.models.Text, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt.Rewrite(currentText, instruction, contextText)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("rewrite section: %w", err)
	}

	text := strings.TrimSpace(resp.text())
	if text == "" {
		log.GlobalWarnCtx(ctx, "rewrite returned empty text, keeping original")
		return currentText, nil
	}
	return text, nil
}

// GenerateShotImage renders a shot visual at 9:16. When refDataURI is
// non-empty its payload is sent as an image-conditioning reference.
// The result is a data URI.
func (c *Client) GenerateShotImage(ctx context.Context, description, visualStyle, refDataURI string) (string, error) {
	var parts []part
	if refDataURI != "" {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: "image/jpeg",
			Data:     stripDataURI(refDataURI),
		}})
	}
	parts = append(parts, part{Text: prompt.ShotImage(description, visualStyle, refDataURI != "")})

	return c.generateImage(ctx, parts, prompt.ShotImageAspectRatio)
}

// GenerateThumbnail renders a 3:4 cover image for the plan.
func (c *Client) GenerateThumbnail(ctx context.Context, idea, title string) (string, error) {
	parts := []part{{Text: prompt.Thumbnail(idea, title)}}
	return c.generateImage(ctx, parts, prompt.ThumbnailAspectRatio)
}

func (c *Client) generateImage(ctx context.Context, parts []part, aspectRatio string) (string, error) {
	resp, err := c.generate(ctx, c.models.Image, generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: aspectRatio},
		},
	})
	if err != nil {
		return "", err
	}

	inline := resp.inlinePart()
	if inline == nil || inline.Data == "" {
		return "", domain.ErrNoImagePayload
	}
	return fmt.Sprintf("data:%s;base64,%s", inline.MIMEType, inline.Data), nil
}

// SynthesizeNarration synthesizes single-channel speech for the text
// using the fixed voice profile, wraps the raw PCM in a WAV container,
// and returns it as a data URI.
func (c *Client) SynthesizeNarration(ctx context.Context, text string) (string, error) {
	resp, err := c.generate(ctx, c.models.TTS, generateRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: prompt.NarrationVoice},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("synthesize narration: %w", err)
	}

	inline := resp.inlinePart()
	if inline == nil || inline.Data == "" {
		return "", domain.ErrNoAudioPayload
	}

	pcm, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return "", fmt.Errorf("%w: decode audio: %v", domain.ErrMalformedResponse, err)
	}

	wav := pcmToWAV(pcm, narrationSampleRate)
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wav), nil
}

// stripDataURI returns the base64 payload of a data URI, or the input
// unchanged when it carries no data: prefix.
func stripDataURI(uri string) string {
	if _, payload, ok := strings.Cut(uri, ","); ok && strings.HasPrefix(uri, "data:") {
		return payload
	}
	return uri
}
