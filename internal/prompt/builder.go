// Package prompt builds model-call payloads: a natural-language
// instruction block plus a structured-output schema, parameterized by
// platform strategy, duration bucket, and creator persona. Everything
// here is a pure function with no side effects and no network access.
package prompt

import (
	"fmt"
	"strings"

	"viralflow/internal/domain"
)

// DefaultTone is the tone applied when the caller supplies none and no
// creator profile is set.
const DefaultTone = "像朋友聊天 (Conversational)"

// Tones lists the selectable tone presets.
var Tones = []string{
	"像朋友聊天 (Conversational)",
	"幽默搞笑 (Humorous)",
	"专业干货 (Professional)",
	"情感共鸣 (Emotional)",
	"犀利吐槽 (Controversial)",
}

// RewritePresets maps body-rewrite preset names to their fixed
// instruction strings. Arbitrary instructions are also accepted.
var RewritePresets = map[string]string{
	"conversational": "Make it more conversational and natural",
	"emotional":      "Make it more emotional and touching",
	"sharper":        "Make it sharper and slightly controversial",
	"condense":       "Rewrite this to be more concise and punchy. Reduce length by roughly 30% while keeping the core hook and value.",
	"expand":         "Expand this with more vivid details, examples, or emotional context. Increase length by roughly 30%.",
}

// AngleAnalysis builds the angle-analysis payload for a topic. The
// instruction text binds each of the 4 requested angles to one of the
// 4 psychological drivers; the binding is asserted by prompt content,
// cardinality is validated after decoding.
func AngleAnalysis(topic string) (string, *Schema) {
	text := fmt.Sprintf(`You are a specialized Short Video Growth Strategist using the "Systematic Growth Methodology".
Topic: %q

Task: Generate exactly 4 distinct video angles. Each angle MUST correspond to one of the "4 Psychological Drivers of Following Behavior".

**Driver 1: Emotional Value (Joy/Entertainment)**
- Formula: Joy = (Unexpectedness + Fun + Ease) × Emotional Contagion
- Goal: Dopamine release, stress relief.
- Types: Funny, Cute, Talent, Creative.

**Driver 2: Emotional Connection (Resonance)**
- Formula: Resonance = Shared Experience × Emotional Intensity × Expression Precision
- Goal: "That is so me", Empathy, Identity.
- Types: Workplace struggles, Relationships, Social anxiety, Family.

**Driver 3: Cognitive Value (Knowledge/Utility)**
- Formula: Perceived Value = (New Info × Utility × Ease) / Learning Cost
- Goal: "Useful", "Collection worthy".
- Types: Life hacks, Skill up, Industry insights, Deep dive.

**Driver 4: Sensory Impact (Awe)**
- Formula: Awe = Visual Shock + Audio Pleasure + Scarcity + Challenge
- Goal: "Wow moment", Visual feast.
- Types: Visual aesthetics, Extreme skills, Counter-intuitive transformations.

Output 4 angles (one for each driver) in JSON.
Language: Simplified Chinese (简体中文).`, topic)

	return text, AngleListSchema()
}

// InspirationSearch builds the grounded-search instruction for a topic.
// The call uses the service's search tool instead of a response schema.
func InspirationSearch(topic string) string {
	return fmt.Sprintf(`Search for trending information, news, or popular opinions related to: %q.
Summarize key points that would make good short video content.
IMPORTANT: Respond in Simplified Chinese (简体中文).`, topic)
}

// PlanRequest carries the inputs of a plan-generation call.
type PlanRequest struct {
	Topic    string
	Angle    domain.ViralAngle
	Tone     string
	Platform Platform
	Duration Duration
	Context  string // inspiration summary; empty when search was degraded
	Profile  *domain.CreatorProfile
}

// Plan builds the plan-generation payload. The platform strategy block
// and the duration guide are embedded verbatim; a set creator profile
// is injected as persona constraints that supersede the ad hoc tone.
func Plan(req PlanRequest) (string, *Schema) {
	tone := req.Tone
	if tone == "" {
		tone = DefaultTone
	}

	var profileContext string
	if req.Profile != nil {
		profileContext = fmt.Sprintf(`**CREATOR PERSONA (IP Strategy)**:
- Niche: %s
- Persona: %s
- Audience: %s
- Goal: %s

The persona above takes precedence over the generic tone setting.`,
			req.Profile.Niche, req.Profile.Persona, req.Profile.TargetAudience, req.Profile.ContentGoal)
	}

	text := fmt.Sprintf(`Act as a Senior Content Strategist for %[1]s.

%[2]s

%[3]s

**TOPIC**: %[4]q
**ANGLE**: %[5]q (%[6]s)
**CONTEXT**: %[7]q
%[8]s

**CORE TASK**: Write a detailed video plan optimized for %[1]s's specific algorithm AND the target duration.

**1. DATA STRATEGY (The 1s-3s-10s-End Path)**:
- **1s (Visual Attraction)**: How to STOP the scroll? (Cover/Title logic specific to %[1]s).
- **3s (Value Hook)**: The immediate reason to watch.
- **10s (Emotional Trigger)**: Prevention of drop-off.
- **Ending (Interaction)**: Specific trigger based on platform (e.g., Douyin=Comments, WeChat=Share/Friends, XHS=Collect/Save).

**2. SCRIPT & CONTENT**:
- Tone: %[9]s.
- **CRITICAL**: The script length MUST match the target duration (%[10]s). Don't write a long essay for a short video.
- **IF XIAOHONGSHU**: Focus on "Authenticity", "KFS Keywords", and "Value Density" (make it save-worthy).
- **IF DOUYIN**: Focus on "Rhythm", "Reversal", and "Completion Rate".
- **IF WECHAT**: Focus on "Social Currency" and "Relatability".

**3. INTERACTION STRATEGY (Optimization Target: High Engagement)**:
- **Pinned Comment**: Don't just summarize. Create a "God-tier Comment" (神评) that is witty, controversial, or provokes debate.
- **Engagement Question**: Don't ask "What do you think?". Ask a specific, low-threshold question that 90%% of the audience wants to answer about *themselves*.
- **Negative Feedback**: Provide a witty, high-EQ comeback to a likely hate comment (the "Roast back" strategy).

Output JSON in Simplified Chinese.`,
		req.Platform, req.Platform.Strategy(), req.Duration.Guide(),
		req.Topic, req.Angle.Title, req.Angle.WhyItWorks,
		req.Context, profileContext, tone, req.Duration)

	return text, PlanSchema(req.Platform)
}

// Diagnostics builds the algorithm-fit simulation payload. The platform
// strategy is selected from the plan's stored platform identifier.
func Diagnostics(plan domain.VideoPlan, profile *domain.CreatorProfile) (string, *Schema) {
	platform := ParsePlatform(plan.Platform)

	audienceContext := "General Audience"
	if profile != nil {
		audienceContext = fmt.Sprintf(`Target Audience: %s
Niche: %s
Persona: %s`, profile.TargetAudience, profile.Niche, profile.Persona)
	}

	var firstShot string
	if len(plan.ShotList) > 0 {
		firstShot = plan.ShotList[0].Description
	}

	text := fmt.Sprintf(`You are the **%[1]s Algorithm Simulator**.

%[2]s

**TASK**: Evaluate this video plan against %[1]s's specific success metrics.

**CONTENT**:
- Title: %[3]q
- Hook: "%[4]s / %[5]s"
- Body: %[6]q
- Strategy: 1s: %[7]s, 3s: %[8]s

**CONTEXT**: %[9]s

**SCORING (0-100)** based on Platform Priorities:

1. **Visual Attraction (1s)**:
   - Douyin: Does it stop the scroll instantly?
   - XHS: Is the cover aesthetic/clickable (CTR)?
   - WeChat: Is it relatable?
2. **Value Proposition (3s)**:
   - Is the value immediately clear? (Hook strength)
3. **Emotional Resonance (10s+)**:
   - Douyin: Completion rate / Rhythm.
   - XHS: "Collection" value (Information density).
   - WeChat: Social Currency (Identity expression).
4. **Interaction Potential**:
   - Comments/Shares/Saves based on platform habits.

Output JSON with scores (0-100) and actionable advice specific to %[1]s.
IMPORTANT: The 'analysis' and 'suggestions' fields MUST be in Simplified Chinese (简体中文).`,
		platform, platform.Strategy(),
		plan.Script.Title, firstShot, plan.Script.Hook, plan.Script.Body,
		plan.DataStrategy.VisualAttraction1s, plan.DataStrategy.ValueHook3s,
		audienceContext)

	return text, DiagnosticsSchema(platform)
}

// Audit builds the script-quality audit payload from the script alone.
func Audit(script domain.VideoScript) (string, *Schema) {
	text := fmt.Sprintf(`You are a professional Script Doctor and Copywriting Expert.

Task: Audit the following short video script for writing quality.

**Script Content**:
- Title: %q
- Hook: %q
- Body: %q
- CTA: %q

**Evaluation Criteria (0-100)**:
1. **Clarity (清晰度)**: Is the message simple, direct, and easy to understand? No jargon?
2. **Flow (流畅度)**: Does it read smoothly? Is the rhythm good for spoken audio?
3. **Engagement (吸引力)**: Is the language vivid? Does it provoke emotion or curiosity?

Output JSON in Simplified Chinese (简体中文).`,
		script.Title, script.Hook, script.Body, script.CTA)

	return text, AuditSchema()
}

// HookVariations builds the hook-rewrite payload. Exactly 3 variations
// are requested, one per rhetorical strategy.
func HookVariations(currentHook, topic, tone string) (string, *Schema) {
	text := fmt.Sprintf(`You are a Viral Script Doctor specialized in the "Golden 3 Seconds" of short videos.

Your Goal: Rewrite the specific Hook below into 3 significantly more engaging variations to maximize user retention.

**Input Data**:
- Topic: %q
- Original Hook: %q
- Tone: %q

**Required Output**: 3 Variations based on distinct viral psychological triggers:

1. **Variation A (Curiosity Gap / Reversal)**: Start with something counter-intuitive, a secret, or a "Stop doing X" command.
2. **Variation B (Pain Point / Negative Bias)**: Focus on a common mistake, a fear of loss, or a relatable struggle. "Why your [X] isn't working."
3. **Variation C (Direct Benefit / Authority)**: State a massive promise or result immediately. "How I got [Result] in [Time]."

Return JSON in Simplified Chinese (简体中文).`, topic, currentHook, tone)

	return text, HookVariationsSchema()
}

// TitleVariations builds the title-alternatives payload: 5 high-CTR
// titles for the topic given a context summary.
func TitleVariations(topic, summary string) (string, *Schema) {
	text := fmt.Sprintf(`Generate 5 distinct, high-CTR video titles for a short video about: %q.
Context: %s
Output as a simple list of strings in Simplified Chinese.`, topic, summary)

	return text, TitleVariationsSchema()
}

// Rewrite builds the raw-text section-rewrite instruction. No schema:
// the model's literal trimmed text is the result.
func Rewrite(currentText, instruction, context string) string {
	return fmt.Sprintf(`Task: Rewrite the following script section based on the instruction: %q.
Context: %s
Current Text: %q
Return ONLY the new text. Simplified Chinese.`, instruction, context, currentText)
}

// ShotImageAspectRatio is the aspect ratio of in-script shot visuals.
const ShotImageAspectRatio = "9:16"

// ThumbnailAspectRatio is the aspect ratio of cover thumbnails.
const ThumbnailAspectRatio = "3:4"

// HookVisualStyle is the fixed style applied to hook preview visuals.
const HookVisualStyle = "Cinematic, High Impact, Viral Video Opener, 4k"

// ShotImage builds the shot-visual instruction. Every image prompt
// carries the negative-prompt clause excluding rendered text.
func ShotImage(description, visualStyle string, hasReference bool) string {
	var refClause string
	if hasReference {
		refClause = "\n- Use the provided image as a Composition/Subject reference."
	}

	return fmt.Sprintf(`Generate a photorealistic image for a video scene.
VISUAL DESCRIPTION: %s
STYLE: %s

NEGATIVE PROMPT: **NO TEXT**, NO CHARACTERS, NO WATERMARKS, NO SUBTITLES, NO LOGOS.
The image must be a clean photography or cinematic shot without any text overlays.%s`,
		description, visualStyle, refClause)
}

// Thumbnail builds the cover-image instruction.
func Thumbnail(idea, title string) string {
	return fmt.Sprintf(`Generate a high-click-through-rate (CTR) vertical thumbnail image.
VISUAL CONCEPT: %s
THEME/MOOD: %s
STYLE: Vibrant, high contrast, expressive face or key object in focus, 4k resolution.
aspect ratio: 3:4.

NEGATIVE PROMPT: **NO TEXT**, NO CHINESE CHARACTERS, NO ENGLISH WORDS, NO TYPOGRAPHY.
Do not render the title text. Do not write any words. The image must be purely visual.`,
		idea, title)
}

// NarrationVoice is the fixed prebuilt voice profile for TTS calls.
const NarrationVoice = "Aoede"

// NarrationText concatenates the script fields into the narration input.
func NarrationText(script domain.VideoScript) string {
	return script.Hook + "。" + script.Body + "。" + script.CTA
}

// TeleprompterText joins the spoken script parts for prompter display.
func TeleprompterText(script domain.VideoScript) string {
	return strings.Join([]string{script.Hook, script.Body, script.CTA}, "\n\n")
}
