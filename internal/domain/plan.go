// Package domain contains the core business entities and rules.
package domain

// Driver is one of the four fixed psychological drivers used to
// diversify angle generation.
type Driver string

const (
	DriverJoy       Driver = "joy"       // Emotional Value (Joy/Entertainment)
	DriverResonance Driver = "resonance" // Emotional Connection (Resonance)
	DriverKnowledge Driver = "knowledge" // Cognitive Value (Knowledge/Utility)
	DriverAwe       Driver = "awe"       // Sensory Impact (Awe)
)

// Drivers lists the four drivers in prompt order.
var Drivers = []Driver{DriverJoy, DriverResonance, DriverKnowledge, DriverAwe}

// ViralAngle is one candidate narrative framing for a topic.
type ViralAngle struct {
	ID          string  `json:"id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	WhyItWorks  string  `json:"whyItWorks" validate:"required"`
	Difficulty  string  `json:"difficulty" validate:"required,oneof=Low Medium High"`
	ViralScore  float64 `json:"viralScore"`
}

// VideoScript is the spoken portion of a plan.
type VideoScript struct {
	Title    string `json:"title" validate:"required"`
	Hook     string `json:"hook" validate:"required"`
	Body     string `json:"body" validate:"required"`
	CTA      string `json:"cta" validate:"required"`
	Tone     string `json:"tone" validate:"required"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// Shot is one planned visual segment of the video.
type Shot struct {
	ID          string `json:"id" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`
	Duration    string `json:"duration" validate:"required"` // free-text label, not seconds
	IsBroll     bool   `json:"isBroll"`
	AudioCue    string `json:"audioCue" validate:"required"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// DataStrategy maps the viewer attention decision path (1s/3s/10s/end)
// to concrete content decisions.
type DataStrategy struct {
	VisualAttraction1s   string `json:"visualAttraction_1s" validate:"required"`
	ValueHook3s          string `json:"valueHook_3s" validate:"required"`
	EmotionalTrigger10s  string `json:"emotionalTrigger_10s" validate:"required"`
	InteractionDesignEnd string `json:"interactionDesign_end" validate:"required"`
}

// EditingGuide is free-text post-production guidance.
type EditingGuide struct {
	Pacing      string `json:"pacing" validate:"required"`
	VisualStyle string `json:"visualStyle" validate:"required"`
	SoundDesign string `json:"soundDesign" validate:"required"`
	Transitions string `json:"transitions" validate:"required"`
}

// PublishingGuide holds publication metadata for the finished video.
type PublishingGuide struct {
	Caption           string   `json:"caption" validate:"required"`
	Hashtags          []string `json:"hashtags" validate:"required"`
	SuggestedMusic    string   `json:"suggestedMusic" validate:"required"`
	MusicKeywords     []string `json:"musicKeywords" validate:"required"`
	ThumbnailIdea     string   `json:"thumbnailIdea" validate:"required"`
	ThumbnailImageURL string   `json:"thumbnailImageUrl,omitempty"`
}

// InteractionGuide holds the comment-section strategy.
type InteractionGuide struct {
	PinnedComment            string `json:"pinnedComment" validate:"required"`
	EngagementQuestion       string `json:"engagementQuestion" validate:"required"`
	NegativeFeedbackHandling string `json:"negativeFeedbackHandling" validate:"required"`
}

// DiagnosticMetrics are the platform-weighted score components.
// Scores are 0-100; zero is a legal value, so no required tags here.
type DiagnosticMetrics struct {
	VisualAttraction     float64 `json:"visualAttraction"`
	ValueProposition     float64 `json:"valueProposition"`
	EmotionalResonance   float64 `json:"emotionalResonance"`
	InteractionPotential float64 `json:"interactionPotential"`
}

// ViralDiagnostics is a simulated score of how well a plan fits the
// target platform's ranking and engagement signals.
type ViralDiagnostics struct {
	OverallScore float64           `json:"overallScore"`
	Metrics      DiagnosticMetrics `json:"metrics"`
	Analysis     string            `json:"analysis" validate:"required"`
	Suggestions  []string          `json:"suggestions" validate:"required"`
}

// AuditScores are the writing-quality dimensions of a script audit.
type AuditScores struct {
	Clarity    float64 `json:"clarity"`
	Flow       float64 `json:"flow"`
	Engagement float64 `json:"engagement"`
}

// ScriptAudit is a writing-quality evaluation independent of platform fit.
type ScriptAudit struct {
	Scores      AuditScores `json:"scores"`
	Critique    string      `json:"critique" validate:"required"`
	Suggestions []string    `json:"suggestions" validate:"required"`
}

// HookVariation is one rewritten hook tagged with the rhetorical
// strategy it applies.
type HookVariation struct {
	Type    string `json:"type" validate:"required"`
	Content string `json:"content" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

// VideoPlan is the central artifact produced by the drafting stage.
// Platform is set once at creation and read-only thereafter.
type VideoPlan struct {
	Platform     string            `json:"platform,omitempty"`
	Script       VideoScript       `json:"script" validate:"required"`
	ShotList     []Shot            `json:"shotList" validate:"required,min=1,dive"`
	Editing      EditingGuide      `json:"editing" validate:"required"`
	Publishing   PublishingGuide   `json:"publishing" validate:"required"`
	Interaction  InteractionGuide  `json:"interaction" validate:"required"`
	DataStrategy DataStrategy      `json:"dataStrategy" validate:"required"`
	Diagnostics  *ViralDiagnostics `json:"diagnostics,omitempty"`
	ScriptAudit  *ScriptAudit      `json:"scriptAudit,omitempty"`
}

// Clone returns a deep copy of the plan. Refinement operations work on
// a clone and swap the whole value in, so a plan value is never mutated
// after it has been observed.
func (p VideoPlan) Clone() VideoPlan {
	out := p

	out.ShotList = make([]Shot, len(p.ShotList))
	copy(out.ShotList, p.ShotList)

	out.Publishing.Hashtags = append([]string(nil), p.Publishing.Hashtags...)
	out.Publishing.MusicKeywords = append([]string(nil), p.Publishing.MusicKeywords...)

	if p.Diagnostics != nil {
		diag := *p.Diagnostics
		diag.Suggestions = append([]string(nil), p.Diagnostics.Suggestions...)
		out.Diagnostics = &diag
	}
	if p.ScriptAudit != nil {
		audit := *p.ScriptAudit
		audit.Suggestions = append([]string(nil), p.ScriptAudit.Suggestions...)
		out.ScriptAudit = &audit
	}

	return out
}

// FindShot returns the index of the shot with the given id, or -1.
func (p VideoPlan) FindShot(shotID string) int {
	for i, s := range p.ShotList {
		if s.ID == shotID {
			return i
		}
	}
	return -1
}

// GroundingSource is one web source backing the inspiration summary.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Inspiration is the result of the best-effort contextual search step.
type Inspiration struct {
	Summary string            `json:"summary"`
	Sources []GroundingSource `json:"sources"`
}

// CreatorProfile is the optional persistent creator persona.
type CreatorProfile struct {
	Niche          string `json:"niche"`
	TargetAudience string `json:"targetAudience"`
	Persona        string `json:"persona"`
	ContentGoal    string `json:"contentGoal"`
}

// IsSet reports whether the profile should drive persona-aware
// generation. Presence of a niche or a persona is enough.
func (p CreatorProfile) IsSet() bool {
	return p.Niche != "" || p.Persona != ""
}

// HistoryItem is a durable snapshot of a completed plan.
type HistoryItem struct {
	ID                 string            `json:"id"`
	Timestamp          int64             `json:"timestamp"`
	Topic              string            `json:"topic"`
	Plan               VideoPlan         `json:"plan"`
	InspirationSummary string            `json:"inspirationSummary,omitempty"`
	Sources            []GroundingSource `json:"sources"`
	AngleUsed          string            `json:"angleUsed,omitempty"`
}
