package prompt

// Schema is a declarative structured-output schema in the generative
// API's response-schema dialect. Builders construct these as pure
// values; the client serializes them into the request config.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

const (
	typeObject  = "OBJECT"
	typeArray   = "ARRAY"
	typeString  = "STRING"
	typeNumber  = "NUMBER"
	typeBoolean = "BOOLEAN"
)

func str() *Schema                    { return &Schema{Type: typeString} }
func strDesc(d string) *Schema        { return &Schema{Type: typeString, Description: d} }
func num() *Schema                    { return &Schema{Type: typeNumber} }
func numDesc(d string) *Schema        { return &Schema{Type: typeNumber, Description: d} }
func boolean() *Schema                { return &Schema{Type: typeBoolean} }
func array(items *Schema) *Schema     { return &Schema{Type: typeArray, Items: items} }
func object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: typeObject, Properties: props, Required: required}
}

// AngleListSchema describes the angle-analysis response: an object
// wrapping an array of angle records, every field required.
func AngleListSchema() *Schema {
	angle := object(map[string]*Schema{
		"id":          str(),
		"title":       str(),
		"description": str(),
		"whyItWorks":  str(),
		"difficulty":  {Type: typeString, Enum: []string{"Low", "Medium", "High"}},
		"viralScore":  num(),
	}, "id", "title", "description", "whyItWorks", "difficulty", "viralScore")

	return object(map[string]*Schema{"angles": array(angle)})
}

// PlanSchema describes the full VideoPlan response shape. The platform
// field is attached by the caller after parsing, not produced by the
// model, so it does not appear here.
func PlanSchema(platform Platform) *Schema {
	script := object(map[string]*Schema{
		"title": str(),
		"hook":  str(),
		"body":  str(),
		"cta":   str(),
		"tone":  str(),
	}, "title", "hook", "body", "cta", "tone")

	dataStrategy := object(map[string]*Schema{
		"visualAttraction_1s":   strDesc("Strategy for 1s (Visual/Cover) optimized for " + string(platform)),
		"valueHook_3s":          strDesc("Strategy for 3s (Hook)"),
		"emotionalTrigger_10s":  strDesc("Strategy for 10s (Retention)"),
		"interactionDesign_end": strDesc("Ending Strategy optimized for " + string(platform) + " metrics"),
	}, "visualAttraction_1s", "valueHook_3s", "emotionalTrigger_10s", "interactionDesign_end")

	shot := object(map[string]*Schema{
		"id":          str(),
		"type":        str(),
		"description": str(),
		"duration":    str(),
		"isBroll":     boolean(),
		"audioCue":    str(),
	}, "id", "type", "description", "duration", "isBroll", "audioCue")

	editing := object(map[string]*Schema{
		"pacing":      str(),
		"visualStyle": str(),
		"soundDesign": str(),
		"transitions": str(),
	}, "pacing", "visualStyle", "soundDesign", "transitions")

	publishing := object(map[string]*Schema{
		"caption":        str(),
		"hashtags":       array(str()),
		"suggestedMusic": str(),
		"musicKeywords":  array(str()),
		"thumbnailIdea":  str(),
	}, "caption", "hashtags", "suggestedMusic", "musicKeywords", "thumbnailIdea")

	interaction := object(map[string]*Schema{
		"pinnedComment":            strDesc("Witty, controversial, or debate-provoking comment"),
		"engagementQuestion":       strDesc("Specific, easy-to-answer question about the user"),
		"negativeFeedbackHandling": strDesc("High-EQ or witty comeback to potential hate"),
	}, "pinnedComment", "engagementQuestion", "negativeFeedbackHandling")

	return object(map[string]*Schema{
		"script":       script,
		"dataStrategy": dataStrategy,
		"shotList":     array(shot),
		"editing":      editing,
		"publishing":   publishing,
		"interaction":  interaction,
	}, "script", "dataStrategy", "shotList", "editing", "publishing", "interaction")
}

// DiagnosticsSchema describes the algorithm-fit simulation response.
func DiagnosticsSchema(platform Platform) *Schema {
	metrics := object(map[string]*Schema{
		"visualAttraction":     numDesc("Score for " + string(platform) + " Visual/Cover"),
		"valueProposition":     numDesc("Score for Hook/Value"),
		"emotionalResonance":   numDesc("Score for Retention/Collection/Share"),
		"interactionPotential": numDesc("Score for Engagement"),
	}, "visualAttraction", "valueProposition", "emotionalResonance", "interactionPotential")

	return object(map[string]*Schema{
		"overallScore": numDesc("0-100"),
		"metrics":      metrics,
		"analysis":     str(),
		"suggestions":  array(str()),
	}, "overallScore", "metrics", "analysis", "suggestions")
}

// AuditSchema describes the script-audit response.
func AuditSchema() *Schema {
	scores := object(map[string]*Schema{
		"clarity":    num(),
		"flow":       num(),
		"engagement": num(),
	}, "clarity", "flow", "engagement")

	return object(map[string]*Schema{
		"scores":   scores,
		"critique": strDesc("One paragraph overall assessment."),
		"suggestions": {
			Type:        typeArray,
			Items:       str(),
			Description: "3-4 specific actionable bullet points to improve the text.",
		},
	}, "scores", "critique", "suggestions")
}

// HookVariationsSchema describes the hook-rewrite response.
func HookVariationsSchema() *Schema {
	variation := object(map[string]*Schema{
		"type":    strDesc("The strategy used (e.g., '反直觉/悬念', '痛点直击', '利益承诺')"),
		"content": strDesc("The actual hook script text"),
		"reason":  strDesc("Psychological explanation of why this works"),
	}, "type", "content", "reason")

	return object(map[string]*Schema{"variations": array(variation)})
}

// TitleVariationsSchema describes the title-alternatives response.
func TitleVariationsSchema() *Schema {
	return object(map[string]*Schema{"titles": array(str())})
}
