package prompt

// Duration is one of the three fixed target-length buckets.
type Duration string

const (
	DurationShort  Duration = "Short"
	DurationMedium Duration = "Medium"
	DurationLong   Duration = "Long"
)

// Durations lists the buckets in ascending length order.
var Durations = []Duration{DurationShort, DurationMedium, DurationLong}

// ParseDuration normalizes an identifier onto the closed bucket set.
// Anything unrecognized lands on Medium, the standard structure.
func ParseDuration(id string) Duration {
	switch Duration(id) {
	case DurationShort, DurationMedium, DurationLong:
		return Duration(id)
	default:
		return DurationMedium
	}
}

// Guide returns the bucket's structure template and target script
// length, embedded verbatim in generation prompts. Word counts are
// guidance text only; output length is never enforced post hoc.
func (d Duration) Guide() string {
	switch d {
	case DurationShort:
		return `**TARGET DURATION: Short (15-30 seconds)**.
- Strategy: High density, fast pacing. ONE main point only.
- Word Count: Approx 100-140 words (Chinese).
- Structure: Hook (3s) -> Core Value (15s) -> CTA (5s).`
	case DurationLong:
		return `**TARGET DURATION: Long (60+ seconds)**.
- Strategy: In-depth storytelling or education. "Gold Pyramid" structure.
- Word Count: Approx 250-400 words (Chinese).
- Structure: Hook -> Context -> Main Point 1 -> Main Point 2 -> Conclusion/CTA.`
	default:
		return `**TARGET DURATION: Medium (30-60 seconds)**.
- Strategy: Standard viral structure.
- Word Count: Approx 150-250 words (Chinese).
- Structure: User Attention Decision Path (1s-3s-10s-End).`
	}
}
