package prompt

// Platform identifies one of the supported short-video platforms.
// The set is closed; unknown identifiers normalize to Douyin.
type Platform string

const (
	PlatformDouyin Platform = "抖音 (Douyin)"
	PlatformRed    Platform = "小红书 (Red)"
	PlatformWeChat Platform = "视频号 (WeChat)"
	PlatformShorts Platform = "YouTube Shorts"
)

// DefaultPlatform is the fallback for unrecognized identifiers.
const DefaultPlatform = PlatformDouyin

// Platforms lists the supported platforms in display order.
var Platforms = []Platform{PlatformDouyin, PlatformRed, PlatformWeChat, PlatformShorts}

// ParsePlatform maps an identifier onto the closed platform set,
// falling back to the default rather than failing.
func ParsePlatform(id string) Platform {
	switch Platform(id) {
	case PlatformDouyin, PlatformRed, PlatformWeChat, PlatformShorts:
		return Platform(id)
	default:
		return DefaultPlatform
	}
}

// Strategy returns the platform's strategy block, quoted verbatim in
// generation and diagnostics prompts.
func (p Platform) Strategy() string {
	switch p {
	case PlatformRed:
		return `**PLATFORM: XIAOHONGSHU (RED)**
- **Core Algorithm**: CES (Community Engagement Score).
- **CES Formula**: Σ(CTR×0.2 + Interaction×0.3 + Completion×0.25 + Collect×0.15 + Share×0.1).
- **Key Metrics**: CTR (>10% is excellent), "Collection" (Save) rate is vital for value.
- **Content Strategy**:
  - **KFS Model**: Keywords (Search) + Feeds (Home) + Search (Long tail).
  - **Visuals**: Cover Image is 40% of success. Aesthetic is non-negotiable.
  - **Value**: Must provide "Utility" or "Emotional Resonance". Authentic "Seeding" (Zhongcao).`
	case PlatformWeChat:
		return `**PLATFORM: WECHAT VIDEO ACCOUNT**
- **Core Algorithm**: 60% Social Recommendation (Friends Like) + 40% Interest.
- **Key Metrics**: Share to Moments, Friend Likes, Stay Duration.
- **Viral Formula**: Score = Metrics × Social Weight × Time Decay.
- **Content Strategy**:
  - **Social Currency**: Content worth sharing to represent one's identity/taste.
  - **Private Traffic**: Strong link to WeChat Groups/Official Accounts.
  - **Tone**: More mature, "Useful/Interesting/Relatable", Emotional connection.`
	case PlatformShorts:
		return `**PLATFORM: YOUTUBE SHORTS**
- **Core Algorithm**: Interest Graph + Search.
- **Key Metrics**: Average Percentage Viewed (APV) > 100%, Swipe-away rate.
- **Content Strategy**: Looping capability, SEO/Search discovery, Fast pacing.`
	default: // Douyin, and the fallback for anything off the registry
		return `**PLATFORM: DOUYIN (TIKTOK CHINA)**
- **Core Algorithm**: 95% Interest-based Recommendation.
- **Key Metrics**: Completion Rate (>30% for cold start), Interaction Rate.
- **Viral Formula 2.0**: (Emotional Value^2 + Utility + Entertainment) × Propagation × Algorithm Fit.
- **Content Strategy**:
  - "Golden 3 Seconds": Must hook immediately to boost Completion Rate.
  - "Rhythm": High point every 15s.
  - "Interaction": Explicitly guide Likes/Comments.`
	}
}
