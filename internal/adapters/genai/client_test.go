package genai_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"viralflow/internal/adapters/genai"
	"viralflow/internal/config"
	"viralflow/internal/domain"
	"viralflow/internal/prompt"
)

// modelResponse builds a generateContent response whose first candidate
// carries the given text payload.
func textResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func inlineResponse(mimeType, data string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{
				{"inlineData": map[string]any{"mimeType": mimeType, "data": data}},
			}}},
		},
	}
}

// newTestClient wires a Client to an httptest server and counts calls.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*genai.Client, *int) {
	t.Helper()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Config{
		APIKey:     "test-key",
		APIBaseURL: srv.URL,
		Timeout:    5 * time.Second,
		Models: config.Models{
			Text:      "text-model",
			Reasoning: "reasoning-model",
			Image:     "image-model",
			TTS:       "tts-model",
		},
	}
	return genai.NewClient(cfg), &calls
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func fourAngles() []domain.ViralAngle {
	return []domain.ViralAngle{
		{ID: "1", Title: "快乐角度", Description: "d", WhyItWorks: "Joy", Difficulty: "Low", ViralScore: 7},
		{ID: "2", Title: "共鸣角度", Description: "d", WhyItWorks: "Resonance", Difficulty: "Medium", ViralScore: 8},
		{ID: "3", Title: "知识角度", Description: "d", WhyItWorks: "Knowledge", Difficulty: "Medium", ViralScore: 8.5},
		{ID: "4", Title: "震撼角度", Description: "d", WhyItWorks: "Awe", Difficulty: "High", ViralScore: 6},
	}
}

func TestAnalyzeAngles_Success(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "text-model") {
			t.Errorf("wrong model path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gc, _ := req["generationConfig"].(map[string]any)
		if gc == nil || gc["responseMimeType"] != "application/json" {
			t.Error("structured task must request application/json")
		}
		if gc["responseSchema"] == nil {
			t.Error("structured task must carry a response schema")
		}

		payload, _ := json.Marshal(map[string]any{"angles": fourAngles()})
		respondJSON(t, w, textResponse(string(payload)))
	})

	angles, err := client.AnalyzeAngles(context.Background(), "职场反内卷")
	if err != nil {
		t.Fatalf("AnalyzeAngles: %v", err)
	}
	if len(angles) != 4 {
		t.Fatalf("got %d angles, want 4", len(angles))
	}
	if *calls != 1 {
		t.Errorf("issued %d calls, want 1", *calls)
	}
}

func TestAnalyzeAngles_WrongCardinalityIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload, _ := json.Marshal(map[string]any{"angles": fourAngles()[:2]})
		respondJSON(t, w, textResponse(string(payload)))
	})

	_, err := client.AnalyzeAngles(context.Background(), "topic")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestAnalyzeAngles_EmptyPayloadFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, textResponse(""))
	})

	_, err := client.AnalyzeAngles(context.Background(), "topic")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestAnalyzeAngles_ServiceErrorIsGenerationFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.AnalyzeAngles(context.Background(), "topic")
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestGeneratePlan_AttachesPlatform(t *testing.T) {
	plan := domain.VideoPlan{
		Script: domain.VideoScript{Title: "t", Hook: "h", Body: "b", CTA: "c", Tone: "tone"},
		ShotList: []domain.Shot{
			{ID: "s1", Type: "特写", Description: "d", Duration: "3s", AudioCue: "bgm"},
		},
		Editing:      domain.EditingGuide{Pacing: "p", VisualStyle: "v", SoundDesign: "s", Transitions: "t"},
		Publishing:   domain.PublishingGuide{Caption: "c", Hashtags: []string{"#a"}, SuggestedMusic: "m", MusicKeywords: []string{"k"}, ThumbnailIdea: "i"},
		Interaction:  domain.InteractionGuide{PinnedComment: "p", EngagementQuestion: "q", NegativeFeedbackHandling: "n"},
		DataStrategy: domain.DataStrategy{VisualAttraction1s: "1", ValueHook3s: "3", EmotionalTrigger10s: "10", InteractionDesignEnd: "end"},
	}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload, _ := json.Marshal(plan)
		respondJSON(t, w, textResponse(string(payload)))
	})

	got, err := client.GeneratePlan(context.Background(), prompt.PlanRequest{
		Topic:    "topic",
		Angle:    domain.ViralAngle{Title: "angle"},
		Platform: prompt.PlatformRed,
		Duration: prompt.DurationShort,
	})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if got.Platform != string(prompt.PlatformRed) {
		t.Errorf("Platform = %q, want %q", got.Platform, prompt.PlatformRed)
	}
}

func TestGeneratePlan_MissingRequiredFieldFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Script with no hook: decodes fine, fails shape validation.
		respondJSON(t, w, textResponse(`{"script":{"title":"t"},"shotList":[],"editing":{},"publishing":{},"interaction":{},"dataStrategy":{}}`))
	})

	_, err := client.GeneratePlan(context.Background(), prompt.PlanRequest{
		Platform: prompt.PlatformDouyin,
		Duration: prompt.DurationMedium,
	})
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestSearchInspiration_ParsesGroundingSources(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["tools"] == nil {
			t.Error("inspiration search must enable the search tool")
		}

		respondJSON(t, w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": "热点摘要"}}},
				"groundingMetadata": map[string]any{
					"groundingChunks": []map[string]any{
						{"web": map[string]any{"title": "来源一", "uri": "https://example.com/1"}},
						{"web": map[string]any{}},
						{},
					},
				},
			}},
		})
	})

	insp, err := client.SearchInspiration(context.Background(), "topic")
	if err != nil {
		t.Fatalf("SearchInspiration: %v", err)
	}
	if insp.Summary != "热点摘要" {
		t.Errorf("Summary = %q", insp.Summary)
	}
	if len(insp.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(insp.Sources))
	}
	if insp.Sources[1].Title != "Source" || insp.Sources[1].URI != "#" {
		t.Errorf("empty web source not defaulted: %+v", insp.Sources[1])
	}
}

func TestHookVariations_RequiresExactlyThree(t *testing.T) {
	three := []domain.HookVariation{
		{Type: "反直觉/悬念", Content: "a", Reason: "r"},
		{Type: "痛点直击", Content: "b", Reason: "r"},
		{Type: "利益承诺", Content: "c", Reason: "r"},
	}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload, _ := json.Marshal(map[string]any{"variations": three})
		respondJSON(t, w, textResponse(string(payload)))
	})
	got, err := client.HookVariations(context.Background(), "hook", "topic", "tone")
	if err != nil {
		t.Fatalf("HookVariations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d variations", len(got))
	}

	clientTwo, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload, _ := json.Marshal(map[string]any{"variations": three[:2]})
		respondJSON(t, w, textResponse(string(payload)))
	})
	if _, err := clientTwo.HookVariations(context.Background(), "hook", "topic", "tone"); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestRewriteSection_EmptyFallsBackToOriginal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, textResponse("   "))
	})

	got, err := client.RewriteSection(context.Background(), "原文", "instruction", "context")
	if err != nil {
		t.Fatalf("RewriteSection: %v", err)
	}
	if got != "原文" {
		t.Errorf("got %q, want original text", got)
	}
}

func TestGenerateShotImage_ReturnsDataURI(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "image-model") {
			t.Errorf("wrong model path: %s", r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		gc, _ := req["generationConfig"].(map[string]any)
		ic, _ := gc["imageConfig"].(map[string]any)
		if ic == nil || ic["aspectRatio"] != "9:16" {
			t.Errorf("shot image aspect ratio = %v, want 9:16", ic)
		}
		respondJSON(t, w, inlineResponse("image/png", "aW1hZ2U="))
	})

	uri, err := client.GenerateShotImage(context.Background(), "desc", "style", "")
	if err != nil {
		t.Fatalf("GenerateShotImage: %v", err)
	}
	if uri != "data:image/png;base64,aW1hZ2U=" {
		t.Errorf("uri = %q", uri)
	}
}

func TestGenerateShotImage_NoImagePartFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, textResponse("no image here"))
	})

	_, err := client.GenerateShotImage(context.Background(), "desc", "style", "")
	if !errors.Is(err, domain.ErrNoImagePayload) {
		t.Fatalf("err = %v, want ErrNoImagePayload", err)
	}
}

func TestGenerateShotImage_SendsReferencePayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		contents := req["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		if len(parts) != 2 {
			t.Fatalf("got %d parts, want reference + text", len(parts))
		}
		inline, _ := parts[0].(map[string]any)["inlineData"].(map[string]any)
		if inline == nil || inline["data"] != "cmVm" {
			t.Errorf("reference payload not stripped from data URI: %v", inline)
		}
		respondJSON(t, w, inlineResponse("image/png", "bmV3"))
	})

	if _, err := client.GenerateShotImage(context.Background(), "desc", "style", "data:image/jpeg;base64,cmVm"); err != nil {
		t.Fatalf("GenerateShotImage: %v", err)
	}
}

func TestGenerateThumbnail_UsesPortraitRatio(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		gc, _ := req["generationConfig"].(map[string]any)
		ic, _ := gc["imageConfig"].(map[string]any)
		if ic == nil || ic["aspectRatio"] != "3:4" {
			t.Errorf("thumbnail aspect ratio = %v, want 3:4", ic)
		}
		respondJSON(t, w, inlineResponse("image/png", "dGh1bWI="))
	})

	if _, err := client.GenerateThumbnail(context.Background(), "idea", "title"); err != nil {
		t.Fatalf("GenerateThumbnail: %v", err)
	}
}

func TestSynthesizeNarration_WrapsPCMAsWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "tts-model") {
			t.Errorf("wrong model path: %s", r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		gc, _ := req["generationConfig"].(map[string]any)
		mods, _ := gc["responseModalities"].([]any)
		if len(mods) != 1 || mods[0] != "AUDIO" {
			t.Errorf("responseModalities = %v", mods)
		}
		sc, _ := json.Marshal(gc["speechConfig"])
		if !strings.Contains(string(sc), "Aoede") {
			t.Errorf("voice profile not requested: %s", sc)
		}
		respondJSON(t, w, inlineResponse("audio/pcm", base64.StdEncoding.EncodeToString(pcm)))
	})

	uri, err := client.SynthesizeNarration(context.Background(), "开头。正文。结尾")
	if err != nil {
		t.Fatalf("SynthesizeNarration: %v", err)
	}

	const prefix = "data:audio/wav;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri = %q", uri)
	}
	wav, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("decode wav: %v", err)
	}
	if len(wav) != 44+len(pcm) {
		t.Errorf("wav length = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" {
		t.Error("missing RIFF header")
	}
}

func TestSynthesizeNarration_NoAudioFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, textResponse("silence"))
	})

	_, err := client.SynthesizeNarration(context.Background(), "text")
	if !errors.Is(err, domain.ErrNoAudioPayload) {
		t.Fatalf("err = %v, want ErrNoAudioPayload", err)
	}
}
