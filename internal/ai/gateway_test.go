package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubGenerator struct {
	text string
	err  error
	last string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.last = prompt
	return s.text, s.err
}

// slowGenerator blocks until its context ends.
type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestClassifyMood(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Happy", "Happy"},
		{"  Calm\n", "Calm"},
		{"The mood is Sad, maybe Calm", "Sad"},
		{"I'd say Calm or Energetic", "Energetic"},
		{"joyful", ""},
	}
	for _, tt := range tests {
		if got := ClassifyMood(tt.in); got != tt.want {
			t.Errorf("ClassifyMood(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestAnalyzeMood(t *testing.T) {
	gen := &stubGenerator{text: "Energetic"}
	got := NewGateway(gen, time.Second).AnalyzeMood(context.Background(), "", "ran 10k today")
	if got != (MoodResult{Mood: "Energetic", Confidence: ConfidenceHigh}) {
		t.Errorf("Unexpected result %+v", got)
	}
	if !strings.Contains(gen.last, "Title: No title") || !strings.Contains(gen.last, "ran 10k today") {
		t.Errorf("Prompt is missing entry text: %s", gen.last)
	}

	fallbacks := []Generator{nil, &stubGenerator{err: errors.New("boom")}, &stubGenerator{text: "ecstatic"}}
	for i, g := range fallbacks {
		got := NewGateway(g, time.Second).AnalyzeMood(context.Background(), "t", "c")
		if got != (MoodResult{Mood: "Neutral", Confidence: ConfidenceFallback}) {
			t.Errorf("Case %d: expected fallback, got %+v", i, got)
		}
	}
}

func TestGatewayTimeoutFallsBack(t *testing.T) {
	gw := NewGateway(slowGenerator{}, 20*time.Millisecond)
	start := time.Now()
	prompts := gw.Suggestions(context.Background(), Turkish, nil, time.Now())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Expected timeout to cut the call short, took %v", elapsed)
	}
	if len(prompts) != 3 || prompts[0].Title != "Günlük Yansıma" {
		t.Errorf("Expected Turkish fallback prompts, got %+v", prompts)
	}
}

func TestSuggestionsParsesEmbeddedJSON(t *testing.T) {
	gen := &stubGenerator{text: "Sure!\n```json\n{\"prompts\":[{\"title\":\"A\",\"prompt\":\"B\",\"type\":\"growth\"}]}\n```"}
	recent := []EntryContext{{Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), Title: "Walk"}}
	prompts := NewGateway(gen, time.Second).Suggestions(context.Background(), English, recent, time.Now())
	if len(prompts) != 1 || prompts[0].Prompt != "B" {
		t.Errorf("Unexpected prompts %+v", prompts)
	}
	if !strings.Contains(gen.last, "Date: 2026-02-03, Mood: unknown, Title: Walk") {
		t.Errorf("Prompt is missing history: %s", gen.last)
	}

	bad := &stubGenerator{text: `{"prompts":[{"title":""}]}`}
	prompts = NewGateway(bad, time.Second).Suggestions(context.Background(), English, nil, time.Now())
	if len(prompts) != 3 || prompts[0].Title != "Daily Reflection" {
		t.Errorf("Expected English fallback, got %+v", prompts)
	}
}

func TestWeeklySummary(t *testing.T) {
	week := []EntryContext{
		{Date: time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), Mood: "Calm", Title: "Sat", Content: strings.Repeat("a", 600)},
		{Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Mood: "Happy", Title: "Thu"},
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Mood: "Happy", Title: "Mon"},
	}

	empty := NewGateway(nil, time.Second).WeeklySummary(context.Background(), Turkish, nil)
	if empty.HasData || !strings.HasPrefix(empty.Summary, "Bu hafta hiç") {
		t.Errorf("Unexpected empty summary %+v", empty)
	}

	gen := &stubGenerator{text: "  A lovely week.  "}
	got := NewGateway(gen, time.Second).WeeklySummary(context.Background(), English, week)
	if got.Summary != "A lovely week." || got.EntryCount != 3 || got.MoodBreakdown["Happy"] != 2 {
		t.Errorf("Unexpected summary %+v", got)
	}
	if got.PeriodStart != "2026-03-02" || got.PeriodEnd != "2026-03-07" {
		t.Errorf("Unexpected period %s..%s", got.PeriodStart, got.PeriodEnd)
	}
	if strings.Contains(gen.last, strings.Repeat("a", 501)) {
		t.Error("Expected content truncated to 500 characters")
	}

	failed := NewGateway(&stubGenerator{err: errors.New("down")}, time.Second).WeeklySummary(context.Background(), English, week)
	if !failed.HasData || !strings.Contains(failed.Summary, "3 journal entries") || !strings.Contains(failed.Summary, "Happy") {
		t.Errorf("Unexpected fallback summary %+v", failed)
	}
}

func TestInsights(t *testing.T) {
	gen := &stubGenerator{text: `{"insights":[{"icon":"🎯","title":"Mondays","text":"You write most on Mondays."}]}`}
	stats := InsightStats{Moods: map[string]int{"Happy": 2}, Total: 2}
	stats.Weekdays[1] = 2
	got := NewGateway(gen, time.Second).Insights(context.Background(), English, stats)
	if len(got) != 1 || got[0].Title != "Mondays" {
		t.Errorf("Unexpected insights %+v", got)
	}
	if !strings.Contains(gen.last, `{"Happy":2}`) || !strings.Contains(gen.last, "[0,2,0,0,0,0,0]") {
		t.Errorf("Prompt is missing stats: %s", gen.last)
	}

	fb := NewGateway(&stubGenerator{text: "no json"}, time.Second).Insights(context.Background(), Turkish, stats)
	if len(fb) != 3 || fb[0].Title != "Yazmaya Devam Et" {
		t.Errorf("Expected Turkish fallback, got %+v", fb)
	}
}
