package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"moodjournal/internal/analytics"
	"moodjournal/internal/metrics"
)

const (
	DefaultTimeout  = 8 * time.Second
	maxContentRunes = 500

	ConfidenceHigh     = "high"
	ConfidenceFallback = "fallback"
)

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// EntryContext is the slice of an entry the model may see. Content is empty
// for encrypted entries.
type EntryContext struct {
	Date    time.Time
	Mood    string
	Title   string
	Content string
}

type MoodResult struct {
	Mood       string `json:"mood"`
	Confidence string `json:"confidence"`
}

type WeeklySummary struct {
	Summary       string         `json:"summary"`
	HasData       bool           `json:"hasData"`
	EntryCount    int            `json:"entryCount"`
	MoodBreakdown map[string]int `json:"moodBreakdown"`
	PeriodStart   string         `json:"periodStart,omitempty"`
	PeriodEnd     string         `json:"periodEnd,omitempty"`
}

type InsightStats struct {
	Moods    map[string]int
	Weekdays [7]int // Sunday first
	Total    int
}

// Gateway runs each model call under a timeout and substitutes canned
// content on any failure. A nil generator always falls back.
type Gateway struct {
	gen     Generator
	timeout time.Duration
}

func NewGateway(gen Generator, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{gen: gen, timeout: timeout}
}

func (g *Gateway) generate(ctx context.Context, op, prompt string) (string, bool) {
	if g.gen == nil {
		fallback(op, "not_configured", nil)
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		reason := "error"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		fallback(op, reason, err)
		return "", false
	}
	return text, true
}

func fallback(op, reason string, err error) {
	metrics.AIFallbacks.WithLabelValues(op, reason).Inc()
	slog.Warn("ai fallback", "operation", op, "reason", reason, "error", err)
}

// decodeObject unmarshals the first {...} span of text into v.
func decodeObject(text string, v any) error {
	match := jsonObject.FindString(text)
	if match == "" {
		return errors.New("no JSON object in response")
	}
	return json.Unmarshal([]byte(match), v)
}

// ClassifyMood maps model output to a mood label: an exact label first,
// then the first label mentioned. It returns "" when none matches.
func ClassifyMood(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, m := range analytics.Moods {
		if trimmed == m {
			return m
		}
	}
	for _, m := range analytics.Moods {
		if strings.Contains(text, m) {
			return m
		}
	}
	return ""
}

func (g *Gateway) AnalyzeMood(ctx context.Context, title, content string) MoodResult {
	if title == "" {
		title = "No title"
	}
	prompt := fmt.Sprintf(`Analyze the emotional tone of this journal entry and determine the primary mood.

Title: %s
Content: %s

Respond with ONLY ONE of these exact words (nothing else):
- Happy (if the content expresses joy, happiness, gratitude, excitement)
- Sad (if the content expresses sadness, grief, disappointment, melancholy)
- Neutral (if the content is factual, balanced, or has mixed emotions)
- Energetic (if the content shows high energy, motivation, productivity)
- Calm (if the content expresses peace, relaxation, contentment, mindfulness)

Your response must be exactly one word from the list above.`, title, content)

	text, ok := g.generate(ctx, "analyze_mood", prompt)
	if !ok {
		return MoodResult{Mood: "Neutral", Confidence: ConfidenceFallback}
	}
	mood := ClassifyMood(text)
	if mood == "" {
		fallback("analyze_mood", "unparsable", nil)
		return MoodResult{Mood: "Neutral", Confidence: ConfidenceFallback}
	}
	return MoodResult{Mood: mood, Confidence: ConfidenceHigh}
}

func (g *Gateway) Suggestions(ctx context.Context, lang Language, recent []EntryContext, today time.Time) []Prompt {
	history := "The user is new to journaling."
	if len(recent) > 0 {
		lines := make([]string, len(recent))
		for i, e := range recent {
			mood := e.Mood
			if mood == "" {
				mood = "unknown"
			}
			lines[i] = fmt.Sprintf("Date: %s, Mood: %s, Title: %s", e.Date.Format(analytics.DateLayout), mood, e.Title)
		}
		history = "Recent entries:\n" + strings.Join(lines, "\n")
	}

	prompt := fmt.Sprintf(`You are a thoughtful journaling assistant. Based on this user's recent journal activity, suggest 3 writing prompts for today.

%s

Today's date: %s

Provide exactly 3 short, thoughtful writing prompts in JSON format. Each prompt should be different in style (reflective, gratitude, growth-focused).
IMPORTANT: The 'title' 'prompt' and 'type' values MUST be in %s.

Respond ONLY with valid JSON in this exact format:
{
  "prompts": [
    {"title": "Short title", "prompt": "The writing prompt question or suggestion", "type": "reflection"},
    {"title": "Short title", "prompt": "The writing prompt question or suggestion", "type": "gratitude"},
    {"title": "Short title", "prompt": "The writing prompt question or suggestion", "type": "growth"}
  ]
}`, history, today.Format("Monday, January 2, 2006"), lang.name())

	text, ok := g.generate(ctx, "suggestions", prompt)
	if !ok {
		return copyPrompts(lang)
	}
	var out struct {
		Prompts []Prompt `json:"prompts"`
	}
	if err := decodeObject(text, &out); err != nil || !validPrompts(out.Prompts) {
		fallback("suggestions", "unparsable", err)
		return copyPrompts(lang)
	}
	if len(out.Prompts) > 3 {
		out.Prompts = out.Prompts[:3]
	}
	return out.Prompts
}

func validPrompts(ps []Prompt) bool {
	if len(ps) == 0 {
		return false
	}
	for _, p := range ps {
		if p.Title == "" || p.Prompt == "" {
			return false
		}
	}
	return true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// WeeklySummary summarises the given week of entries, newest first.
func (g *Gateway) WeeklySummary(ctx context.Context, lang Language, week []EntryContext) WeeklySummary {
	if len(week) == 0 {
		return WeeklySummary{Summary: noEntriesMessage(lang), HasData: false, MoodBreakdown: map[string]int{}}
	}

	out := WeeklySummary{
		HasData:       true,
		EntryCount:    len(week),
		MoodBreakdown: map[string]int{},
		PeriodStart:   week[len(week)-1].Date.Format(analytics.DateLayout),
		PeriodEnd:     week[0].Date.Format(analytics.DateLayout),
	}
	blocks := make([]string, len(week))
	for i, e := range week {
		if e.Mood != "" {
			out.MoodBreakdown[e.Mood]++
		}
		mood := e.Mood
		if mood == "" {
			mood = "not specified"
		}
		blocks[i] = fmt.Sprintf("Date: %s\nMood: %s\nTitle: %s\nContent: %s",
			e.Date.Format(analytics.DateLayout), mood, e.Title, truncateRunes(e.Content, maxContentRunes))
	}

	prompt := fmt.Sprintf(`You are a compassionate journaling companion. Analyze this week's journal entries and provide a brief, supportive weekly summary.

Entries from this week:
%s

Write a warm, personalized summary (150-200 words) that:
1. Highlights the emotional themes of the week
2. Notes any positive patterns or growth
3. Offers gentle encouragement for the coming week

Write in a supportive, personal tone as if you're their thoughtful friend.
IMPORTANT: Write the summary entirely in %s.`, strings.Join(blocks, "\n\n---\n\n"), lang.name())

	text, ok := g.generate(ctx, "weekly_summary", prompt)
	if !ok || strings.TrimSpace(text) == "" {
		out.Summary = fallbackSummary(lang, out.EntryCount, topMood(out.MoodBreakdown))
		return out
	}
	out.Summary = strings.TrimSpace(text)
	return out
}

// topMood returns the most frequent mood, breaking ties by label.
func topMood(counts map[string]int) string {
	labels := make([]string, 0, len(counts))
	for m := range counts {
		labels = append(labels, m)
	}
	sort.Strings(labels)
	best := ""
	for _, m := range labels {
		if best == "" || counts[m] > counts[best] {
			best = m
		}
	}
	return best
}

func (g *Gateway) Insights(ctx context.Context, lang Language, stats InsightStats) []Insight {
	moods, _ := json.Marshal(stats.Moods)
	days, _ := json.Marshal(stats.Weekdays)
	prompt := fmt.Sprintf(`Analyze this journaling data and provide 3 personalized insights.

Mood distribution: %s
Writing frequency by day (index 0=Sunday): %s
Total entries: %d

Provide exactly 3 actionable insights in JSON format:
{
  "insights": [
    {"icon": "emoji", "title": "Short insight title", "text": "Brief insight explanation (1-2 sentences)"},
    {"icon": "emoji", "title": "Short insight title", "text": "Brief insight explanation"},
    {"icon": "emoji", "title": "Short insight title", "text": "Brief insight explanation"}
  ]
}

Use appropriate emojis for icons (like 🎯, 💪, 🌟, etc.)
IMPORTANT: The 'title' and 'text' values MUST be in %s.`, moods, days, stats.Total, lang.name())

	text, ok := g.generate(ctx, "insights", prompt)
	if !ok {
		return copyInsights(lang)
	}
	var out struct {
		Insights []Insight `json:"insights"`
	}
	if err := decodeObject(text, &out); err != nil || len(out.Insights) == 0 {
		fallback("insights", "unparsable", err)
		return copyInsights(lang)
	}
	return out.Insights
}
