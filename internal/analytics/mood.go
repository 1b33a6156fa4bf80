package analytics

import (
	"math"
	"sort"
	"time"
)

// Moods is the closed label set used for scoring and AI classification, in
// the order the classifier scans for them.
var Moods = []string{"Happy", "Sad", "Neutral", "Energetic", "Calm"}

// MoodScores maps scored labels to their ordinal weight. Any other label
// weighs 0 but still counts toward a bucket's total.
var MoodScores = map[string]int{
	"Happy":     5,
	"Energetic": 4,
	"Calm":      3,
	"Neutral":   2,
	"Sad":       1,
}

// Granularity selects how mood samples are bucketed.
type Granularity int

const (
	ByDay Granularity = iota
	ByMonth
)

func (g Granularity) key(t time.Time) string {
	if g == ByMonth {
		return t.Format("2006-01")
	}
	return t.Format(DateLayout)
}

// TrendPeriod describes the lookback window and bucket size for a named
// trend period. Unknown names fall back to "month".
func TrendPeriod(name string) (lookbackDays int, g Granularity) {
	switch name {
	case "week":
		return 7, ByDay
	case "year":
		return 365, ByMonth
	default:
		return 30, ByDay
	}
}

// MoodSample is one entry's mood on its date.
type MoodSample struct {
	Mood string
	Date time.Time
}

// MoodBucket aggregates samples sharing a period key.
type MoodBucket struct {
	Period   string         `json:"period"`
	Moods    map[string]int `json:"moods"`
	AvgScore float64        `json:"avgScore"`
}

// Total is the number of samples in the bucket.
func (b MoodBucket) Total() int {
	n := 0
	for _, c := range b.Moods {
		n += c
	}
	return n
}

// AverageScore returns the weighted mean score of counts rounded to two
// decimals, or 0 when counts is empty.
func AverageScore(counts map[string]int) float64 {
	var score, total int
	for mood, c := range counts {
		score += MoodScores[mood] * c
		total += c
	}
	if total == 0 {
		return 0
	}
	return round2(float64(score) / float64(total))
}

// MoodTrends groups samples into buckets ordered by period ascending. Samples
// without a mood are ignored.
func MoodTrends(samples []MoodSample, g Granularity) []MoodBucket {
	byPeriod := make(map[string]map[string]int)
	for _, s := range samples {
		if s.Mood == "" {
			continue
		}
		k := g.key(s.Date)
		if byPeriod[k] == nil {
			byPeriod[k] = make(map[string]int)
		}
		byPeriod[k][s.Mood]++
	}

	out := make([]MoodBucket, 0, len(byPeriod))
	for k, counts := range byPeriod {
		out = append(out, MoodBucket{Period: k, Moods: counts, AvgScore: AverageScore(counts)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// MoodShare is one label's share of all moods.
type MoodShare struct {
	Mood       string  `json:"mood"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MoodDistribution counts each non-empty label and its percentage of the
// total, most frequent first with ties ordered by label.
func MoodDistribution(moods []string) []MoodShare {
	counts := make(map[string]int)
	total := 0
	for _, m := range moods {
		if m == "" {
			continue
		}
		counts[m]++
		total++
	}
	out := make([]MoodShare, 0, len(counts))
	for m, c := range counts {
		out = append(out, MoodShare{Mood: m, Count: c, Percentage: round2(float64(c) * 100 / float64(total))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mood < out[j].Mood
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
