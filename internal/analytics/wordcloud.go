package analytics

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultWordLimit = 50
	MaxWordLimit     = 500
)

var stopWords = makeSet(
	// English
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "from", "is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "could", "should", "may", "might", "must",
	"i", "me", "my", "myself", "we", "our", "ours", "you", "your", "he", "she", "it",
	"they", "them", "their", "this", "that", "these", "those", "what", "which", "who",
	"when", "where", "why", "how", "all", "each", "every", "both", "few", "more", "most",
	"other", "some", "such", "no", "not", "only", "same", "so", "than", "too", "very",
	"just", "also", "now", "here", "there", "then", "if", "because", "as", "until", "while",
	"about", "into", "through", "during", "before", "after", "above", "below", "up", "down",
	"out", "off", "over", "under", "again", "further", "once", "am", "can", "get", "got",
	// Turkish
	"ve", "veya", "ama", "fakat", "ile", "için", "de", "da", "den", "dan", "ki", "ne",
	"bu", "şu", "o", "ben", "sen", "biz", "siz", "onlar", "bir", "iki", "üç", "dört",
	"gibi", "kadar", "daha", "en", "çok", "az", "var", "yok", "olarak", "olan", "oldu",
	"olacak", "ise", "ya", "hem", "mi", "mı", "mu", "mü", "değil", "nasıl", "neden",
	"nerede", "kim", "hangi", "her", "hiç", "bazı", "bütün", "tüm", "diğer",
	"kendi", "aynı", "bile", "sadece", "yalnız", "artık", "hala", "henüz", "şimdi",
	"bugün", "dün", "yarın", "gün", "ay", "yıl", "zaman",
)

func makeSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// WordCount is one word-cloud token.
type WordCount struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

func keepRune(r rune) bool {
	switch {
	case r < utf8.RuneSelf:
		return r == '_' || unicode.IsSpace(r) || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune("ğüşıöçĞÜŞİÖÇ", r)
}

// Tokenize lowercases text, replaces anything other than ASCII word
// characters and Turkish letters with spaces, and returns the remaining
// tokens longer than two letters that are neither stop words nor numbers.
func Tokenize(text string) []string {
	lowered := cases.Lower(language.Und).String(text)
	cleaned := strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return ' '
	}, lowered)

	var out []string
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) <= 2 || isDigits(w) {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// WordCloud counts tokens across texts and returns the limit most frequent,
// highest count first and alphabetical among equal counts. A non-positive
// limit means DefaultWordLimit.
func WordCloud(texts []string, limit int) []WordCount {
	if limit <= 0 {
		limit = DefaultWordLimit
	}
	if limit > MaxWordLimit {
		limit = MaxWordLimit
	}

	counts := make(map[string]int)
	for _, t := range texts {
		for _, w := range Tokenize(t) {
			counts[w]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Text: w, Value: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CountWords is the stored word count of plain entry content.
func CountWords(content string) int {
	return len(strings.Fields(content))
}
