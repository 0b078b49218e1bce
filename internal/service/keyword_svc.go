package service

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mathieu-neron/tubestats/internal/model"
)

// MinTokenLen is the shortest token, in runes, that can be ranked.
const MinTokenLen = 2

// DefaultKeywordLimit is the number of tokens returned by analyses.
const DefaultKeywordLimit = 30

// Stopwords is a set of tokens excluded from keyword ranking.
type Stopwords map[string]struct{}

// NewStopwords builds a set from a list, lowercasing every word.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Contains reports whether token is a stopword.
func (s Stopwords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// DefaultStopwords covers English and Korean function words plus the
// filler that dominates YouTube titles.
func DefaultStopwords() Stopwords {
	return NewStopwords(
		"the", "and", "for", "with", "you", "your", "this", "that", "from", "are",
		"was", "how", "what", "why", "who", "when", "all", "not", "but", "can",
		"its", "into", "out", "our", "his", "her", "they", "them", "will", "just",
		"of", "to", "in", "on", "at", "by", "is", "it", "an", "or", "as", "be",
		"my", "me", "we", "so", "do", "no", "up", "vs",
		"official", "video", "videos", "full", "new", "shorts", "ep", "part",
		"그리고", "하는", "있는", "없는", "이런", "저런", "그런", "정말", "진짜",
		"영상", "오늘", "이것", "그것", "저것", "하기", "해서", "에서", "으로",
	)
}

// Tokenize lowercases text and splits it into maximal runs of letters and
// digits in any script. Everything else is a separator.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// keywordAccumulator sums scores per token and remembers first-seen order
// so equal scores rank deterministically.
type keywordAccumulator struct {
	stop   Stopwords
	scores map[string]float64
	order  []string
}

func newKeywordAccumulator(stop Stopwords) *keywordAccumulator {
	return &keywordAccumulator{stop: stop, scores: make(map[string]float64)}
}

func (a *keywordAccumulator) add(text string, weight float64) {
	for _, tok := range Tokenize(text) {
		if utf8.RuneCountInString(tok) < MinTokenLen || a.stop.Contains(tok) {
			continue
		}
		if _, seen := a.scores[tok]; !seen {
			a.order = append(a.order, tok)
		}
		a.scores[tok] += weight
	}
}

func (a *keywordAccumulator) top(n int) []model.KeywordScore {
	ranked := make([]model.KeywordScore, 0, len(a.order))
	for _, tok := range a.order {
		ranked = append(ranked, model.KeywordScore{Token: tok, Score: a.scores[tok]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ViewWeight is the contribution of one token occurrence in a video with the
// given view count. Square root keeps a single viral title from drowning out
// the rest while still favouring better-performing videos.
func ViewWeight(views int64) float64 {
	if views <= 0 {
		return 0
	}
	return math.Sqrt(float64(views))
}

// RankKeywords scores title tokens by summing sqrt(views) of every video whose
// title contains them, and returns the top n by score, ties in first-seen order.
func RankKeywords(videos []model.VideoRecord, n int, stop Stopwords) []model.KeywordScore {
	acc := newKeywordAccumulator(stop)
	for _, v := range videos {
		acc.add(v.Title, ViewWeight(v.Views))
	}
	return acc.top(n)
}

// RankTags applies the same weighting to each video's tag list.
func RankTags(videos []model.VideoRecord, n int, stop Stopwords) []model.KeywordScore {
	acc := newKeywordAccumulator(stop)
	for _, v := range videos {
		w := ViewWeight(v.Views)
		for _, tag := range v.Tags {
			acc.add(tag, w)
		}
	}
	return acc.top(n)
}

const (
	defaultTitleCore = "this topic"
	defaultIdeaBase  = "your topic"
)

// SuggestTitles fills a fixed set of title patterns with the core term. A
// blank core falls back to the top keyword, then to a generic phrase.
func SuggestTitles(core string, keywords []model.KeywordScore) []string {
	core = strings.TrimSpace(core)
	if core == "" && len(keywords) > 0 {
		core = keywords[0].Token
	}
	if core == "" {
		core = defaultTitleCore
	}
	return []string{
		"How " + core + " changed my life",
		"The honest " + core + " advice nobody gives you",
		"Learning " + core + " from scratch (complete basics)",
		"5 things you must know before starting " + core,
		"Everyone is doing " + core + ", but here is what they miss",
	}
}

// ContentIdeas returns rule-based video ideas around a base term. Format
// ideas drawn from the collection are appended only when it has videos.
func ContentIdeas(base string, videos []model.VideoRecord) []string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = defaultIdeaBase
	}
	ideas := []string{
		"Storytelling video built on real " + base + " cases and anecdotes",
		"Top 5 myths and common mistakes about " + base,
		"Viewer Q&A answering the most asked questions on " + base,
		"Beginner's guide to " + base + " starting from the very basics",
		"Then and now: how " + base + " trends have changed",
	}
	if len(videos) > 0 {
		ideas = append(ideas,
			"Shorts series reusing the format of the best performing short videos",
			"Series following the shared title and thumbnail style of the most liked videos",
		)
	}
	return ideas
}

// SuggestTags builds a tag candidate list: the core term followed by up to 15
// ranked keywords, without duplicates.
func SuggestTags(core string, keywords []model.KeywordScore) []string {
	core = strings.TrimSpace(core)
	if core == "" && len(keywords) > 0 {
		core = keywords[0].Token
	}
	tags := make([]string, 0, 16)
	seen := make(map[string]struct{}, 16)
	if core != "" {
		tags = append(tags, core)
		seen[strings.ToLower(core)] = struct{}{}
	}
	for i, k := range keywords {
		if i >= 15 {
			break
		}
		if _, dup := seen[k.Token]; dup {
			continue
		}
		seen[k.Token] = struct{}{}
		tags = append(tags, k.Token)
	}
	return tags
}
