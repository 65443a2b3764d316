package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const maxSummary = 100

var (
	errEmptyResponse = errors.New("empty model response")
	jsonObject       = regexp.MustCompile(`(?s)\{.*\}`)
)

var sentimentSynonyms = map[string]Sentiment{
	"positive": SentimentPositive,
	"negative": SentimentNegative,
	"neutral":  SentimentNeutral,
	"mixed":    SentimentMixed,
	"种草":       SentimentPositive,
	"拔草":       SentimentNegative,
	"中立":       SentimentNeutral,
}

var intentSynonyms = map[string]Intent{
	"recommend": IntentRecommend,
	"warn":      IntentWarn,
	"review":    IntentReview,
	"question":  IntentQuestion,
	"share":     IntentShare,
	"种草":        IntentRecommend,
	"拔草":        IntentWarn,
	"评测":        IntentReview,
	"提问":        IntentQuestion,
	"分享":        IntentShare,
}

// DecodeResponse extracts the JSON object from a model reply. Markdown
// code fences are stripped; if the remainder is not valid JSON the first
// {...} block is tried.
func DecodeResponse(raw string) (map[string]any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, errEmptyResponse
	}
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "```"))

	var data map[string]any
	err := json.Unmarshal([]byte(s), &data)
	if err == nil {
		return data, nil
	}
	if m := jsonObject.FindString(s); m != "" {
		if json.Unmarshal([]byte(m), &data) == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("decoding model response: %w", err)
}

// resultFrom converts decoded model output into a Result for note.
func resultFrom(data map[string]any, note Note) Result {
	intentRaw, ok := data["user_intent"]
	if !ok {
		intentRaw = data["intent"]
	}

	return Result{
		NoteID:          note.ID,
		Source:          note.Source,
		Sentiment:       lookupSentiment(data["sentiment"]),
		SentimentScore:  score(data["sentiment_score"]),
		SentimentReason: text(data["sentiment_reason"]),
		Keywords:        list(data["keywords"]),
		Summary:         truncate(text(data["summary"]), maxSummary),
		UserIntent:      lookupIntent(intentRaw),
		Places:          list(data["places"]),
		PriceInfo:       text(data["price_info"]),
		Tips:            list(data["tips"]),
		QualityScore:    score(data["quality_score"]),
		IsAd:            truthy(data["is_ad"]),
	}
}

func lookupSentiment(v any) Sentiment {
	if s, ok := v.(string); ok {
		if out, ok := sentimentSynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
			return out
		}
	}
	return SentimentNeutral
}

func lookupIntent(v any) Intent {
	if s, ok := v.(string); ok {
		if out, ok := intentSynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
			return out
		}
	}
	return IntentShare
}

// score reads a 1-5 score, clamping out-of-range values and defaulting
// to 3 when the value is missing or not numeric.
func score(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 3
		}
		f = parsed
	default:
		return 3
	}
	return min(5, max(1, f))
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func list(v any) []string {
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			out = append(out, text(item))
		}
		return out
	case string:
		if x != "" {
			return []string{x}
		}
	}
	return []string{}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(x)
		return b
	case float64:
		return x != 0
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
