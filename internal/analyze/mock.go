package analyze

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	positiveWords = []string{"推荐", "绝了", "好吃", "必去", "值得", "喜欢", "超赞", "很方便", "不错"}
	negativeWords = []string{"避坑", "失望", "太差", "很差", "千万别", "踩雷", "不推荐", "堪忧", "被骗"}
	adWords       = []string{"广告", "推广", "合作", "优惠", "福利"}

	pricePattern = regexp.MustCompile(`(人均[:：]?\s*\d+(?:\s*[-~]\s*\d+)?|\d+\s*元|花费[:：]?\s*\d+\S*)`)
	tipPattern   = regexp.MustCompile(`(建议[^。！!；;\n]*|一定要[^。！!；;\n]*)`)
	placePattern = regexp.MustCompile(`[\p{Han}]{2,8}(?:山|洲|街|路|馆|广场|老街|博物馆|公园|寺|湖)`)
	sectionTitle = regexp.MustCompile(`【([^】]+)】\n`)
)

// MockProvider answers with a deterministic, keyword-based analysis. It
// is used when no model API key is configured.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (m *MockProvider) Name() string  { return ProviderMock }
func (m *MockProvider) Model() string { return "mock-analyzer" }

// Complete implements Provider. It reads the sections of a prompt built by
// Template.BuildPrompt and replies with the JSON a model would.
func (m *MockProvider) Complete(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sections := promptSections(user)
	title := sections["标题"]
	content := sections["内容"]
	body := title + " " + content

	pos := countAny(body, positiveWords)
	neg := countAny(body, negativeWords)

	sentiment, intent := SentimentNeutral, IntentShare
	switch {
	case pos > 0 && neg > 0:
		sentiment, intent = SentimentMixed, IntentReview
	case pos > 0:
		sentiment, intent = SentimentPositive, IntentRecommend
	case neg > 0:
		sentiment, intent = SentimentNegative, IntentWarn
	}
	if strings.ContainsAny(title, "?？") || strings.Contains(title, "求") {
		intent = IntentQuestion
	}

	keywords := []string{}
	if tags := sections["标签"]; tags != "" && tags != "无" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" && len(keywords) < 5 {
				keywords = append(keywords, t)
			}
		}
	}

	places := uniqueMatches(placePattern, body, 5)
	tips := uniqueMatches(tipPattern, content, 3)

	quality := 2.0
	if r := len([]rune(content)); r > 200 {
		quality = 4
	} else if r > 60 {
		quality = 3
	}
	if len(tips) > 0 {
		quality++
	}

	out := map[string]any{
		"sentiment":        sentiment,
		"sentiment_score":  3 + pos - neg,
		"sentiment_reason": reason(pos, neg),
		"keywords":         keywords,
		"summary":          truncate(strings.TrimSpace(title+"。"+content), 50),
		"user_intent":      intent,
		"places":           places,
		"price_info":       pricePattern.FindString(content),
		"tips":             tips,
		"quality_score":    quality,
		"is_ad":            countAny(body, adWords) > 0,
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// promptSections splits a user prompt into its 【name】 sections.
func promptSections(prompt string) map[string]string {
	out := make(map[string]string)
	locs := sectionTitle.FindAllStringSubmatchIndex(prompt, -1)
	for i, loc := range locs {
		end := len(prompt)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out[prompt[loc[2]:loc[3]]] = strings.TrimSpace(prompt[loc[1]:end])
	}
	return out
}

func countAny(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}

func uniqueMatches(re *regexp.Regexp, s string, limit int) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllString(s, -1) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out
}

func reason(pos, neg int) string {
	switch {
	case pos > 0 && neg > 0:
		return "同时包含推荐与吐槽"
	case pos > 0:
		return "包含推荐类表达"
	case neg > 0:
		return "包含避坑类表达"
	}
	return "未发现明显情感表达"
}
