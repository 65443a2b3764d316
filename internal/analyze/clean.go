package analyze

import (
	"regexp"
	"strings"
)

var (
	emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F900}-\x{1F9FF}\x{1FA70}-\x{1FAFF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{26FF}\x{2702}-\x{27B0}\x{FE0F}\x{200D}]+`)

	adPatterns = []*regexp.Regexp{
		regexp.MustCompile(`#广告#`),
		regexp.MustCompile(`#推广#`),
		regexp.MustCompile(`#合作#`),
		regexp.MustCompile(`@\S+\s*`),
		regexp.MustCompile(`点击链接.*`),
		regexp.MustCompile(`戳链接.*`),
		regexp.MustCompile(`复制.*口令.*`),
		regexp.MustCompile(`优惠券.*`),
		regexp.MustCompile(`领取.*福利.*`),
	}

	hashtagPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\[.*?\]`),
		regexp.MustCompile(`#\S+#`),
	}

	whitespace = regexp.MustCompile(`\s+`)
)

// Cleaner strips social-media noise from note text before it is sent to
// a model.
type Cleaner struct {
	RemoveEmoji    bool
	RemoveAds      bool
	RemoveHashtags bool
}

// DefaultCleaner removes emoji and promotional markers but keeps topic
// hashtags.
func DefaultCleaner() Cleaner {
	return Cleaner{RemoveEmoji: true, RemoveAds: true}
}

// Clean returns text with the configured noise removed and whitespace
// collapsed to single spaces.
func (c Cleaner) Clean(text string) string {
	if text == "" {
		return ""
	}
	if c.RemoveEmoji {
		text = emojiPattern.ReplaceAllString(text, "")
	}
	if c.RemoveAds {
		for _, p := range adPatterns {
			text = p.ReplaceAllString(text, "")
		}
	}
	if c.RemoveHashtags {
		for _, p := range hashtagPatterns {
			text = p.ReplaceAllString(text, "")
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}
