// Package analyze runs travel notes through an LLM and turns the answers
// into structured sentiment, keyword and intent results.
package analyze

import (
	"errors"
	"fmt"
	"hash/fnv"
)

var (
	ErrUnknownSource   = errors.New("unknown source")
	ErrUnknownTemplate = errors.New("unknown template")
)

// SourceType names where notes come from.
type SourceType string

const (
	SourceMock SourceType = "mock"
	SourceAmap SourceType = "amap"
)

// ContentType classifies a note and picks its default prompt template.
type ContentType string

const (
	ContentAttraction ContentType = "attraction"
	ContentDining     ContentType = "dining"
	ContentHotel      ContentType = "hotel"
	ContentCommute    ContentType = "commute"
	ContentGeneral    ContentType = "general"
)

// ParseContentType maps a request value to a ContentType, defaulting to
// general.
func ParseContentType(s string) ContentType {
	switch ContentType(s) {
	case ContentAttraction, ContentDining, ContentHotel, ContentCommute:
		return ContentType(s)
	}
	return ContentGeneral
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

type Intent string

const (
	IntentRecommend Intent = "recommend"
	IntentWarn      Intent = "warn"
	IntentReview    Intent = "review"
	IntentQuestion  Intent = "question"
	IntentShare     Intent = "share"
)

// Note is a piece of user-generated travel content, whatever its origin.
type Note struct {
	ID          string      `json:"id"`
	Source      SourceType  `json:"source"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	Tags        []string    `json:"tags"`
	Location    string      `json:"location"`
	City        string      `json:"city"`
	Likes       int         `json:"likes"`
	Collects    int         `json:"collects"`
	Comments    int         `json:"comments"`
}

// FullText returns the title and content as one block.
func (n Note) FullText() string {
	return n.Title + "\n\n" + n.Content
}

// TextNote builds a note from free text submitted by a user. The id is
// derived from the text so the same submission always gets the same id.
func TextNote(title, content string, tags []string, location, city string, contentType ContentType) Note {
	h := fnv.New32a()
	h.Write([]byte(title + content))
	if tags == nil {
		tags = []string{}
	}
	return Note{
		ID:          fmt.Sprintf("api_%08x", h.Sum32()),
		Source:      SourceMock,
		Title:       title,
		Content:     content,
		ContentType: contentType,
		Tags:        tags,
		Location:    location,
		City:        city,
	}
}

// Result is the structured analysis of one note. Error is set when the
// note could not be analyzed; the other fields then hold defaults.
type Result struct {
	NoteID          string     `json:"note_id"`
	Source          SourceType `json:"source"`
	Sentiment       Sentiment  `json:"sentiment"`
	SentimentScore  float64    `json:"sentiment_score"`
	SentimentReason string     `json:"sentiment_reason"`
	Keywords        []string   `json:"keywords"`
	Summary         string     `json:"summary"`
	UserIntent      Intent     `json:"user_intent"`
	Places          []string   `json:"places"`
	PriceInfo       string     `json:"price_info"`
	Tips            []string   `json:"tips"`
	QualityScore    float64    `json:"quality_score"`
	IsAd            bool       `json:"is_ad"`
	ModelUsed       string     `json:"model_used"`
	ProcessingTime  float64    `json:"processing_time"`
	Error           string     `json:"error,omitempty"`
}

func failedResult(note Note, msg string) Result {
	return Result{
		NoteID:         note.ID,
		Source:         note.Source,
		Sentiment:      SentimentNeutral,
		SentimentScore: 3,
		Keywords:       []string{},
		UserIntent:     IntentShare,
		Places:         []string{},
		Tips:           []string{},
		QualityScore:   3,
		Error:          msg,
	}
}

// Batch is the outcome of analyzing several notes.
type Batch struct {
	Results        []Result `json:"results"`
	TotalCount     int      `json:"total_count"`
	SuccessCount   int      `json:"success_count"`
	FailedCount    int      `json:"failed_count"`
	ProcessingTime float64  `json:"processing_time"`
}

// Status describes how the pipeline is configured.
type Status struct {
	Provider          string   `json:"provider"`
	Model             string   `json:"model"`
	APIKeyConfigured  bool     `json:"api_key_configured"`
	RegisteredSources []string `json:"registered_sources"`
	Concurrency       int      `json:"concurrency"`
}
