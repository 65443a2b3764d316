package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 3

// Pipeline fetches notes from registered sources, cleans them, asks the
// provider for an analysis and parses the reply.
type Pipeline struct {
	provider    Provider
	cleaner     Cleaner
	concurrency int
	sources     map[SourceType]Source
}

// NewPipeline creates a pipeline. A concurrency below 1 uses
// DefaultConcurrency.
func NewPipeline(provider Provider, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	slog.Info("analysis pipeline ready", "provider", provider.Name(), "model", provider.Model())
	return &Pipeline{
		provider:    provider,
		cleaner:     DefaultCleaner(),
		concurrency: concurrency,
		sources:     make(map[SourceType]Source),
	}
}

// Register adds a note source, replacing any previous source of the same
// type. It must not be called concurrently with FetchAndProcess.
func (p *Pipeline) Register(src Source) {
	p.sources[src.Type()] = src
}

// Status reports the provider and registered sources.
func (p *Pipeline) Status() Status {
	names := make([]string, 0, len(p.sources))
	for t := range p.sources {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return Status{
		Provider:          p.provider.Name(),
		Model:             p.provider.Model(),
		APIKeyConfigured:  p.provider.Name() != ProviderMock,
		RegisteredSources: names,
		Concurrency:       p.concurrency,
	}
}

// ProcessNote analyzes a single note. An empty template name picks the
// template for the note's content type. Failures are reported in the
// result's Error field.
func (p *Pipeline) ProcessNote(ctx context.Context, note Note, templateName string) Result {
	start := time.Now()

	if p.cleaner.Clean(note.FullText()) == "" {
		return failedResult(note, "empty content after cleaning")
	}
	if templateName == "" {
		templateName = TemplateFor(note.ContentType)
	}
	tmpl, err := LookupTemplate(templateName)
	if err != nil {
		return failedResult(note, err.Error())
	}

	cleaned := note
	cleaned.Content = p.cleaner.Clean(note.Content)
	system, user := tmpl.BuildPrompt(cleaned)

	reply, err := p.provider.Complete(ctx, system, user)
	if err != nil {
		slog.Error("analysis failed", "note", note.ID, "error", err)
		return failedResult(note, err.Error())
	}
	data, err := DecodeResponse(reply)
	if err != nil {
		slog.Warn("unparseable analysis", "note", note.ID, "error", err)
		return failedResult(note, err.Error())
	}

	res := resultFrom(data, note)
	res.ModelUsed = p.provider.Model()
	res.ProcessingTime = time.Since(start).Seconds()
	slog.Info("analyzed note", "note", note.ID, "sentiment", res.Sentiment, "intent", res.UserIntent,
		"duration", time.Since(start))
	return res
}

// ProcessBatch analyzes notes with at most the configured number running
// at once. Results keep the order of notes.
func (p *Pipeline) ProcessBatch(ctx context.Context, notes []Note, templateName string) *Batch {
	start := time.Now()
	results := make([]Result, len(notes))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, n := range notes {
		g.Go(func() error {
			results[i] = p.ProcessNote(ctx, n, templateName)
			return nil
		})
	}
	_ = g.Wait()

	b := &Batch{Results: results, TotalCount: len(notes)}
	for _, r := range results {
		if r.Error != "" {
			b.FailedCount++
		} else {
			b.SuccessCount++
		}
	}
	b.ProcessingTime = time.Since(start).Seconds()
	slog.Info("batch analysis complete", "success", b.SuccessCount, "failed", b.FailedCount,
		"duration", time.Since(start))
	return b
}

// FetchAndProcess fetches up to limit notes for keyword from the named
// source and analyzes them. Unknown sources and templates are rejected
// before anything is fetched.
func (p *Pipeline) FetchAndProcess(ctx context.Context, source SourceType, keyword, city string, limit int, templateName string) (*Batch, error) {
	src, ok := p.sources[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	if templateName != "" {
		if _, err := LookupTemplate(templateName); err != nil {
			return nil, err
		}
	}

	notes, err := src.FetchNotes(ctx, keyword, city, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching notes from %s: %w", source, err)
	}
	if len(notes) == 0 {
		slog.Warn("no notes found", "source", source, "keyword", keyword)
		return &Batch{Results: []Result{}}, nil
	}
	return p.ProcessBatch(ctx, notes, templateName), nil
}
