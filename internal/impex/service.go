package impex

import (
	"context"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/impexls/internal/cachemanager"
	"github.com/zjrosen/impexls/internal/log"
	"github.com/zjrosen/impexls/internal/pubsub"
	"github.com/zjrosen/impexls/internal/tracing"
)

// Service owns the current Document of every open editor buffer.
//
// Writers (text, changes, close, reindex) are serialized; readers never take
// that lock and always see one complete Document generation.
type Service struct {
	store  cachemanager.CacheManager[string, *Document]
	events *pubsub.Broker[DocumentEvent]
	tracer trace.Tracer

	writeMu sync.Mutex
	optsMu  sync.RWMutex
	opts    Options
	gen     atomic.Uint64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTracer records index and highlight spans on tracer.
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithStore replaces the default in-memory document store.
func WithStore(store cachemanager.CacheManager[string, *Document]) ServiceOption {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// NewService creates a Service indexing with opts.
func NewService(opts Options, options ...ServiceOption) *Service {
	s := &Service{
		store:  cachemanager.NewInMemoryCacheManager[string, *Document]("documents", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval),
		events: pubsub.NewBroker[DocumentEvent](),
		tracer: noop.NewTracerProvider().Tracer("impex"),
		opts:   opts.normalized(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Events returns the broker on which document events are published.
func (s *Service) Events() *pubsub.Broker[DocumentEvent] {
	return s.events
}

// Close shuts down the event broker.
func (s *Service) Close() {
	s.events.Close()
}

// Options returns the options currently used for indexing.
func (s *Service) Options() Options {
	s.optsMu.RLock()
	defer s.optsMu.RUnlock()
	return s.opts
}

// Reconfigure replaces the options. Open documents keep their index until
// ReindexAll or their next edit.
func (s *Service) Reconfigure(opts Options) {
	opts = opts.normalized()
	s.optsMu.Lock()
	s.opts = opts
	s.optsMu.Unlock()
	log.Info(log.CatConfig, "options updated",
		"delimiter", string(opts.Delimiter),
		"commentMarkers", opts.CommentMarkers,
		"filterComments", opts.FilterComments,
		"lookahead", opts.Lookahead)
}

// Keywords returns the header keywords offered for completion.
func (s *Service) Keywords() []Keyword {
	return Keywords()
}

// OnDocumentText indexes the full text of uri and replaces its document.
func (s *Service) OnDocumentText(ctx context.Context, uri string, version int, text string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, existed := s.store.Get(ctx, uri)
	doc := s.build(ctx, uri, version, text)
	s.publish(existed, doc)
}

// OnDocumentChanges applies changes to the stored text of uri and re-indexes
// the result. Changes for a document that is not open are treated as an open
// when they contain a full replacement and ignored otherwise.
func (s *Service) OnDocumentChanges(ctx context.Context, uri string, version int, changes []Change) {
	if len(changes) == 0 {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev, existed := s.store.Get(ctx, uri)
	text := ""
	if existed {
		text = prev.Text
	} else if !hasFullChange(changes) {
		log.Warn(log.CatIndex, "ranged change for unknown document", "uri", uri)
		return
	}

	doc := s.build(ctx, uri, version, ApplyChanges(text, changes))
	s.publish(existed, doc)
}

// OnDocumentClosed drops the document. Later requests for uri return nothing.
func (s *Service) OnDocumentClosed(ctx context.Context, uri string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev, ok := s.store.Get(ctx, uri)
	if !ok {
		return
	}
	_ = s.store.Delete(ctx, uri)
	log.Debug(log.CatIndex, "document closed", "uri", uri)
	s.events.Publish(pubsub.DeletedEvent, DocumentEvent{URI: uri, Version: prev.Version, Generation: prev.Generation})
}

// ReindexAll rebuilds the index of every open document with the current
// options and returns the URIs that were rebuilt.
func (s *Service) ReindexAll(ctx context.Context) []string {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	uris := s.store.Keys(ctx)
	for _, uri := range uris {
		prev, ok := s.store.Get(ctx, uri)
		if !ok {
			continue
		}
		doc := s.build(ctx, uri, prev.Version, prev.Text)
		s.events.Publish(pubsub.UpdatedEvent, newDocumentEvent(doc))
	}
	s.events.Publish(pubsub.ReconfiguredEvent, DocumentEvent{Records: len(uris)})
	log.Info(log.CatIndex, "reindexed open documents", "count", len(uris))
	return uris
}

// Document returns the current generation of uri.
func (s *Service) Document(ctx context.Context, uri string) (*Document, bool) {
	return s.store.Get(ctx, uri)
}

// OpenDocuments returns the URIs of all open documents.
func (s *Service) OpenDocuments(ctx context.Context) []string {
	return s.store.Keys(ctx)
}

// RequestHighlights returns the spans matching the field under the cursor,
// or nil when there is nothing to highlight.
func (s *Service) RequestHighlights(ctx context.Context, uri string, line, character int) []Span {
	_, span := s.tracer.Start(ctx, tracing.SpanHighlight)
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrDocumentURI, uri),
		attribute.Int(tracing.AttrLine, line),
		attribute.Int(tracing.AttrCharacter, character),
	)

	doc, ok := s.store.Get(ctx, uri)
	if !ok {
		span.SetAttributes(attribute.Bool(tracing.AttrDocumentOpen, false))
		return nil
	}

	spans := Highlight(doc.Index, line, character, s.Options().Lookahead)
	span.SetAttributes(
		attribute.Int64(tracing.AttrGeneration, int64(doc.Generation)),
		attribute.Int(tracing.AttrSpanCount, len(spans)),
	)
	log.Debug(log.CatHighlight, "highlight", "uri", uri, "line", line, "character", character, "spans", len(spans))
	return spans
}

// build indexes text and stores the new document. Callers hold writeMu.
func (s *Service) build(ctx context.Context, uri string, version int, text string) *Document {
	_, span := s.tracer.Start(ctx, tracing.SpanIndex)
	defer span.End()

	ix := Build(text, s.Options())
	doc := &Document{
		URI:        uri,
		Version:    version,
		Text:       text,
		Index:      ix,
		Generation: s.gen.Add(1),
	}
	s.store.Set(ctx, uri, doc, cachemanager.NoExpiration)

	span.SetAttributes(
		attribute.String(tracing.AttrDocumentURI, uri),
		attribute.Int(tracing.AttrVersion, version),
		attribute.Int64(tracing.AttrGeneration, int64(doc.Generation)),
		attribute.Int(tracing.AttrRecordCount, ix.Len()),
	)
	log.Debug(log.CatIndex, "indexed document",
		"uri", uri, "version", version, "generation", doc.Generation,
		"lines", ix.LineCount(), "records", ix.Len(), "headers", ix.Headers())
	return doc
}

func (s *Service) publish(existed bool, doc *Document) {
	eventType := pubsub.UpdatedEvent
	if !existed {
		eventType = pubsub.CreatedEvent
	}
	s.events.Publish(eventType, newDocumentEvent(doc))
}

func hasFullChange(changes []Change) bool {
	for _, ch := range changes {
		if ch.Range == nil {
			return true
		}
	}
	return false
}
