package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/log"
	"github.com/zjrosen/impexls/internal/pubsub"
)

// CommandReindex rebuilds the index of every open document.
const CommandReindex = "impexls.reindex"

func decode(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return &ResponseError{Code: CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(params, v); err != nil {
		return &ResponseError{Code: CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

func (s *Server) initialize(ctx context.Context, params json.RawMessage) (any, error) {
	var p InitializeParams
	if len(params) > 0 {
		if err := decode(params, &p); err != nil {
			return nil, err
		}
	}
	if len(p.InitializationOptions) > 0 {
		if err := s.applySettings(ctx, p.InitializationOptions); err != nil {
			log.Warn(log.CatConfig, "ignoring initialization options", "error", err)
		}
	}

	s.state.Store(int32(stateRunning))
	log.Info(log.CatLSP, "initialize", "rootUri", p.RootURI, "instance", s.instanceID)

	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncFull,
				Save:      &SaveOptions{IncludeText: false},
			},
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{"."},
			},
			DocumentHighlightProvider: true,
			ExecuteCommandProvider: &ExecuteCommandOptions{
				Commands: []string{CommandReindex},
			},
			Workspace: &WorkspaceServerCapabilities{
				WorkspaceFolders: &WorkspaceFoldersServerCapabilities{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
		ServerInfo: &ServerInfo{Name: ServerName, Version: s.version},
	}, nil
}

func (s *Server) initialized(context.Context, json.RawMessage) error {
	s.logMessage(MessageTypeInfo, "impexls initialized")
	return nil
}

func (s *Server) didOpen(ctx context.Context, params json.RawMessage) error {
	var p DidOpenTextDocumentParams
	if err := decode(params, &p); err != nil {
		return err
	}
	s.svc.OnDocumentText(ctx, p.TextDocument.URI, p.TextDocument.Version, p.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx context.Context, params json.RawMessage) error {
	var p DidChangeTextDocumentParams
	if err := decode(params, &p); err != nil {
		return err
	}
	changes := make([]impex.Change, 0, len(p.ContentChanges))
	for _, c := range p.ContentChanges {
		ch := impex.Change{Text: c.Text}
		if c.Range != nil {
			ch.Range = &impex.ChangeRange{
				Start: impex.Position{Line: c.Range.Start.Line, Character: c.Range.Start.Character},
				End:   impex.Position{Line: c.Range.End.Line, Character: c.Range.End.Character},
			}
		}
		changes = append(changes, ch)
	}
	s.svc.OnDocumentChanges(ctx, p.TextDocument.URI, p.TextDocument.Version, changes)
	return nil
}

func (s *Server) didSave(ctx context.Context, params json.RawMessage) error {
	var p DidSaveTextDocumentParams
	if err := decode(params, &p); err != nil {
		return err
	}
	log.Debug(log.CatLSP, "document saved", "uri", p.TextDocument.URI, "withText", p.Text != nil)
	if p.Text == nil {
		return nil
	}
	doc, ok := s.svc.Document(ctx, p.TextDocument.URI)
	if !ok {
		log.Debug(log.CatLSP, "ignoring save of unopened document", "uri", p.TextDocument.URI)
		return nil
	}
	s.svc.OnDocumentText(ctx, p.TextDocument.URI, doc.Version, *p.Text)
	return nil
}

func (s *Server) didClose(ctx context.Context, params json.RawMessage) error {
	var p DidCloseTextDocumentParams
	if err := decode(params, &p); err != nil {
		return err
	}
	s.svc.OnDocumentClosed(ctx, p.TextDocument.URI)
	return nil
}

func (s *Server) didChangeConfiguration(ctx context.Context, params json.RawMessage) error {
	var p DidChangeConfigurationParams
	if err := decode(params, &p); err != nil {
		return err
	}
	return s.applySettings(ctx, p.Settings)
}

// applySettings overlays client settings on the current options and
// re-indexes open documents when anything was set.
func (s *Server) applySettings(ctx context.Context, raw json.RawMessage) error {
	st, err := parseSettings(raw)
	if err != nil {
		return err
	}
	if st.empty() {
		s.logMessage(MessageTypeInfo, "configuration changed")
		return nil
	}
	opts, err := st.apply(s.svc.Options())
	if err != nil {
		s.logMessage(MessageTypeWarning, "invalid impexls settings: "+err.Error())
		return err
	}
	s.Reconfigure(ctx, opts, "configuration changed")
	return nil
}

func (s *Server) documentHighlight(ctx context.Context, params json.RawMessage) (any, error) {
	var p TextDocumentPositionParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	spans := s.svc.RequestHighlights(ctx, p.TextDocument.URI, p.Position.Line, p.Position.Character)
	if len(spans) == 0 {
		return nil, nil
	}
	return HighlightsFromSpans(spans), nil
}

// HighlightsFromSpans converts spans into text document highlights.
func HighlightsFromSpans(spans []impex.Span) []DocumentHighlight {
	out := make([]DocumentHighlight, 0, len(spans))
	for _, sp := range spans {
		out = append(out, DocumentHighlight{
			Range: Range{
				Start: Position{Line: sp.Line, Character: sp.Start},
				End:   Position{Line: sp.Line, Character: sp.End},
			},
			Kind: DocumentHighlightKindText,
		})
	}
	return out
}

func (s *Server) completion(context.Context, json.RawMessage) (any, error) {
	keywords := s.svc.Keywords()
	items := make([]CompletionItem, 0, len(keywords))
	for _, kw := range keywords {
		items = append(items, CompletionItem{
			Label:  kw.Name,
			Kind:   CompletionItemKindKeyword,
			Detail: kw.Detail,
		})
	}
	return items, nil
}

func (s *Server) executeCommand(ctx context.Context, params json.RawMessage) (any, error) {
	var p ExecuteCommandParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	switch p.Command {
	case CommandReindex:
		uris := s.svc.ReindexAll(ctx)
		return uris, nil
	default:
		return nil, &ResponseError{Code: CodeMethodNotFound, Message: "unknown command: " + p.Command}
	}
}

// startRelay forwards document events to the client as log messages and
// returns a channel closed when the relay stops.
func (s *Server) startRelay(ctx context.Context) <-chan struct{} {
	events := s.svc.Events().Subscribe(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if msg := describeEvent(ev); msg != "" {
				s.logMessage(MessageTypeInfo, msg)
			}
		}
	}()
	return done
}

func describeEvent(ev pubsub.Event[impex.DocumentEvent]) string {
	d := ev.Payload
	switch ev.Type {
	case pubsub.CreatedEvent:
		return fmt.Sprintf("opened %s: %d records under %d headers", d.URI, d.Records, d.Headers)
	case pubsub.UpdatedEvent:
		return fmt.Sprintf("indexed %s (version %d): %d records under %d headers", d.URI, d.Version, d.Records, d.Headers)
	case pubsub.DeletedEvent:
		return fmt.Sprintf("closed %s", d.URI)
	case pubsub.ReconfiguredEvent:
		return fmt.Sprintf("reindexed %d open document(s)", d.Records)
	default:
		return ""
	}
}
