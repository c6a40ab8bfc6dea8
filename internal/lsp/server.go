// Package lsp serves the ImpEx index over the Language Server Protocol on a
// Content-Length framed JSON-RPC stream.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/log"
	"github.com/zjrosen/impexls/internal/tracing"
)

// ServerName is reported to clients in the initialize result.
const ServerName = "impexls"

// ErrExitWithoutShutdown is returned by Run when the client sends exit
// before shutdown.
var ErrExitWithoutShutdown = errors.New("lsp: exit received before shutdown")

type serverState int32

const (
	stateNew serverState = iota
	stateRunning
	stateShutdown
)

type requestHandler func(ctx context.Context, params json.RawMessage) (any, error)
type notificationHandler func(ctx context.Context, params json.RawMessage) error

// Server dispatches LSP messages to an impex.Service.
//
// Notifications are applied one at a time in arrival order. Requests other
// than initialize and shutdown run concurrently and may be cancelled.
type Server struct {
	svc        *impex.Service
	conn       *Conn
	tracer     trace.Tracer
	instanceID string
	version    string

	state atomic.Int32
	wg    sync.WaitGroup

	inflightMu sync.Mutex
	inflight   map[string]context.CancelFunc

	requests      map[string]requestHandler
	notifications map[string]notificationHandler
}

// Option configures a Server.
type Option func(*Server)

// WithTracer records one span per handled message.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithInstanceID overrides the generated instance id.
func WithInstanceID(id string) Option {
	return func(s *Server) {
		if id != "" {
			s.instanceID = id
		}
	}
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a Server that writes responses and notifications to w.
func NewServer(svc *impex.Service, w io.Writer, opts ...Option) *Server {
	s := &Server{
		svc:        svc,
		conn:       NewConn(w),
		tracer:     noop.NewTracerProvider().Tracer(ServerName),
		instanceID: uuid.NewString(),
		inflight:   make(map[string]context.CancelFunc),
	}
	for _, o := range opts {
		o(s)
	}
	s.requests = map[string]requestHandler{
		"textDocument/documentHighlight": s.documentHighlight,
		"textDocument/completion":        s.completion,
		"workspace/executeCommand":       s.executeCommand,
	}
	s.notifications = map[string]notificationHandler{
		"initialized":                         s.initialized,
		"textDocument/didOpen":                s.didOpen,
		"textDocument/didChange":              s.didChange,
		"textDocument/didSave":                s.didSave,
		"textDocument/didClose":               s.didClose,
		"workspace/didChangeConfiguration":    s.didChangeConfiguration,
		"workspace/didChangeWorkspaceFolders": s.logOnly("workspace folders changed"),
		"workspace/didChangeWatchedFiles":     s.logOnly("watched files changed"),
		"$/cancelRequest":                     s.cancelRequest,
		"$/setTrace":                          s.logOnly("trace setting changed"),
	}
	return s
}

// InstanceID identifies this server process in logs and traces.
func (s *Server) InstanceID() string {
	return s.instanceID
}

// Run reads messages from r until the client exits, r is exhausted or ctx is
// cancelled. It returns nil after a clean shutdown and exit.
func (s *Server) Run(ctx context.Context, r io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	log.Info(log.CatLSP, "server started", "instance", s.instanceID, "version", s.version)
	relayDone := s.startRelay(ctx)
	defer func() {
		cancel()
		s.wg.Wait()
		<-relayDone
	}()

	msgs := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		in := bufio.NewReader(r)
		for {
			body, err := ReadMessage(in)
			if err != nil {
				errc <- err
				return
			}
			select {
			case msgs <- body:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			if errors.Is(err, io.EOF) {
				log.Info(log.CatLSP, "input closed")
				return nil
			}
			log.ErrorErr(log.CatLSP, "read failed", err)
			return fmt.Errorf("reading message: %w", err)
		case body := <-msgs:
			if done, err := s.handle(ctx, body); done {
				return err
			}
		}
	}
}

// Reconfigure applies new indexing options and rebuilds every open
// document, for example after the config file changed.
func (s *Server) Reconfigure(ctx context.Context, opts impex.Options, reason string) {
	log.Info(log.CatConfig, "reconfiguring", "reason", reason)
	s.svc.Reconfigure(opts)
	s.svc.ReindexAll(ctx)
}

// handle processes one message. It reports done when the server must stop.
func (s *Server) handle(ctx context.Context, body []byte) (bool, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		log.Warn(log.CatLSP, "malformed message", "error", err)
		_ = s.conn.ReplyError(nil, CodeParseError, "parse error")
		return false, nil
	}

	if req.IsNotification() {
		if req.Method == "exit" {
			log.Info(log.CatLSP, "exit")
			if serverState(s.state.Load()) != stateShutdown {
				return true, ErrExitWithoutShutdown
			}
			return true, nil
		}
		s.handleNotification(ctx, req)
		return false, nil
	}

	s.handleRequest(ctx, req)
	return false, nil
}

func (s *Server) handleNotification(ctx context.Context, req Request) {
	if serverState(s.state.Load()) != stateRunning {
		log.Debug(log.CatLSP, "notification dropped", "method", req.Method, "state", s.state.Load())
		return
	}
	h, ok := s.notifications[req.Method]
	if !ok {
		log.Debug(log.CatLSP, "notification ignored", "method", req.Method)
		return
	}

	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixNotification+req.Method, trace.WithAttributes(
		attribute.String(tracing.AttrMethod, req.Method),
		attribute.String(tracing.AttrInstanceID, s.instanceID),
	))
	defer span.End()

	if err := h(ctx, req.Params); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatLSP, "notification failed", err, "method", req.Method)
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	state := serverState(s.state.Load())
	switch {
	case req.Method == "initialize":
		if state != stateNew {
			s.reply(ctx, req, nil, &ResponseError{Code: CodeInvalidRequest, Message: "server already initialized"})
			return
		}
		result, err := s.initialize(ctx, req.Params)
		s.reply(ctx, req, result, err)
		return
	case state == stateNew:
		s.reply(ctx, req, nil, &ResponseError{Code: CodeServerNotInitialized, Message: "server not initialized"})
		return
	case state == stateShutdown:
		s.reply(ctx, req, nil, &ResponseError{Code: CodeInvalidRequest, Message: "server is shutting down"})
		return
	case req.Method == "shutdown":
		s.state.Store(int32(stateShutdown))
		s.wg.Wait()
		log.Info(log.CatLSP, "shutdown")
		s.reply(ctx, req, nil, nil)
		return
	}

	h, ok := s.requests[req.Method]
	if !ok {
		s.reply(ctx, req, nil, &ResponseError{Code: CodeMethodNotFound, Message: "method not found: " + req.Method})
		return
	}

	reqCtx, cancel := context.WithCancel(ctx)
	key := string(req.ID)
	s.inflightMu.Lock()
	s.inflight[key] = cancel
	s.inflightMu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.inflightMu.Lock()
			delete(s.inflight, key)
			s.inflightMu.Unlock()
			cancel()
		}()

		result, err := h(reqCtx, req.Params)
		if err == nil && reqCtx.Err() != nil && ctx.Err() == nil {
			err = &ResponseError{Code: CodeRequestCancelled, Message: "request cancelled"}
		}
		s.reply(reqCtx, req, result, err)
	}()
}

// reply traces and sends the outcome of a request.
func (s *Server) reply(ctx context.Context, req Request, result any, err error) {
	_, span := s.tracer.Start(ctx, tracing.SpanPrefixRequest+req.Method, trace.WithAttributes(
		attribute.String(tracing.AttrMethod, req.Method),
		attribute.String(tracing.AttrRequestID, string(req.ID)),
		attribute.String(tracing.AttrInstanceID, s.instanceID),
	))
	defer span.End()

	var werr error
	if err != nil {
		var rerr *ResponseError
		if !errors.As(err, &rerr) {
			rerr = &ResponseError{Code: CodeInternalError, Message: err.Error()}
		}
		span.SetAttributes(attribute.Int(tracing.AttrErrorCode, rerr.Code))
		span.SetStatus(codes.Error, rerr.Message)
		log.Debug(log.CatLSP, "request failed", "method", req.Method, "code", rerr.Code, "message", rerr.Message)
		werr = s.conn.ReplyError(req.ID, rerr.Code, rerr.Message)
	} else {
		werr = s.conn.Reply(req.ID, result)
	}
	if werr != nil {
		log.ErrorErr(log.CatLSP, "write failed", werr, "method", req.Method)
	}
}

func (s *Server) cancelRequest(_ context.Context, params json.RawMessage) error {
	var p CancelParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("decoding cancel params: %w", err)
	}
	s.inflightMu.Lock()
	cancel, ok := s.inflight[string(p.ID)]
	s.inflightMu.Unlock()
	if ok {
		log.Debug(log.CatLSP, "request cancelled", "id", string(p.ID))
		cancel()
	}
	return nil
}

func (s *Server) logMessage(typ int, message string) {
	if err := s.conn.Notify("window/logMessage", LogMessageParams{Type: typ, Message: message}); err != nil {
		log.ErrorErr(log.CatLSP, "write failed", err, "method", "window/logMessage")
	}
}

func (s *Server) logOnly(message string) notificationHandler {
	return func(context.Context, json.RawMessage) error {
		s.logMessage(MessageTypeInfo, message)
		return nil
	}
}
