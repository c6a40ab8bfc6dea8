package tracing

// Span names.
const (
	SpanPrefixRequest      = "lsp.request."
	SpanPrefixNotification = "lsp.notification."

	SpanIndex     = "impex.index"
	SpanHighlight = "impex.highlight"
)

// Span attribute keys.
const (
	AttrMethod     = "lsp.method"
	AttrRequestID  = "lsp.request.id"
	AttrInstanceID = "service.instance.id"
	AttrErrorCode  = "lsp.error.code"

	AttrDocumentURI  = "document.uri"
	AttrDocumentOpen = "document.open"
	AttrVersion      = "document.version"
	AttrGeneration   = "document.generation"
	AttrRecordCount  = "index.records"

	AttrLine      = "position.line"
	AttrCharacter = "position.character"
	AttrSpanCount = "highlight.spans"
)
