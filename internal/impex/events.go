package impex

// DocumentEvent describes an index lifecycle change for one document.
// It is published with pubsub.CreatedEvent on open, UpdatedEvent on change or
// reindex and DeletedEvent on close.
type DocumentEvent struct {
	URI        string
	Version    int
	Generation uint64
	Records    int
	Headers    int
	Lines      int
}

func newDocumentEvent(doc *Document) DocumentEvent {
	return DocumentEvent{
		URI:        doc.URI,
		Version:    doc.Version,
		Generation: doc.Generation,
		Records:    doc.Index.Len(),
		Headers:    doc.Index.Headers(),
		Lines:      doc.Index.LineCount(),
	}
}
