package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ErrMissingContentLength is returned for a header block without a usable
// Content-Length.
var ErrMissingContentLength = errors.New("lsp: missing Content-Length header")

// maxMessageSize bounds a single message body.
const maxMessageSize = 64 << 20

// ReadMessage reads one Content-Length framed message body from r.
// It returns io.EOF when r is exhausted before a header starts.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	contentLen := -1
	started := false
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF && (started || line != "") {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if !started {
				// Tolerate stray blank lines between messages.
				continue
			}
			break
		}
		started = true
		if i := strings.IndexByte(line, ':'); i >= 0 {
			key := strings.ToLower(strings.TrimSpace(line[:i]))
			val := strings.TrimSpace(line[i+1:])
			if key == "content-length" {
				n, err := strconv.Atoi(val)
				if err != nil {
					return nil, fmt.Errorf("lsp: bad Content-Length %q: %w", val, err)
				}
				contentLen = n
			}
		}
	}
	if contentLen < 0 {
		return nil, ErrMissingContentLength
	}
	if contentLen > maxMessageSize {
		return nil, fmt.Errorf("lsp: message of %d bytes exceeds limit", contentLen)
	}
	buf := make([]byte, contentLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("lsp: reading body: %w", err)
	}
	return buf, nil
}

// WriteMessage writes v as one framed JSON message.
func WriteMessage(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("lsp: encoding message: %w", err)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n", len(body))
	b.Write(body)
	_, err = w.Write(b.Bytes())
	return err
}

// Conn serializes writes from concurrent handlers onto one stream.
type Conn struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConn wraps w.
func NewConn(w io.Writer) *Conn {
	return &Conn{w: w}
}

// Reply sends a successful response. A nil result is written as null.
func (c *Conn) Reply(id json.RawMessage, result any) error {
	return c.write(Response{JSONRPC: "2.0", ID: id, Result: result})
}

// ReplyError sends an error response.
func (c *Conn) ReplyError(id json.RawMessage, code int, message string) error {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return c.write(errorResponse{JSONRPC: "2.0", ID: id, Error: &ResponseError{Code: code, Message: message}})
}

// Notify sends a notification.
func (c *Conn) Notify(method string, params any) error {
	return c.write(Notification{JSONRPC: "2.0", Method: method, Params: params})
}

func (c *Conn) write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteMessage(c.w, v)
}
