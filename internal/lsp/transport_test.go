package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func frame(body string) string {
	return "Content-Length: " + itoa(len(body)) + "\r\n\r\n" + body
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestReadMessage(t *testing.T) {
	body := `{"jsonrpc":"2.0","method":"initialized"}`
	r := bufio.NewReader(strings.NewReader(frame(body) + frame("{}")))

	got, err := ReadMessage(r)
	require.NoError(t, err)
	require.Equal(t, body, string(got))

	got, err = ReadMessage(r)
	require.NoError(t, err)
	require.Equal(t, "{}", string(got))

	_, err = ReadMessage(r)
	require.ErrorIs(t, err, io.EOF)
}

func TestReadMessage_HeaderVariants(t *testing.T) {
	input := "\r\ncontent-length:  2\r\nContent-Type: application/vscode-jsonrpc; charset=utf-8\r\n\r\n{}"

	got, err := ReadMessage(bufio.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	require.Equal(t, "{}", string(got))
}

func TestReadMessage_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "missing content length",
			input: "Content-Type: x\r\n\r\n{}",
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, ErrMissingContentLength) },
		},
		{
			name:  "bad content length",
			input: "Content-Length: abc\r\n\r\n{}",
			check: func(t *testing.T, err error) { require.ErrorContains(t, err, "bad Content-Length") },
		},
		{
			name:  "truncated body",
			input: "Content-Length: 10\r\n\r\n{}",
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, io.ErrUnexpectedEOF) },
		},
		{
			name:  "truncated header",
			input: "Content-Length: 10\r\n",
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, io.ErrUnexpectedEOF) },
		},
		{
			name:  "oversized",
			input: "Content-Length: 999999999999\r\n\r\n",
			check: func(t *testing.T, err error) { require.ErrorContains(t, err, "exceeds limit") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMessage(bufio.NewReader(strings.NewReader(tt.input)))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestWriteMessage(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteMessage(&buf, map[string]int{"a": 1}))

	require.Equal(t, "Content-Length: 7\r\n\r\n{\"a\":1}", buf.String())
}

func TestWriteMessage_EncodeError(t *testing.T) {
	err := WriteMessage(io.Discard, make(chan int))
	require.ErrorContains(t, err, "encoding message")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestConn_WriteError(t *testing.T) {
	c := NewConn(failingWriter{})
	require.Error(t, c.Notify("window/logMessage", nil))
}

func TestConn_ResponsesShape(t *testing.T) {
	var buf bytes.Buffer
	c := NewConn(&buf)

	require.NoError(t, c.Reply(json.RawMessage("1"), nil))
	require.NoError(t, c.ReplyError(nil, CodeParseError, "parse error"))

	r := bufio.NewReader(&buf)
	body, err := ReadMessage(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":null}`, string(body))

	body, err = ReadMessage(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"parse error"}}`, string(body))
}

func TestConn_ConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	c := NewConn(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Reply(json.RawMessage(itoa(i)), strings.Repeat("x", 100))
		}(i)
	}
	wg.Wait()

	r := bufio.NewReader(&buf)
	for i := 0; i < 50; i++ {
		body, err := ReadMessage(r)
		require.NoError(t, err)
		var resp Response
		require.NoError(t, json.Unmarshal(body, &resp))
		require.Equal(t, strings.Repeat("x", 100), resp.Result)
	}
}
