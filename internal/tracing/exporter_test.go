package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var records []SpanRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should be created with parent dirs")

	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestFileExporter_WritesHighlightSpan(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	start := time.Now()
	stub := tracetest.SpanStub{
		Name:      SpanHighlight,
		SpanKind:  trace.SpanKindInternal,
		StartTime: start,
		EndTime:   start.Add(2 * time.Millisecond),
		Status:    sdktrace.Status{Code: codes.Ok},
		Attributes: []attribute.KeyValue{
			attribute.String(AttrDocumentURI, "file:///a.impex"),
			attribute.Int(AttrLine, 3),
			attribute.Int(AttrSpanCount, 2),
		},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records := readRecords(t, tracePath)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, SpanHighlight, rec.Name)
	require.Equal(t, "INTERNAL", rec.Kind)
	require.Equal(t, "OK", rec.Status)
	require.InDelta(t, 2.0, rec.DurationMs, 0.001)
	require.Equal(t, "file:///a.impex", rec.Attributes[AttrDocumentURI])
	require.EqualValues(t, 3, rec.Attributes[AttrLine])
}

func TestFileExporter_AppendsBatches(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	require.NoError(t, os.WriteFile(tracePath, []byte(`{"name":"existing"}`+"\n"), 0o600))

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	spans := []sdktrace.ReadOnlySpan{
		tracetest.SpanStub{Name: SpanIndex}.Snapshot(),
		tracetest.SpanStub{Name: SpanPrefixRequest + "textDocument/documentHighlight"}.Snapshot(),
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), spans))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records := readRecords(t, tracePath)
	require.Len(t, records, 3)
	require.Equal(t, "existing", records[0].Name)
	require.Equal(t, SpanIndex, records[1].Name)
}

func TestFileExporter_ExportEmptySpans(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	require.NoError(t, exporter.ExportSpans(context.Background(), nil))
	require.NoError(t, exporter.Shutdown(context.Background()))

	info, err := os.Stat(tracePath)
	require.NoError(t, err)
	require.Zero(t, info.Size())
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	err = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{tracetest.SpanStub{Name: "late"}.Snapshot()})
	require.Error(t, err)
}

func TestSpanRecord_ErrorStatus(t *testing.T) {
	stub := tracetest.SpanStub{
		Name:   SpanPrefixRequest + "initialize",
		Status: sdktrace.Status{Code: codes.Error, Description: "invalid params"},
	}
	rec := spanToRecord(stub.Snapshot())
	require.Equal(t, "ERROR", rec.Status)
	require.Equal(t, "invalid params", rec.StatusMsg)
	require.Empty(t, rec.ParentSpanID)
}

func TestSpanKindToString(t *testing.T) {
	require.Equal(t, "INTERNAL", spanKindToString(trace.SpanKindInternal))
	require.Equal(t, "SERVER", spanKindToString(trace.SpanKindServer))
	require.Equal(t, "CLIENT", spanKindToString(trace.SpanKindClient))
	require.Equal(t, "UNSPECIFIED", spanKindToString(trace.SpanKindProducer))
}
