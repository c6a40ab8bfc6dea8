package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/impexls/internal/flags"
	"github.com/zjrosen/impexls/internal/impex"
)

// Output formats accepted by -o.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// openFile indexes path with the configured options and returns the service
// holding it together with its URI.
func openFile(ctx context.Context, path string) (*impex.Service, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", path, err)
	}

	reg := flags.NewWithDefaults(cfg.Flags)
	svc := impex.NewService(cfg.IndexOptions(reg.Enabled(flags.FlagCommentFilter)))
	uri := "file://" + filepath.ToSlash(abs)
	svc.OnDocumentText(ctx, uri, 1, string(data))
	return svc, uri, nil
}
