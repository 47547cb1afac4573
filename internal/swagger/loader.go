package swagger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/reaper-esi/esi2ddl/internal/logger"
	"gopkg.in/yaml.v3"
)

// ErrMalformedDocument is returned when input cannot be decoded as an API
// document.
var ErrMalformedDocument = errors.New("malformed API document")

// Format is the encoding of a document.
type Format int

const (
	// FormatAuto sniffs the content: a leading '{' means JSON, anything else YAML.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// FormatFromPath picks the format from a file or URL path extension.
func FormatFromPath(path string) Format {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Parse decodes a document.
func Parse(data []byte, format Format) (*Document, error) {
	if format == FormatAuto {
		format = sniff(data)
	}

	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	}

	if doc.Paths == nil {
		return nil, fmt.Errorf("%w: no paths object", ErrMalformedDocument)
	}
	return &doc, nil
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads and decodes a document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	logger.Get().Debug("Loaded API document", "file", path, "bytes", len(data))
	return Parse(data, FormatFromPath(path))
}

// LoadURL fetches and decodes a document over HTTP. A nil client uses
// http.DefaultClient.
func LoadURL(ctx context.Context, client *http.Client, url string) (*Document, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch document: %s returned %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document body: %w", err)
	}
	logger.Get().Debug("Fetched API document", "url", url, "status", resp.StatusCode, "bytes", len(data))

	format := FormatFromPath(url)
	if format == FormatAuto {
		format = formatFromContentType(resp.Header.Get("Content-Type"))
	}
	return Parse(data, format)
}

func formatFromContentType(contentType string) Format {
	switch {
	case strings.Contains(contentType, "json"):
		return FormatJSON
	case strings.Contains(contentType, "yaml"):
		return FormatYAML
	default:
		return FormatAuto
	}
}
