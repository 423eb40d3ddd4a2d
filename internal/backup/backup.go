// Package backup exports and imports the persisted application state as a
// brotli-compressed JSON document.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/andybalholm/brotli"
)

// FormatVersion is written into every archive.
const FormatVersion = 1

// Source lists and reads persisted records.
type Source interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// Target stores restored records.
type Target interface {
	Set(ctx context.Context, key string, value []byte) error
}

// Archive is the decoded backup document. Values are kept as the exact strings
// that were persisted.
type Archive struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Records    map[string]string `json:"records"`
}

// Export writes every record of src to w and returns how many were written.
func Export(ctx context.Context, src Source, w io.Writer, now time.Time) (int, error) {
	keys, err := src.Keys(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list keys: %w", err)
	}
	archive := Archive{
		Version:    FormatVersion,
		ExportedAt: now.UTC(),
		Records:    make(map[string]string, len(keys)),
	}
	for _, key := range keys {
		value, ok, err := src.Get(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		archive.Records[key] = string(value)
	}

	bw := brotli.NewWriterLevel(w, brotli.DefaultCompression)
	if err := json.NewEncoder(bw).Encode(archive); err != nil {
		if cerr := bw.Close(); cerr != nil {
			_ = cerr
		}
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := bw.Close(); err != nil {
		return 0, fmt.Errorf("failed to compress backup: %w", err)
	}
	return len(archive.Records), nil
}

// Read decodes an archive from r.
func Read(r io.Reader) (Archive, error) {
	var archive Archive
	if err := json.NewDecoder(brotli.NewReader(r)).Decode(&archive); err != nil {
		return Archive{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	if archive.Version != FormatVersion {
		return Archive{}, fmt.Errorf("unsupported backup version %d", archive.Version)
	}
	return archive, nil
}

// Import writes every record of the archive in r to dst, overwriting existing keys
// and leaving others alone. It returns how many records were restored.
func Import(ctx context.Context, dst Target, r io.Reader) (int, error) {
	archive, err := Read(r)
	if err != nil {
		return 0, err
	}
	for key, value := range archive.Records {
		if err := dst.Set(ctx, key, []byte(value)); err != nil {
			return 0, fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	return len(archive.Records), nil
}
