package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mathieu-neron/tubestats/internal/model"
)

// ErrCorruptDocument is returned by Load when the stored document cannot be
// decoded. The accompanying map is always empty and usable.
var ErrCorruptDocument = errors.New("history document is corrupt")

// HistoryDocument maps channel ID to its latest saved summary.
type HistoryDocument map[string]model.ChannelHistoryEntry

// HistoryRepo persists the whole history document at once. Implementations
// never append: every Save rewrites the document wholesale.
type HistoryRepo interface {
	Load(ctx context.Context) (HistoryDocument, error)
	Save(ctx context.Context, doc HistoryDocument) error
}

// FileHistoryRepo stores the document as indented UTF-8 JSON on disk.
type FileHistoryRepo struct {
	path string
}

func NewFileHistoryRepo(path string) *FileHistoryRepo {
	return &FileHistoryRepo{path: path}
}

// Path returns the backing file location.
func (r *FileHistoryRepo) Path() string {
	return r.path
}

// Load reads the document. A missing or blank file is an empty document.
func (r *FileHistoryRepo) Load(_ context.Context) (HistoryDocument, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return HistoryDocument{}, nil
	}
	if err != nil {
		return HistoryDocument{}, fmt.Errorf("read history %s: %w", r.path, err)
	}
	return decodeDocument(data)
}

// Save replaces the file atomically via a temp file in the same directory.
func (r *FileHistoryRepo) Save(_ context.Context, doc HistoryDocument) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

func decodeDocument(data []byte) (HistoryDocument, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return HistoryDocument{}, nil
	}
	var doc HistoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return HistoryDocument{}, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if doc == nil {
		doc = HistoryDocument{}
	}
	return doc, nil
}

func encodeDocument(doc HistoryDocument) ([]byte, error) {
	if doc == nil {
		doc = HistoryDocument{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return append(data, '\n'), nil
}
