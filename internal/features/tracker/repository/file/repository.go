package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"giveaway-tracker/internal/features/tracker/repository"
)

// Repository keeps each document as a zstd-compressed JSON file in dir.
type Repository struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	mu      sync.Mutex
}

func NewFileDocumentStore(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Repository{dir: dir, encoder: encoder, decoder: decoder}, nil
}

var _ repository.DocumentStore = (*Repository)(nil)

func (r *Repository) path(name string) string {
	return filepath.Join(r.dir, name+".json.zst")
}

// Save writes to a temp file, fsyncs it and renames it over the previous
// version.
func (r *Repository) Save(_ context.Context, name string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.encoder.EncodeAll(jsonData, make([]byte, 0, len(jsonData)/2))
	fileName := r.path(name)
	tmpFile := fileName + ".tmp"

	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}
	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, fileName)
}

func (r *Repository) Load(_ context.Context, name string, dest interface{}) (bool, error) {
	data, err := os.ReadFile(r.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	r.mu.Lock()
	decompressed, err := r.decoder.DecodeAll(data, nil)
	r.mu.Unlock()
	if err != nil {
		return false, fmt.Errorf("failed to decompress %s: %w", name, err)
	}
	if err := json.Unmarshal(decompressed, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return true, nil
}

func (r *Repository) Close() {
	r.encoder.Close()
	r.decoder.Close()
}
