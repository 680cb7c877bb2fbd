package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vbonduro/inmuebles/internal/uploadstore"
)

var _ uploadstore.UploadStore = (*LocalUploadStore)(nil)

// maxNameAttempts bounds retries when a generated name already exists.
const maxNameAttempts = 5

type LocalUploadStore struct {
	basePath string
	now      func() time.Time
}

func NewLocalUploadStore(basePath string) (*LocalUploadStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalUploadStore{basePath: basePath, now: time.Now}, nil
}

func (s *LocalUploadStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	f, key, err := s.create(name)
	if err != nil {
		return "", err
	}
	filePath := filepath.Join(s.basePath, key)

	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return key, nil
}

// create opens a new file under a fresh SafeName. Two uploads of the same
// name within one microsecond collide; the later one moves its timestamp on.
func (s *LocalUploadStore) create(name string) (*os.File, string, error) {
	now := s.now()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		key := uploadstore.SafeName(name, now.Add(time.Duration(attempt)*time.Microsecond))
		filePath, err := s.safeJoin(key)
		if err != nil {
			return nil, "", err
		}
		f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, key, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("failed to create file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("failed to create file: name %q still taken after %d attempts", name, maxNameAttempts)
}

func (s *LocalUploadStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	filePath, err := s.safeJoin(key)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", uploadstore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, "", uploadstore.ErrNotFound
	}
	return f, contentType(filePath), nil
}

func (s *LocalUploadStore) Delete(ctx context.Context, key string) error {
	filePath, err := s.safeJoin(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return uploadstore.ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// safeJoin resolves key relative to basePath and rejects directory traversal.
func (s *LocalUploadStore) safeJoin(key string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, key))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

func contentType(filePath string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filePath))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
