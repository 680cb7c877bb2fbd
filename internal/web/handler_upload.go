package web

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/inmuebles/internal/domain"
	"github.com/vbonduro/inmuebles/internal/logging"
	"github.com/vbonduro/inmuebles/internal/uploadstore"
)

const maxUploadSize = 50 * 1024 * 1024 // 50 MB

type uploadResponse struct {
	URLs []string `json:"urls"`
}

// handleUpload stores every file in the "files" field and returns their
// public URLs. If any file fails the ones already stored are removed.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), s.logger)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeValidationError(w, &domain.ValidationError{Fields: []domain.FieldError{{
			Field: "files", Rule: "required", Message: "is required",
		}}})
		return
	}

	base := baseURL(r)
	keys := make([]string, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		key, err := s.saveUpload(r, fh)
		if err != nil {
			logger.Error("upload failed", "filename", fh.Filename, "error", err)
			s.rollbackUploads(r, keys)
			writeError(w, http.StatusInternalServerError, "Failed to store upload")
			return
		}
		keys = append(keys, key)
		urls = append(urls, base+uploadPath(key))
	}

	logger.Info("files uploaded", "count", len(keys))
	writeJSON(w, http.StatusOK, uploadResponse{URLs: urls})
}

func (s *Server) saveUpload(r *http.Request, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer closeWithLog(f, "upload file", s.logger)
	return s.uploads.Save(r.Context(), fh.Filename, f)
}

func (s *Server) rollbackUploads(r *http.Request, keys []string) {
	for _, key := range keys {
		if err := s.uploads.Delete(r.Context(), key); err != nil {
			logging.FromContext(r.Context(), s.logger).Error("failed to roll back upload", "key", key, "error", err)
		}
	}
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	key, ok := uploadKey(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	reader, contentType, err := s.uploads.Open(r.Context(), key)
	if err != nil {
		if !errors.Is(err, uploadstore.ErrNotFound) {
			logging.FromContext(r.Context(), s.logger).Warn("open upload failed", "key", key, "error", err)
		}
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	defer closeWithLog(reader, "upload reader", s.logger)

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write upload failed", "key", key, "error", err)
	}
}

// uploadPath is the URL path serving key. Only bytes outside the default path
// encoding are escaped, so the request never carries a raw path.
func uploadPath(key string) string {
	return (&url.URL{Path: "/uploads/" + key}).EscapedPath()
}

// uploadKey is the stored name addressed by the request. chi matches on the
// raw path when one is present, leaving the parameter escaped.
func uploadKey(r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, true
	}
	key, err := url.PathUnescape(name)
	if err != nil {
		return "", false
	}
	return key, true
}

// baseURL is the scheme and host the client used, honouring the headers set
// by a reverse proxy.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}
	host := r.Host
	if fwd := firstValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}

func firstValue(header string) string {
	v, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(v)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
