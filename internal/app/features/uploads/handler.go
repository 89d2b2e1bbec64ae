// Package uploads accepts multipart file uploads and stores them through
// the configured storage backend. The returned file id is the storage
// path, which callers persist and later resolve through the file server
// or a presigned URL.
package uploads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/httpjson"
	"github.com/placementhub/placementhub/internal/app/system/limits"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Storage storage.Store
	Log     *zap.Logger
}

func NewHandler(store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{Storage: store, Log: logger}
}

// ServeUpload handles POST /upload with multipart fields file and fileKey.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(limits.MaxUploadSize); err != nil {
		httpjson.Error(w, h.Log, apierror.Validation("invalid multipart form"))
		return
	}

	fileKey := strings.TrimSpace(r.FormValue("fileKey"))
	if fileKey == "" {
		httpjson.Error(w, h.Log, apierror.Validation("file key is required"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpjson.Error(w, h.Log, apierror.Validation("no file provided"))
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	fileID, err := Put(ctx, h.Storage, "uploads", header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		h.Log.Error("file upload failed",
			zap.String("file_key", fileKey),
			zap.String("file_name", header.Filename),
			zap.Error(err))
		httpjson.Error(w, h.Log, apierror.Unavailable("file storage", err))
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"success":  true,
		"fileId":   fileID,
		"fileName": header.Filename,
		"fileKey":  fileKey,
	})
}

// Put stores a file under prefix/YYYY/MM/uuid8-name and returns the
// storage path. The short uuid prefix keeps same-named uploads from
// colliding without producing unreadable paths.
func Put(ctx context.Context, store storage.Store, prefix, filename string, reader io.Reader, contentType string) (string, error) {
	now := time.Now().UTC()
	dir := fmt.Sprintf("%s/%04d/%02d", prefix, now.Year(), now.Month())
	name := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dir, name))

	opts := &storage.PutOptions{ContentType: contentType}
	if err := store.Put(ctx, path, reader, opts); err != nil {
		return "", fmt.Errorf("store file: %w", err)
	}
	return path, nil
}

// sanitizeFilename strips path components and replaces characters that
// misbehave in storage keys or content-disposition headers.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
