package v1

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	imageFormField = "image"
	// UploadsRoute - публичный путь, по которому раздаются сохраненные фото
	UploadsRoute      = "/uploads"
	formOverheadBytes = 1 << 20
)

var errInvalidUpload = errors.New("invalid image upload")

// saveUpload сохраняет фото из поля image под именем uuid и возвращает его публичный URL.
// Пустая строка без ошибки означает, что файл не передавался.
func (h *Handler) saveUpload(c *gin.Context) (string, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return "", nil
	}

	fileHeader, err := c.FormFile(imageFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", errInvalidUpload, err)
	}

	if fileHeader.Size > h.cfg.MaxUploadBytes() {
		return "", fmt.Errorf("%w: file exceeds %d MB", errInvalidUpload, h.cfg.MaxUploadMB)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to detect uploaded file type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: unsupported file type %s", errInvalidUpload, mtype.String())
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + mtype.Extension()
	if err := c.SaveUploadedFile(fileHeader, filepath.Join(h.cfg.UploadDir, name)); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}

	h.logger.WithField("file", name).WithField("type", mtype.String()).Info("Stored uploaded image")
	return path.Join(UploadsRoute, name), nil
}

// removeUpload удаляет фото, для которого не появилось обращения
func (h *Handler) removeUpload(imageURL string) {
	if imageURL == "" {
		return
	}
	name := path.Base(imageURL)
	if err := os.Remove(filepath.Join(h.cfg.UploadDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.logger.WithError(err).WithField("file", name).Warn("Failed to remove orphaned upload")
	}
}
