// Package uploads stores optional restaurant and menu images.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"restaurant-ordering-api/apperr"
)

// RefPrefix is the public prefix of a stored image reference.
const RefPrefix = "uploads/"

var allowedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type Saver struct {
	Dir      string
	MaxBytes int64
}

func NewSaver(dir string, maxBytes int64) *Saver {
	return &Saver{Dir: dir, MaxBytes: maxBytes}
}

// Save validates the uploaded image and writes it under Dir with a random
// name. It returns the reference to store on the record.
func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", apperr.Invalid(fmt.Sprintf("file type %q is not allowed", ext))
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", apperr.Invalid(fmt.Sprintf("image exceeds %d bytes", s.MaxBytes))
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperr.Invalid("uploaded file is not an image")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return RefPrefix + name, nil
}

// Remove deletes a previously saved image. References outside Dir are
// ignored.
func (s *Saver) Remove(ref string) error {
	name, ok := strings.CutPrefix(ref, RefPrefix)
	if !ok || name == "" || name != filepath.Base(name) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
