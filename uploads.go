package tinyrisks

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stored-name prefixes distinguish single uploads from gallery batches.
const (
	singlePrefix  = "img"
	galleryPrefix = "community"
)

// defaultAllowedExtensions is the upload policy: common web image formats
// only, matched case-insensitively on the part after the last dot.
var defaultAllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// UploadConfig is the storage policy injected into the uploader. Tests
// construct their own instances so runs stay isolated.
type UploadConfig struct {
	Dir           string          // destination directory for stored files
	URLPrefix     string          // URL path stored files are served under
	AllowedExts   map[string]bool // lowercased extensions; nil means defaults
	MaxFileBytes  int64           // per-file cap for batches; 0 disables
	MaxBatchFiles int             // batch size cap; 0 disables
}

// uploader validates incoming files, generates collision-resistant names,
// and writes them into the shared upload directory. On a partial batch
// failure it removes every file it wrote, so a failed call never leaves
// orphans behind.
type uploader struct {
	cfg UploadConfig
}

func newUploader(cfg UploadConfig) *uploader {
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = defaultAllowedExtensions
	}
	return &uploader{cfg: cfg}
}

// fileExtension returns the lowercased extension after the final dot, or
// "" when the name has none.
func fileExtension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func (u *uploader) allowed(name string) bool {
	ext := fileExtension(name)
	return ext != "" && u.cfg.AllowedExts[ext]
}

// generateName builds "<prefix>-<unix-seconds>-<random 4 digits>.<ext>".
// Collisions are accepted as negligible at this volume; there is no
// existence check or retry.
func (u *uploader) generateName(prefix, originalName string) string {
	return fmt.Sprintf("%s-%d-%d.%s", prefix, time.Now().Unix(), 1000+rand.Intn(9000), fileExtension(originalName))
}

// url returns the public URL path for a stored filename.
func (u *uploader) url(name string) string {
	return strings.TrimSuffix(u.cfg.URLPrefix, "/") + "/" + name
}

// saveFile validates and stores one uploaded file, returning the stored
// name. Nothing is written when validation fails.
func (u *uploader) saveFile(prefix string, fh *multipart.FileHeader) (string, error) {
	if fh.Filename == "" {
		return "", validationError("No selected file")
	}
	if !u.allowed(fh.Filename) {
		return "", validationError("Invalid file type")
	}
	name := u.generateName(prefix, fh.Filename)
	if err := u.writeFile(fh, name); err != nil {
		return "", err
	}
	return name, nil
}

// saveBatch validates every file in the batch up front, then writes them
// in order. If any write fails, the files already written by this call are
// removed before the error is surfaced.
func (u *uploader) saveBatch(prefix string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, validationError("At least one image is required")
	}
	if u.cfg.MaxBatchFiles > 0 && len(files) > u.cfg.MaxBatchFiles {
		return nil, validationError(fmt.Sprintf("Maximum %d images allowed", u.cfg.MaxBatchFiles))
	}
	for _, fh := range files {
		if fh.Filename == "" || !u.allowed(fh.Filename) {
			return nil, validationError("Invalid file type")
		}
		if u.cfg.MaxFileBytes > 0 && fh.Size > u.cfg.MaxFileBytes {
			return nil, validationError(fmt.Sprintf("File too large (max %dMB)", u.cfg.MaxFileBytes>>20))
		}
	}

	written := make([]string, 0, len(files))
	for _, fh := range files {
		name := u.generateName(prefix, fh.Filename)
		if err := u.writeFile(fh, name); err != nil {
			u.removeFiles(written)
			return nil, err
		}
		written = append(written, name)
	}
	return written, nil
}

func (u *uploader) writeFile(fh *multipart.FileHeader, name string) error {
	if err := os.MkdirAll(u.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(u.cfg.Dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	// A failed copy must not leave a partial file behind.
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// removeFiles deletes stored files by name, best effort. A file that is
// already gone is not an error; anything else is logged and skipped, since
// the metadata row is the authoritative existence record.
func (u *uploader) removeFiles(names []string) {
	for _, name := range names {
		err := os.Remove(filepath.Join(u.cfg.Dir, name))
		if err != nil && !os.IsNotExist(err) {
			log.Printf("uploads: remove %s: %v", name, err)
		}
	}
}
