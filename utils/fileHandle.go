package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"

	"careerlink/domain"
	"careerlink/logs"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	DocumentTypes = []string{"application/pdf"}
	ImageTypes    = []string{"application/pdf", "image/png", "image/jpeg"}
	PhotoTypes    = []string{"image/png", "image/jpeg"}
)

// Uploader stores multipart files under Dir after checking their size and sniffed type.
type Uploader struct {
	Dir      string
	MaxBytes int64
}

func NewUploader(dir string, maxMB int) *Uploader {
	return &Uploader{Dir: dir, MaxBytes: int64(maxMB) << 20}
}

// SaveUploadedFile validates and stores file, returning its public URL.
func (u *Uploader) SaveUploadedFile(file *multipart.FileHeader, field string, allowed []string) (string, error) {
	if file.Size > u.MaxBytes {
		return "", domain.Invalid("%s must be at most %d MB", field, u.MaxBytes>>20)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect %s type: %w", field, err)
	}
	if !slices.ContainsFunc(allowed, mtype.Is) {
		return "", domain.Invalid("%s has unsupported file type %s", field, mtype.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", err
	}

	newFilename := uuid.NewString() + mtype.Extension()
	if err := writeFile(filepath.Join(u.Dir, newFilename), src); err != nil {
		return "", fmt.Errorf("store %s: %w", field, err)
	}

	return GetFileURL(newFilename), nil
}

// writeFile copies src into a new file at path. A partial file is removed on failure.
func writeFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// Remove deletes a file previously returned by SaveUploadedFile.
func (u *Uploader) Remove(url string) {
	name := filepath.Base(url)
	if name == "." || name == "/" {
		return
	}
	if err := os.Remove(filepath.Join(u.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logs.With("uploads").WithError(err).WithField("file", name).Warn("uploaded file not removed")
	}
}

func GetFileURL(fileName string) string {
	if fileName == "" {
		return ""
	}
	return "/uploads/" + fileName
}
