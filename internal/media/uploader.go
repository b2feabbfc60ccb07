// Package media validates product images and stores them in the object store.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// MaxFileSize is the per-image upload cap.
const MaxFileSize = 2 * 1024 * 1024

var (
	ErrNoFile      = errors.New("no file")
	ErrFileTooBig  = errors.New("file exceeds 2MB")
	ErrInvalidType = errors.New("file type not allowed")
)

// declared types accepted from clients
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// types accepted from content sniffing
var allowedContent = []string{"image/jpeg", "image/png", "image/webp"}

type Uploader struct {
	store  ObjectStore
	logger *zap.SugaredLogger
	now    func() time.Time

	mu        sync.Mutex
	lastStamp int64

	// Observe, when set, is told the outcome of every upload attempt.
	Observe func(ok bool)
}

func NewUploader(store ObjectStore, logger *zap.SugaredLogger) *Uploader {
	return &Uploader{store: store, logger: logger, now: time.Now}
}

// Check validates what can be known without reading the file: presence,
// size and declared type.
func (u *Uploader) Check(f File) error {
	if f == nil {
		return ErrNoFile
	}
	if f.Size() > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrFileTooBig, f.Name(), f.Size())
	}
	if ct := strings.ToLower(f.ContentType()); ct != "" && !allowedTypes[ct] {
		return fmt.Errorf("%w: %s", ErrInvalidType, ct)
	}
	return nil
}

// UploadProductImage stores f under <productID>-<unix ms>.<ext> and returns
// its public URL. It returns "" when f is nil, invalid or the store fails.
func (u *Uploader) UploadProductImage(ctx context.Context, f File, productID string) string {
	url, err := u.upload(ctx, f, productID)
	if u.Observe != nil && !errors.Is(err, ErrNoFile) {
		u.Observe(err == nil)
	}
	if err != nil {
		if !errors.Is(err, ErrNoFile) {
			u.logger.Errorw("product image upload failed", "product_id", productID, "error", err)
		}
		return ""
	}
	return url
}

// RemoveProductImage deletes a stored image. Failures are logged.
func (u *Uploader) RemoveProductImage(ctx context.Context, url string) bool {
	if err := u.store.Delete(ctx, url); err != nil {
		u.logger.Warnw("product image delete failed", "url", url, "error", err)
		return false
	}
	return true
}

func (u *Uploader) upload(ctx context.Context, f File, productID string) (string, error) {
	if err := u.Check(f); err != nil {
		return "", err
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	// read one byte past the cap so oversized bodies with a lying header are caught
	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%w: %s", ErrFileTooBig, f.Name())
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedContent...) {
		return "", fmt.Errorf("%w: content is %s", ErrInvalidType, detected.String())
	}

	key := fmt.Sprintf("%s-%d.%s", productID, u.nextStamp(), extension(f.Name()))
	return u.store.Put(ctx, &PutInput{
		Key:         key,
		ContentType: detected.String(),
		Size:        int64(len(data)),
		Data:        bytes.NewReader(data),
	})
}

// nextStamp returns the current unix millisecond, bumped so that concurrent
// uploads for one product never share a key.
func (u *Uploader) nextStamp() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()

	stamp := u.now().UnixMilli()
	if stamp <= u.lastStamp {
		stamp = u.lastStamp + 1
	}
	u.lastStamp = stamp
	return stamp
}

func extension(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}
