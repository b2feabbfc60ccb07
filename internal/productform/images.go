package productform

import (
	"fmt"
	"sync"

	"storefront/internal/domain/products"
	"storefront/internal/locale"
	"storefront/internal/media"

	"github.com/google/uuid"
)

// Previews hands out temporary URLs for images that are not uploaded yet.
// A revoked URL is no longer valid. Only the URLs are tracked; the files stay
// with the form that staged them.
type Previews struct {
	mu   sync.Mutex
	live map[string]struct{}
}

func NewPreviews() *Previews {
	return &Previews{live: make(map[string]struct{})}
}

func (p *Previews) Create() string {
	url := "blob:" + uuid.NewString()
	p.mu.Lock()
	p.live[url] = struct{}{}
	p.mu.Unlock()
	return url
}

func (p *Previews) Revoke(url string) {
	p.mu.Lock()
	delete(p.live, url)
	p.mu.Unlock()
}

func (p *Previews) Valid(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.live[url]
	return ok
}

// Len reports how many previews are live.
func (p *Previews) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// SelectImages stages files for upload. The whole selection is rejected when
// retained, pending and new images together would exceed the cap, or when
// any file fails the upload pre-checks.
func (f *Form) SelectImages(files []media.File) error {
	if !f.editable() {
		return ErrNotReady
	}
	if len(files) == 0 {
		return nil
	}

	if len(f.existing)+len(f.pending)+len(files) > products.MaxImages {
		f.state.Message = f.deps.Locale.T(locale.ImagesLimit)
		return ErrTooManyImages
	}
	for _, file := range files {
		if err := f.deps.Images.Check(file); err != nil {
			f.state.Message = f.deps.Locale.T(locale.ImagesInvalid)
			return fmt.Errorf("%w: %w", ErrInvalidImage, err)
		}
	}

	for _, file := range files {
		f.pending = append(f.pending, PendingImage{File: file, PreviewURL: f.deps.Previews.Create()})
	}
	return nil
}

// RemovePendingImage drops one staged file and revokes its preview.
func (f *Form) RemovePendingImage(i int) error {
	if i < 0 || i >= len(f.pending) {
		return ErrOutOfRange
	}
	f.deps.Previews.Revoke(f.pending[i].PreviewURL)
	f.pending = append(f.pending[:i], f.pending[i+1:]...)
	return nil
}

// RemoveExistingImage drops an already stored image from the product. The
// object is deleted from storage only after the update succeeds.
func (f *Form) RemoveExistingImage(i int) error {
	if i < 0 || i >= len(f.existing) {
		return ErrOutOfRange
	}
	f.removed = append(f.removed, f.existing[i])
	f.existing = append(f.existing[:i], f.existing[i+1:]...)
	return nil
}

// RetainImages keeps only the listed stored images, in their current order.
func (f *Form) RetainImages(keep []string) {
	want := make(map[string]bool, len(keep))
	for _, u := range keep {
		want[u] = true
	}
	for i := len(f.existing) - 1; i >= 0; i-- {
		if !want[f.existing[i]] {
			_ = f.RemoveExistingImage(i)
		}
	}
}

func (f *Form) revokePreviews() {
	for _, p := range f.pending {
		f.deps.Previews.Revoke(p.PreviewURL)
	}
	f.pending = nil
}
