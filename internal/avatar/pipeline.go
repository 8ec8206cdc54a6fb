// Package avatar turns a user-picked image into a durable public URL on the
// member's profile. The stages run strictly in order; the first failure
// aborts everything after it, so the profile never references bytes that
// never reached storage.
package avatar

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"annfsu/app/internal/api"
	"annfsu/app/internal/models"
)

const (
	// MaxUploadBytes caps the source image before any work happens.
	MaxUploadBytes = 2 << 20

	maxDimension = 500
	jpegQuality  = 70
)

var (
	ErrPermissionDenied = errors.New("avatar: source permission denied")
	ErrInvalidImageType = errors.New("avatar: only jpeg and png images are accepted")
	ErrImageTooLarge    = errors.New("avatar: image exceeds 2 MiB")
	ErrTransform        = errors.New("avatar: image processing failed")
	ErrUpload           = errors.New("avatar: storage upload failed")
	ErrPersist          = errors.New("avatar: profile update failed")
)

// ObjectStore is the slice of object storage the pipeline needs. Upload has
// upsert semantics and returns the object's public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// ProfileAPI persists the new photo URL on the backend profile.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, patch api.ProfilePatch) (models.UserProfile, error)
}

type Pipeline struct {
	store   ObjectStore
	backend ProfileAPI
	log     zerolog.Logger
	now     func() time.Time
}

func NewPipeline(store ObjectStore, backend ProfileAPI, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:   store,
		backend: backend,
		log:     logger,
		now:     time.Now,
	}
}

// Update runs acquire, validate, transform, upload and persist in order for the
// given member and returns the updated profile. The previous avatar object,
// when its key is derivable, is deleted best-effort after the new URL is
// live.
func (p *Pipeline) Update(ctx context.Context, user models.UserProfile, src Source) (models.UserProfile, error) {
	img, err := src.Acquire(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}

	if err := Validate(img); err != nil {
		return models.UserProfile{}, err
	}

	jpegData, err := Transform(img.Data)
	if err != nil {
		return models.UserProfile{}, err
	}

	key := fmt.Sprintf("%s_%d.jpg", user.ID, p.now().UnixMilli())
	publicURL, err := p.store.Upload(ctx, key, jpegData, "image/jpeg")
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	updated, err := p.backend.UpdateProfile(ctx, api.ProfilePatch{Photo: &publicURL})
	if err != nil {
		// The uploaded object is now an orphan; the profile is unchanged.
		return models.UserProfile{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	p.collectPrevious(ctx, user.Photo)

	p.log.Info().
		Str("user_id", user.ID).
		Str("key", key).
		Int("bytes", len(jpegData)).
		Msg("avatar updated")

	return updated, nil
}

// Remove deletes the member's avatar object, then clears the photo field on
// the backend. The storage delete is best-effort; the profile clear is not.
func (p *Pipeline) Remove(ctx context.Context, user models.UserProfile) (models.UserProfile, error) {
	if key, ok := KeyFromURL(user.Photo); ok {
		if err := p.store.Remove(ctx, key); err != nil {
			p.log.Warn().Err(err).Str("key", key).Msg("avatar object delete failed")
		}
	}

	empty := ""
	updated, err := p.backend.UpdateProfile(ctx, api.ProfilePatch{Photo: &empty})
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return updated, nil
}

func (p *Pipeline) collectPrevious(ctx context.Context, previousURL string) {
	key, ok := KeyFromURL(previousURL)
	if !ok {
		return
	}
	if err := p.store.Remove(ctx, key); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("previous avatar delete failed")
	}
}

// Validate rejects anything that is not an under-limit jpeg or png. Runs
// before any transformation or network call.
func Validate(img Image) error {
	if _, _, ok := detectType(img.Data); !ok {
		return ErrInvalidImageType
	}
	if img.Size > MaxUploadBytes || int64(len(img.Data)) > MaxUploadBytes {
		return ErrImageTooLarge
	}
	return nil
}

// Transform bounds the image to a 500x500 square and re-encodes it as JPEG
// at fixed quality, whatever the input format was.
func Transform(data []byte) ([]byte, error) {
	decoded, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrTransform, err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		decoded = imaging.Fit(decoded, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, decoded, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrTransform, err)
	}
	if buf.Len() == 0 {
		return nil, ErrTransform
	}
	return buf.Bytes(), nil
}

// DataURI renders transformed JPEG bytes for inline transport (the signup
// form's optional photo field).
func DataURI(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}

// KeyFromURL recovers the storage key from a public avatar URL: the final
// path segment. Returns false for empty or unparseable URLs.
func KeyFromURL(publicURL string) (string, bool) {
	if publicURL == "" {
		return "", false
	}
	parsed, err := url.Parse(publicURL)
	if err != nil {
		return "", false
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	key := segments[len(segments)-1]
	if key == "" {
		return "", false
	}
	return key, true
}
