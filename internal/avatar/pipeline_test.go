package avatar

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"annfsu/app/internal/api"
	"annfsu/app/internal/models"
)

type fakeStore struct {
	uploads []string
	removed []string

	uploadErr error
	removeErr error
	publicURL string
}

func (f *fakeStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	if f.publicURL != "" {
		return f.publicURL, nil
	}
	return "http://storage.test/avatars/" + key, nil
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	return f.removeErr
}

type fakeProfileAPI struct {
	calls      int
	persistErr error
	lastPatch  api.ProfilePatch
}

func (f *fakeProfileAPI) UpdateProfile(ctx context.Context, patch api.ProfilePatch) (models.UserProfile, error) {
	f.calls++
	f.lastPatch = patch
	if f.persistErr != nil {
		return models.UserProfile{}, f.persistErr
	}
	user := models.UserProfile{ID: "u1"}
	if patch.Photo != nil {
		user.Photo = *patch.Photo
	}
	return user, nil
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x), A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func newTestPipeline(store *fakeStore, backend *fakeProfileAPI) *Pipeline {
	return NewPipeline(store, backend, zerolog.Nop())
}

func TestUpdatePersistsStorageURL(t *testing.T) {
	store := &fakeStore{}
	backend := &fakeProfileAPI{}
	p := newTestPipeline(store, backend)

	user := models.UserProfile{ID: "u1"}
	src := BytesSource{Payload: Image{Data: pngBytes(t, 40, 40), Size: 100}}

	updated, err := p.Update(context.Background(), user, src)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(store.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(store.uploads))
	}
	if !strings.HasPrefix(store.uploads[0], "u1_") || !strings.HasSuffix(store.uploads[0], ".jpg") {
		t.Fatalf("object key = %q", store.uploads[0])
	}
	want := "http://storage.test/avatars/" + store.uploads[0]
	if updated.Photo != want {
		t.Fatalf("photo = %q, want %q", updated.Photo, want)
	}
}

func TestUpdateRejectsOversizeBeforeAnyCall(t *testing.T) {
	store := &fakeStore{}
	backend := &fakeProfileAPI{}
	p := newTestPipeline(store, backend)

	// Valid jpeg magic bytes, padded past the cap: the type check passes,
	// the size check rejects, and nothing leaves the process.
	payload := append(jpegBytes(t, 10, 10), make([]byte, MaxUploadBytes+1)...)
	src := BytesSource{Payload: Image{Data: payload, Size: int64(len(payload))}}

	_, err := p.Update(context.Background(), models.UserProfile{ID: "u1"}, src)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("err = %v, want ErrImageTooLarge", err)
	}
	if len(store.uploads) != 0 || len(store.removed) != 0 {
		t.Fatalf("storage touched on rejected image")
	}
	if backend.calls != 0 {
		t.Fatalf("backend touched on rejected image")
	}
}

func TestUpdateRejectsNonImage(t *testing.T) {
	store := &fakeStore{}
	backend := &fakeProfileAPI{}
	p := newTestPipeline(store, backend)

	src := BytesSource{Payload: Image{Data: []byte("definitely not pixels"), Size: 21}}
	_, err := p.Update(context.Background(), models.UserProfile{ID: "u1"}, src)
	if !errors.Is(err, ErrInvalidImageType) {
		t.Fatalf("err = %v, want ErrInvalidImageType", err)
	}
	if len(store.uploads) != 0 || backend.calls != 0 {
		t.Fatalf("rejected image reached storage or backend")
	}
}

func TestUpdatePersistFailureLeavesOrphan(t *testing.T) {
	store := &fakeStore{}
	backend := &fakeProfileAPI{persistErr: errors.New("backend down")}
	p := newTestPipeline(store, backend)

	src := BytesSource{Payload: Image{Data: pngBytes(t, 20, 20), Size: 50}}
	_, err := p.Update(context.Background(), models.UserProfile{ID: "u1"}, src)
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("err = %v, want ErrPersist", err)
	}
	// The object was uploaded before persist failed; no cleanup of it.
	if len(store.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(store.uploads))
	}
	if len(store.removed) != 0 {
		t.Fatalf("previous-avatar gc must not run after persist failure")
	}
}

func TestUpdateCollectsPreviousAvatar(t *testing.T) {
	store := &fakeStore{}
	backend := &fakeProfileAPI{}
	p := newTestPipeline(store, backend)

	user := models.UserProfile{ID: "u1", Photo: "http://storage.test/avatars/u1_100.jpg"}
	src := BytesSource{Payload: Image{Data: pngBytes(t, 20, 20), Size: 50}}

	if _, err := p.Update(context.Background(), user, src); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(store.removed) != 1 || store.removed[0] != "u1_100.jpg" {
		t.Fatalf("removed = %v, want [u1_100.jpg]", store.removed)
	}
}

func TestUpdateSurvivesPreviousDeleteFailure(t *testing.T) {
	store := &fakeStore{removeErr: errors.New("object locked")}
	backend := &fakeProfileAPI{}
	p := newTestPipeline(store, backend)

	user := models.UserProfile{ID: "u1", Photo: "http://storage.test/avatars/u1_100.jpg"}
	src := BytesSource{Payload: Image{Data: pngBytes(t, 20, 20), Size: 50}}

	updated, err := p.Update(context.Background(), user, src)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Photo == "" {
		t.Fatalf("photo missing after gc failure")
	}
}

func TestRemoveDeletesObjectAndClearsPhoto(t *testing.T) {
	store := &fakeStore{}
	backend := &fakeProfileAPI{}
	p := newTestPipeline(store, backend)

	user := models.UserProfile{ID: "u1", Photo: "http://storage.test/avatars/u1_200.jpg"}
	updated, err := p.Remove(context.Background(), user)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(store.removed) != 1 || store.removed[0] != "u1_200.jpg" {
		t.Fatalf("removed = %v", store.removed)
	}
	if backend.lastPatch.Photo == nil || *backend.lastPatch.Photo != "" {
		t.Fatalf("photo patch = %v, want empty string", backend.lastPatch.Photo)
	}
	if updated.Photo != "" {
		t.Fatalf("photo = %q after remove", updated.Photo)
	}
}

func TestRemoveStorageFailureStillClears(t *testing.T) {
	store := &fakeStore{removeErr: errors.New("gone already")}
	backend := &fakeProfileAPI{}
	p := newTestPipeline(store, backend)

	user := models.UserProfile{ID: "u1", Photo: "http://storage.test/avatars/u1_300.jpg"}
	if _, err := p.Remove(context.Background(), user); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("backend calls = %d, want 1", backend.calls)
	}
}

func TestTransformBoundsLargeImages(t *testing.T) {
	out, err := Transform(pngBytes(t, 900, 600))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() > 500 || b.Dy() > 500 {
		t.Fatalf("output %dx%d exceeds 500px bound", b.Dx(), b.Dy())
	}
	if b.Dx() != 500 {
		t.Fatalf("width = %d, want 500 (aspect preserved fit)", b.Dx())
	}
}

func TestTransformKeepsSmallImages(t *testing.T) {
	out, err := Transform(jpegBytes(t, 120, 80))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != 120 || b.Dy() != 80 {
		t.Fatalf("output %dx%d, want 120x80", b.Dx(), b.Dy())
	}
}

func TestDataURIRoundTrips(t *testing.T) {
	jpegData, err := Transform(pngBytes(t, 60, 60))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	uri := DataURI(jpegData)
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri = %q", uri[:40])
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("decode uri payload: %v", err)
	}
	if _, _, ok := detectType(decoded); !ok {
		t.Fatalf("payload is not a recognizable image")
	}
	if !bytes.Equal(decoded, jpegData) {
		t.Fatalf("payload differs from transformed bytes")
	}
}

func TestKeyFromURL(t *testing.T) {
	cases := []struct {
		url  string
		key  string
		ok   bool
		name string
	}{
		{"http://storage.test/avatars/u1_1.jpg", "u1_1.jpg", true, "plain"},
		{"https://cdn.test/bucket/nested/u2_2.jpg", "u2_2.jpg", true, "nested"},
		{"", "", false, "empty"},
		{"http://storage.test/", "", false, "no segment"},
	}
	for _, tc := range cases {
		key, ok := KeyFromURL(tc.url)
		if ok != tc.ok || key != tc.key {
			t.Fatalf("%s: KeyFromURL(%q) = (%q, %v), want (%q, %v)", tc.name, tc.url, key, ok, tc.key, tc.ok)
		}
	}
}
