package avatar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Image is a pending upload: raw bytes as acquired, before validation or
// transformation.
type Image struct {
	Data []byte
	MIME string
	Size int64
}

// Source acquires image bytes from wherever the user picked them (a file on
// disk, a capture device, a test fixture).
type Source interface {
	Acquire(ctx context.Context) (Image, error)
}

// FileSource reads a picked image from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Acquire(ctx context.Context) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return Image{}, fmt.Errorf("%w: %s", ErrPermissionDenied, s.Path)
		}
		return Image{}, fmt.Errorf("read image: %w", err)
	}

	return Image{Data: data, Size: int64(len(data))}, nil
}

// BytesSource serves an in-memory image. Used for inline signup photos and
// in tests.
type BytesSource struct {
	Payload Image
}

func (s BytesSource) Acquire(ctx context.Context) (Image, error) {
	return s.Payload, nil
}
