package avatar

import "bytes"

type imageType string

const (
	typeJPEG imageType = "jpeg"
	typePNG  imageType = "png"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// detectType identifies the payload from magic bytes. Declared MIME types
// are not trusted; only jpeg and png are accepted at all.
func detectType(data []byte) (imageType, string, bool) {
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return typeJPEG, "image/jpeg", true
	}
	if len(data) >= len(pngMagic) && bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return typePNG, "image/png", true
	}
	return "", "", false
}
