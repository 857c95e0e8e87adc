// Package images converts scraped cover bytes into the single encoding the
// board attachment endpoint receives.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	"image/jpeg"   // register JPEG decoder, used for encoding
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

// MimeJPEG is the mime type of every recompressed cover.
const MimeJPEG = "image/jpeg"

// jpegQuality matches the default quality of the attachment uploads the
// board already holds.
const jpegQuality = 90

// Recompress decodes cover bytes in any supported format and re-encodes
// them as JPEG. The content is never diffed against an existing cover;
// attachment reconciliation is presence-only.
func Recompress(data []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode cover: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode cover (%s source): %w", format, err)
	}
	return buf.Bytes(), MimeJPEG, nil
}
