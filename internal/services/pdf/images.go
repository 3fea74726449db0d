package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/tiff"
)

const jpegQuality = 95

// reencodeImage decodes raw image bytes to prove they are a usable image and
// writes them back in the same family. Formats other than jpeg and tiff are
// written as png.
func reencodeImage(data []byte, sourceType string) (string, []byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode %s image: %w", sourceType, err)
	}

	var buf bytes.Buffer
	ext := "png"

	switch format {
	case "jpeg":
		ext = "jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case "tiff":
		ext = "tiff"
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode %s image: %w", ext, err)
	}

	return ext, buf.Bytes(), nil
}

// ContentTypeForExt maps a stored image extension to its MIME type
func ContentTypeForExt(ext string) string {
	switch ext {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "tiff", "tif":
		return "image/tiff"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
