package stdimg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeBytes decodes an in-memory image of any registered format and
// returns it as a fresh NRGBA buffer together with the format name.
func DecodeBytes(data []byte) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return ToNRGBA(img), format, nil
}

// EncodePNG writes img as PNG. Output is always PNG regardless of the
// input format.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WritePNGFile encodes img and replaces path atomically: the PNG is written
// to a temporary file in the same directory and renamed over path. path may
// be the file the image was read from.
func WritePNGFile(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return &EncodeError{Err: err}
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// EncodeError wraps a failure of the PNG encoder, as opposed to a
// filesystem error while writing the result.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "png encode: " + e.Err.Error() }

func (e *EncodeError) Unwrap() error { return e.Err }
