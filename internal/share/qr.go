package share

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultQRSize = 512

var ErrTooLarge = errors.New("content too large for a QR code")

// QRCode renders content as a PNG with medium error correction.
func QRCode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("empty QR content")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		if len(content) > maxQRBytes {
			return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(content))
		}
		return nil, err
	}
	return png, nil
}

// maxQRBytes is the byte-mode capacity of a version 40 symbol at medium recovery.
const maxQRBytes = 2331
