package receipt

import (
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const defaultQRSize = 512

// GenerateQRCode encodes payload as a square PNG. A size of zero or less
// falls back to defaultQRSize.
func GenerateQRCode(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("qr payload is empty")
	}
	if size <= 0 {
		size = defaultQRSize
	}

	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return qr.PNG(size)
}
