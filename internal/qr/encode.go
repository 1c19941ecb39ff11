package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// EncodePNG renders content as a size x size pixel QR PNG.
func EncodePNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// WriteFile renders content as a QR PNG at path.
func WriteFile(content string, size int, path string) error {
	if err := qrcode.WriteFile(content, qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("write qr file: %w", err)
	}
	return nil
}

// TerminalString renders content as half-height block characters so the code
// can be scanned straight off the terminal.
func TerminalString(content string) (string, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return q.ToSmallString(false), nil
}
