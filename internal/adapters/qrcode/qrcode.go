package qrcode

import (
	"fmt"

	"eventpass/internal/domain"

	qr "github.com/skip2/go-qrcode"
)

// Size limits in pixels.
const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

type generator struct {
	level qr.RecoveryLevel
}

// NewGenerator returns a QRCodeGenerator with medium error correction.
func NewGenerator() domain.QRCodeGenerator {
	return &generator{level: qr.Medium}
}

func (g *generator) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: empty qr content", domain.ErrInvalidInput)
	}
	png, err := qr.Encode(content, g.level, ClampSize(size))
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// ClampSize maps a requested size into [MinSize, MaxSize]; zero or negative means DefaultSize.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}
