// Package labels renders printable QR labels for asset and kit
// barcodes, so equipment can be tagged and staged by scan.
package labels

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the label edge length in pixels.
const DefaultSize = 256

// MaxSize caps requested label sizes.
const MaxSize = 1024

// QRPNG renders a code as a PNG QR label. A size of 0 uses DefaultSize;
// oversized requests are clamped to MaxSize.
func QRPNG(code string, size int) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("label code is required")
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	png, err := qrcode.Encode(code, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR label: %w", err)
	}
	return png, nil
}
