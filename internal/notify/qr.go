// Package notify sends booking confirmations by mail with the e-ticket QR
// code attached.
package notify

import (
	"bytes"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// QRCodePNG encodes content as a size×size PNG.
func QRCodePNG(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
