// Package qrcode renders an asset's scannable label. Pure function of the
// tag and name; the only failure mode is the encoder itself.
package qrcode

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// ErrEncodingFailed wraps encoder failures.
var ErrEncodingFailed = errors.New("qr encoding failed")

// payload is what ends up inside the QR image. Matches what the scan client
// expects to decode back out of a label.
type payload struct {
	AssetTag string `json:"asset_tag"`
	Name     string `json:"name"`
}

// DataURL encodes {asset_tag, name} as a PNG and returns it as a
// base64 data URL suitable for direct embedding.
func DataURL(assetTag, name string) (string, error) {
	data, err := json.Marshal(payload{AssetTag: assetTag, Name: name})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	png, err := qr.Encode(string(data), qr.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
