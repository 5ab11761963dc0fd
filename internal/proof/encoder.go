package proof

import (
	"encoding/base64"
	"strings"
)

// Encode renders data as standard, padded, unwrapped base64.
func Encode(data SealedSignature) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode parses standard padded base64. Surrounding whitespace is ignored.
func Decode(text string) (SealedSignature, error) {
	b, err := base64.StdEncoding.Strict().DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, ErrMalformedEncoding.Err(err)
	}
	return b, nil
}
