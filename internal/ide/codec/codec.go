// Package codec converts submission text to and from the base64 transport form
// used by the judge APIs.
package codec

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encode returns the base64 form of the UTF-8 bytes of text.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode reverses Encode. Judge output is not guaranteed to be valid UTF-8, so
// bytes that do not form UTF-8 are read as Latin-1 instead of failing. Input
// that is not base64 at all is passed through the same byte decoding.
// Line breaks inside the base64 text (Judge0 wraps at 60 columns) are ignored.
func Decode(encoded string) string {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return DecodeBytes([]byte(encoded))
	}
	return DecodeBytes(raw)
}

// DecodeBytes interprets raw as UTF-8, falling back to Latin-1.
func DecodeBytes(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// ISO-8859-1 maps every byte, this is unreachable in practice.
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(out)
}
