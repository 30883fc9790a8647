package otp

import (
	"fmt"
	"strings"
)

// modhexAlphabet maps nibble values to the keyboard-layout-independent
// characters the device types in keyboard mode.
const modhexAlphabet = "cbdefghijklnrtuv"

// ModhexEncode encodes bytes into modhex, the encoding used for typed-out
// OTPs.
func ModhexEncode(src []byte) string {
	var b strings.Builder
	b.Grow(len(src) * 2)
	for _, v := range src {
		b.WriteByte(modhexAlphabet[v>>4])
		b.WriteByte(modhexAlphabet[v&0x0F])
	}
	return b.String()
}

// ModhexDecode decodes a modhex string. The input must have even length
// and contain only modhex characters.
func ModhexDecode(src string) ([]byte, error) {
	if len(src)%2 != 0 {
		return nil, fmt.Errorf("modhex input has odd length %d", len(src))
	}
	dst := make([]byte, len(src)/2)
	for i := 0; i < len(src); i++ {
		v := strings.IndexByte(modhexAlphabet, src[i])
		if v < 0 {
			return nil, fmt.Errorf("invalid modhex character %q at position %d", src[i], i)
		}
		if i%2 == 0 {
			dst[i/2] = byte(v) << 4
		} else {
			dst[i/2] |= byte(v)
		}
	}
	return dst, nil
}
