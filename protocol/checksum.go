package protocol

// Checksum algorithm constants.
const (
	// CRC16Polynomial is the reflected CRC16 polynomial (0x8408)
	CRC16Polynomial = 0x8408

	// CRC16InitialValue is the CRC16 initial value
	CRC16InitialValue = 0xFFFF

	// CRCResidualOK is the residual obtained by running CRC16 over a
	// buffer together with its trailing little-endian CRC field. Every
	// CRC-carrying structure read back from the device is validated
	// against this constant.
	CRCResidualOK = 0xF0B8

	// BitsPerByte is the number of bits per byte
	BitsPerByte = 8
)

// CRC16 computes the 16-bit checksum used by the token firmware.
//
// Parameters:
//   - Polynomial: CRC16Polynomial (reflected, LSB-first)
//   - Initial value: CRC16InitialValue
//   - No final XOR
//
// The same function covers outgoing frames, the slot configuration record,
// and every decoded response structure. The variant is device-compatibility
// critical: a mismatched implementation produces frames the device silently
// ignores.
func CRC16(data []byte) uint16 {
	crc := uint16(CRC16InitialValue)

	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < BitsPerByte; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ CRC16Polynomial
			} else {
				crc = crc >> 1
			}
		}
	}

	return crc
}

// VerifyCRC16 reports whether buf, whose last two bytes are a
// little-endian CRC16 over the preceding bytes, is intact.
func VerifyCRC16(buf []byte) bool {
	return CRC16(buf) == CRCResidualOK
}
