package protocol

import (
	"encoding/binary"
	"testing"
)

func TestCRC16(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "empty data",
			data:     []byte{},
			expected: 0xFFFF, // initial value, no bytes consumed
		},
		{
			name:     "single zero byte",
			data:     []byte{0x00},
			expected: 0x0F87,
		},
		{
			name:     "standard check string",
			data:     []byte("123456789"),
			expected: 0x6F91, // published CRC-16/MCRF4XX check value
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CRC16(tt.data)
			if result != tt.expected {
				t.Errorf("CRC16() = 0x%04X, want 0x%04X", result, tt.expected)
			}
		})
	}
}

func TestCRC16Residual(t *testing.T) {
	// Appending the ones' complement of the CRC (little-endian) must make
	// the whole buffer validate against the residual constant. This is the
	// property every device response check relies on.
	tests := [][]byte{
		{0x00},
		{0x01, 0x02, 0x03, 0x04},
		[]byte("123456789"),
		make([]byte, 64),
	}

	for _, data := range tests {
		crc := ^CRC16(data)
		buf := make([]byte, len(data)+2)
		copy(buf, data)
		binary.LittleEndian.PutUint16(buf[len(data):], crc)

		if CRC16(buf) != CRCResidualOK {
			t.Errorf("residual for %d-byte buffer = 0x%04X, want 0x%04X",
				len(data), CRC16(buf), CRCResidualOK)
		}
		if !VerifyCRC16(buf) {
			t.Errorf("VerifyCRC16 rejected a valid %d-byte buffer", len(data))
		}
	}
}

func TestCRC16DetectsSingleBitCorruption(t *testing.T) {
	data := []byte("challenge-response test buffer")
	crc := ^CRC16(data)
	buf := make([]byte, len(data)+2)
	copy(buf, data)
	binary.LittleEndian.PutUint16(buf[len(data):], crc)

	for i := 0; i < len(buf)*8; i++ {
		buf[i/8] ^= 1 << (i % 8)
		if VerifyCRC16(buf) {
			t.Errorf("bit flip at offset %d not detected", i)
		}
		buf[i/8] ^= 1 << (i % 8)
	}
}

func BenchmarkCRC16(b *testing.B) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CRC16(data)
	}
}
