package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func testHMACSecret() []byte {
	secret := make([]byte, HMACSecretSize)
	for i := range secret {
		secret[i] = byte(0x30 + i)
	}
	return secret
}

func TestNewHMACConfigLayout(t *testing.T) {
	secret := testHMACSecret()
	cfg, err := NewHMACConfig(secret)
	if err != nil {
		t.Fatalf("NewHMACConfig() error: %v", err)
	}

	buf := cfg.Marshal()
	if len(buf) != ConfigSize {
		t.Fatalf("Marshal() length = %d, want %d", len(buf), ConfigSize)
	}

	// The 20-byte secret is split: bytes 0-15 into the key field,
	// bytes 16-19 into the first four private-id bytes.
	if !bytes.Equal(buf[22:38], secret[:16]) {
		t.Errorf("key field does not hold the first 16 secret bytes")
	}
	if !bytes.Equal(buf[16:20], secret[16:]) {
		t.Errorf("uid field does not hold the last 4 secret bytes")
	}
	for _, b := range buf[20:22] {
		if b != 0 {
			t.Errorf("unused uid bytes not zero")
		}
	}

	// Flag bytes at their fixed offsets.
	if buf[46] != TktChalResp {
		t.Errorf("tktFlags = 0x%02X, want 0x%02X", buf[46], TktChalResp)
	}
	if want := byte(CfgChalHMAC | CfgHMACLt64); buf[47] != want {
		t.Errorf("cfgFlags = 0x%02X, want 0x%02X", buf[47], want)
	}

	// The record validates as a CRC-carrying structure.
	if !VerifyCRC16(buf) {
		t.Errorf("record CRC residual check failed")
	}
}

func TestNewOTPConfigLayout(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, AESKeySize)
	privateID := []byte{1, 2, 3, 4, 5, 6}

	cfg, err := NewOTPConfig(key, privateID, WithRequireTouch())
	if err != nil {
		t.Fatalf("NewOTPConfig() error: %v", err)
	}

	buf := cfg.Marshal()
	if !bytes.Equal(buf[22:38], key) {
		t.Errorf("key field mismatch")
	}
	if !bytes.Equal(buf[16:22], privateID) {
		t.Errorf("uid field mismatch")
	}
	if want := byte(CfgChalYubico | CfgChalBtnTrig); buf[47] != want {
		t.Errorf("cfgFlags = 0x%02X, want 0x%02X", buf[47], want)
	}
	if !VerifyCRC16(buf) {
		t.Errorf("record CRC residual check failed")
	}
}

func TestConfigDeterministicSerialization(t *testing.T) {
	build := func() []byte {
		cfg, err := NewHMACConfig(testHMACSecret(),
			WithRequireTouch(),
			WithSerialAPIVisible(),
			WithAccessCode([]byte{9, 8, 7, 6, 5, 4}),
		)
		if err != nil {
			t.Fatalf("NewHMACConfig() error: %v", err)
		}
		return cfg.Marshal()
	}

	first := build()
	second := build()
	if !bytes.Equal(first, second) {
		t.Fatalf("identical logical configuration produced different bytes:\n%X\n%X",
			first, second)
	}
}

func TestConfigOptionBits(t *testing.T) {
	tests := []struct {
		name     string
		opts     []ConfigOption
		tktFlags byte
		cfgFlags byte
		extFlags byte
	}{
		{
			name:     "defaults",
			tktFlags: TktChalResp,
			cfgFlags: CfgChalHMAC | CfgHMACLt64,
		},
		{
			name:     "require touch",
			opts:     []ConfigOption{WithRequireTouch()},
			tktFlags: TktChalResp,
			cfgFlags: CfgChalHMAC | CfgHMACLt64 | CfgChalBtnTrig,
		},
		{
			name:     "fixed challenge",
			opts:     []ConfigOption{WithFixedChallenge()},
			tktFlags: TktChalResp,
			cfgFlags: CfgChalHMAC,
		},
		{
			name:     "append cr",
			opts:     []ConfigOption{WithAppendCR()},
			tktFlags: TktChalResp | TktAppendCR,
			cfgFlags: CfgChalHMAC | CfgHMACLt64,
		},
		{
			name:     "serial api visible",
			opts:     []ConfigOption{WithSerialAPIVisible()},
			tktFlags: TktChalResp,
			cfgFlags: CfgChalHMAC | CfgHMACLt64,
			extFlags: ExtSerialAPIVisible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewHMACConfig(testHMACSecret(), tt.opts...)
			if err != nil {
				t.Fatalf("NewHMACConfig() error: %v", err)
			}
			buf := cfg.Marshal()
			if buf[45] != tt.extFlags {
				t.Errorf("extFlags = 0x%02X, want 0x%02X", buf[45], tt.extFlags)
			}
			if buf[46] != tt.tktFlags {
				t.Errorf("tktFlags = 0x%02X, want 0x%02X", buf[46], tt.tktFlags)
			}
			if buf[47] != tt.cfgFlags {
				t.Errorf("cfgFlags = 0x%02X, want 0x%02X", buf[47], tt.cfgFlags)
			}
		})
	}
}

func TestConfigRejectsWrongKeyLengths(t *testing.T) {
	if _, err := NewHMACConfig(make([]byte, HMACSecretSize-1)); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("short HMAC secret: error = %v, want ErrInvalidKeyLength", err)
	}
	if _, err := NewHMACConfig(make([]byte, HMACSecretSize+1)); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("long HMAC secret: error = %v, want ErrInvalidKeyLength", err)
	}
	if _, err := NewOTPConfig(make([]byte, AESKeySize-1), make([]byte, ConfigUIDSize)); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("short AES key: error = %v, want ErrInvalidKeyLength", err)
	}
	if _, err := NewOTPConfig(make([]byte, AESKeySize), make([]byte, ConfigUIDSize+1)); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("wrong private id: error = %v, want ErrInvalidKeyLength", err)
	}
}

func TestConfigZeroWipesSecrets(t *testing.T) {
	cfg, err := NewHMACConfig(testHMACSecret(), WithAccessCode([]byte{1, 2, 3, 4, 5, 6}))
	if err != nil {
		t.Fatalf("NewHMACConfig() error: %v", err)
	}
	cfg.Zero()

	buf := cfg.Marshal()
	for i, b := range buf[16:44] { // uid, key, access code fields
		if b != 0 {
			t.Fatalf("secret byte at record offset %d not wiped", 16+i)
		}
	}
}
