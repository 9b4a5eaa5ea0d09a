package protocol

import "testing"

func TestCRC16KnownVector(t *testing.T) {
	if got := CRC16([]byte("123456789")); got != 0x4B37 {
		t.Fatalf("CRC16 check value = %#04x, want 0x4b37", got)
	}
}

func TestCRC16EmptyInput(t *testing.T) {
	if got := CRC16(nil); got != 0xFFFF {
		t.Fatalf("CRC16 of empty input = %#04x, want the 0xffff init value", got)
	}
}

func TestCRC32KnownVector(t *testing.T) {
	if got := CRC32([]byte("123456789")); got != 0xCBF43926 {
		t.Fatalf("CRC32 check value = %#08x, want 0xcbf43926", got)
	}
}

func TestCRC16DetectsSingleBitFlips(t *testing.T) {
	data := []byte{0x01, 0x64, 0x00, 0x9C, 0x0F}
	reference := CRC16(data)
	for i := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), data...)
			flipped[i] ^= 1 << bit
			if CRC16(flipped) == reference {
				t.Fatalf("flip of byte %d bit %d went undetected", i, bit)
			}
		}
	}
}
