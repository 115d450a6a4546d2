package nvstore

import "testing"

func TestDisableFlag(t *testing.T) {
	f := DisableFlag()

	if byte(f) != 0x81 {
		t.Errorf("DisableFlag() = %#02x, want 0x81", byte(f))
	}
	if !f.Valid() {
		t.Error("Valid() = false, want true")
	}
	if !f.Disabled() {
		t.Error("Disabled() = false, want true")
	}
}

func TestFlagDecoding(t *testing.T) {
	tests := []struct {
		name     string
		value    Flag
		valid    bool
		disabled bool
		str      string
	}{
		{"Zero", 0x00, false, false, "INVALID"},
		{"DisableBitOnlyIsStale", 0x01, false, false, "INVALID"},
		{"ValidNoDisable", 0x80, true, false, "VALID"},
		{"ValidAndDisable", 0x81, true, true, "DISABLE"},
		{"GarbageWithValidBit", 0xff, true, true, "DISABLE"},
		{"GarbageWithoutValidBit", 0x7e, false, false, "INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.value.Disabled(); got != tt.disabled {
				t.Errorf("Disabled() = %v, want %v", got, tt.disabled)
			}
			if got := tt.value.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

// Repeated writes of the disable value must leave the byte identical to a
// single write.
func TestDisableFlagIdempotent(t *testing.T) {
	s := NewMemStore()

	for i := 0; i < 5; i++ {
		if err := s.WriteByte(byte(DisableFlag())); err != nil {
			t.Fatalf("WriteByte() #%d error = %v", i, err)
		}
	}

	got, err := s.ReadByte()
	if err != nil {
		t.Fatalf("ReadByte() error = %v", err)
	}
	if got != byte(DisableFlag()) {
		t.Errorf("ReadByte() = %#02x, want %#02x", got, byte(DisableFlag()))
	}
}
