package hash

import (
	"strings"
	"testing"
)

func TestSHA256Hex(t *testing.T) {
	// Known SHA256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := SHA256Hex("hello")
	if got != want {
		t.Errorf("SHA256Hex(\"hello\") = %s, want %s", got, want)
	}
}

func TestSHA256Hex_Empty(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	got := SHA256Hex("")
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestPrefix(t *testing.T) {
	full := SHA256Hex("dQw4w9WgXcQ")

	tests := []struct {
		name      string
		prefixLen int
		want      string
	}{
		{"4 char prefix", 4, full[:4]},
		{"12 char prefix", 12, full[:12]},
		{"longer than hash", 100, full},
		{"zero means full", 0, full},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prefix("dQw4w9WgXcQ", tt.prefixLen); got != tt.want {
				t.Errorf("Prefix = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	a := Signature("videos", "keyword", "cooking", "50")
	b := Signature("videos", "keyword", "cooking", "50")
	if a != b {
		t.Errorf("signature not deterministic: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "videos:") {
		t.Errorf("signature %s missing namespace", a)
	}
	if Signature("videos", "ab", "c") == Signature("videos", "a", "bc") {
		t.Error("part boundaries must affect the signature")
	}
	if Signature("videos", "keyword", "cooking", "50") == Signature("videos", "keyword", "cooking", "20") {
		t.Error("result bound must affect the signature")
	}
}

func TestForLog(t *testing.T) {
	got := ForLog("203.0.113.7")
	if len(got) != 12 {
		t.Errorf("ForLog length = %d, want 12", len(got))
	}
	if got != ForLog("203.0.113.7") {
		t.Error("ForLog must be deterministic")
	}
	if got == ForLog("203.0.113.8") {
		t.Error("distinct inputs should hash differently")
	}
}
