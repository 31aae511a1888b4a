// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		salt  string
	}{
		{"standard", Scope, "secret-salt"},
		{"empty scope", "", "salt"},
		{"empty salt", Scope, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.scope, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.scope, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			// Different inputs should produce different keys
			if tt.scope != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.scope+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different scopes")
				}
			}

			// Should be URL-safe (no padding)
			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	salt := "test-salt"
	validKey := GenerateAdminKey(Scope, salt)

	tests := []struct {
		name     string
		scope    string
		adminKey string
		salt     string
		wantErr  bool
	}{
		{"valid key", Scope, validKey, salt, false},
		{"wrong key", Scope, "wrong-key", salt, true},
		{"wrong scope", "other-app", validKey, salt, true},
		{"wrong salt", Scope, validKey, "different-salt", true},
		{"empty key", Scope, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.scope, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestHashInputs(t *testing.T) {
	hash := HashInputs([]byte(`[{"key":"p"}]`), []byte(`[]`))

	// Should be 64 hex characters (sha256)
	if len(hash) != 64 {
		t.Errorf("HashInputs() length = %d, want 64", len(hash))
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("HashInputs() contains invalid hex char: %c", c)
		}
	}

	if hash != HashInputs([]byte(`[{"key":"p"}]`), []byte(`[]`)) {
		t.Error("HashInputs() is not deterministic")
	}

	// Moving a byte across the boundary must change the hash
	if HashInputs([]byte("ab"), []byte("c")) == HashInputs([]byte("a"), []byte("bc")) {
		t.Error("HashInputs() ignored part boundaries")
	}
}

func BenchmarkGenerateAdminKey(b *testing.B) {
	salt := "test-salt"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateAdminKey(Scope, salt)
	}
}
