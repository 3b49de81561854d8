package crypto

import (
	"errors"
	"strings"
	"testing"
)

// cheapParams keeps argon2 fast in tests.
var cheapParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashFormat(t *testing.T) {
	hash, err := NewGenerator(nil).Hash("x7#Qa!", DefaultHashParams())
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestHashVerifies(t *testing.T) {
	gen := NewGenerator(nil)
	hash, err := gen.Hash("generated-secret", cheapParams)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	match, err := VerifyHash("generated-secret", hash)
	if err != nil {
		t.Fatalf("VerifyHash() unexpected error: %v", err)
	}
	if !match {
		t.Error("VerifyHash() returned false for the hashed password")
	}

	match, err = VerifyHash("other-secret", hash)
	if err != nil {
		t.Fatalf("VerifyHash() unexpected error: %v", err)
	}
	if match {
		t.Error("VerifyHash() returned true for a different password")
	}
}

func TestHashSaltFromSource(t *testing.T) {
	gen := NewGenerator(nil)
	first, err := gen.Hash("same", cheapParams)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	second, err := gen.Hash("same", cheapParams)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if first == second {
		t.Error("Hash() produced identical hashes; salt should differ")
	}

	_, err = NewGenerator(newScriptedSource(1)).Hash("same", cheapParams)
	if !errors.Is(err, ErrRandomSource) {
		t.Errorf("Hash() error = %v, want %v", err, ErrRandomSource)
	}
}

func TestVerifyHashInvalid(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{name: "garbage", encoded: "invalid-hash-format", wantErr: ErrInvalidHashFormat},
		{name: "wrong algorithm", encoded: "$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5", wantErr: ErrInvalidHashFormat},
		{name: "wrong version", encoded: "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5", wantErr: ErrIncompatibleVersion},
		{name: "bad params", encoded: "$argon2id$v=19$m=x$c2FsdA$a2V5", wantErr: ErrInvalidHashFormat},
		{name: "bad salt", encoded: "$argon2id$v=19$m=1024,t=1,p=1$!!$a2V5", wantErr: ErrInvalidHashFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyHash("password", tt.encoded)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyHash() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
