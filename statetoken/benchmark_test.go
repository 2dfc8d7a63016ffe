package statetoken

import (
	"strings"
	"testing"
	"time"
)

func BenchmarkSign(b *testing.B) {
	signer, err := New(Config{SigningKey: strings.Repeat("a", 32), TTL: time.Minute})
	if err != nil {
		b.Fatalf("Failed to create signer: %v", err)
	}
	payload := []byte(`{"return_to":"/dashboard"}`)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := signer.Sign("nonce-123", payload); err != nil {
			b.Fatalf("Sign failed: %v", err)
		}
	}
}

func BenchmarkVerify(b *testing.B) {
	signer, err := New(Config{SigningKey: strings.Repeat("a", 32), TTL: time.Hour})
	if err != nil {
		b.Fatalf("Failed to create signer: %v", err)
	}
	token, err := signer.Sign("nonce-123", []byte(`{"return_to":"/dashboard"}`))
	if err != nil {
		b.Fatalf("Sign failed: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := signer.Verify(token); err != nil {
			b.Fatalf("Verify failed: %v", err)
		}
	}
}
