//go:build !integration

package security

import "testing"

func TestEncryptionService(t *testing.T) {
	t.Parallel()
	if _, err := NewEncryptionService("short"); err == nil {
		t.Fatal("expected key length error")
	}
	e, err := NewEncryptionService("0123456789abcdef01234567")
	if err != nil {
		t.Fatal(err)
	}
	a, _ := e.Encrypt("streak: 3")
	b, _ := e.Encrypt("streak: 3")
	if a == b {
		t.Fatal("nonce must differ between messages")
	}
	pt, err := e.Decrypt(a)
	if err != nil || pt != "streak: 3" {
		t.Fatalf("pt=%q err=%v", pt, err)
	}

	other, _ := NewEncryptionService("fedcba9876543210fedcba98")
	if _, err := other.Decrypt(a); err == nil {
		t.Fatal("decrypt with wrong key should fail")
	}
	if _, err := e.Decrypt("AAAA"); err == nil {
		t.Fatal("short ciphertext should fail")
	}
}
