package encryption

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestTestEncryptor_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "simple text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "large data", input: bytes.Repeat([]byte("abcdef"), 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewTestEncryptor()
			var encrypted bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &encrypted); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if !bytes.HasPrefix(encrypted.Bytes(), testHeader) {
				t.Error("encrypted output does not start with test header")
			}

			dc, err := e.Unlock("anything")
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			var decrypted bytes.Buffer
			if err := dc.Decrypt(&encrypted, &decrypted); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted.Bytes(), tt.input) {
				t.Errorf("round-trip = %q, want %q", decrypted.Bytes(), tt.input)
			}
		})
	}
}

func TestTestEncryptor_Passphrase(t *testing.T) {
	t.Parallel()

	e := NewTestEncryptor()
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false, want true")
	}
	if err := e.Setup("secret"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if _, err := e.Unlock("wrong"); err == nil {
		t.Error("Unlock() with wrong passphrase should return error")
	}
	if _, err := e.Unlock("secret"); err != nil {
		t.Errorf("Unlock() error = %v", err)
	}
}

func TestTestDecryptionContext_InvalidHeader(t *testing.T) {
	t.Parallel()

	dc := &TestDecryptionContext{}
	tests := []struct {
		name  string
		input string
	}{
		{"too short", "SHEL"},
		{"wrong header", "NOTSHELFdata"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := dc.Decrypt(strings.NewReader(tt.input), io.Discard); err == nil {
				t.Error("Decrypt() expected error")
			}
		})
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{"json array", `[{"title":"Halo"}]`, KindPlain},
		{"empty", "", KindPlain},
		{"age binary", "age-encryption.org/v1\n-> X25519 abc\n", KindAge},
		{"armored", "-----BEGIN AGE ENCRYPTED FILE-----\nYWdl\n", KindArmored},
		{"test encryptor", "SHELFENC[]", KindTest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, kind, err := Sniff(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Sniff() error = %v", err)
			}
			if kind != tt.want {
				t.Errorf("Sniff() kind = %v, want %v", kind, tt.want)
			}
			rest, _ := io.ReadAll(r)
			if string(rest) != tt.input {
				t.Errorf("Sniff() reader = %q, want full input %q", rest, tt.input)
			}
		})
	}
}
