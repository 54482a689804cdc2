package controller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidProviderSignature(t *testing.T) {
	body := []byte(`{"payment_ref":"pay_abc","success":true}`)
	secret := "provider-secret"

	assert.True(t, validProviderSignature(body, signBody(body, secret), secret))
}

func TestValidProviderSignatureRejections(t *testing.T) {
	body := []byte(`{"payment_ref":"pay_abc","success":true}`)
	secret := "provider-secret"
	good := signBody(body, secret)

	tests := []struct {
		name      string
		body      []byte
		signature string
		secret    string
	}{
		{"tampered body", []byte(`{"payment_ref":"pay_abc","success":false}`), good, secret},
		{"wrong secret", body, signBody(body, "other-secret"), secret},
		{"empty signature", body, "", secret},
		{"no secret configured", body, good, ""},
		{"garbage signature", body, "deadbeef", secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, validProviderSignature(tt.body, tt.signature, tt.secret))
		})
	}
}
