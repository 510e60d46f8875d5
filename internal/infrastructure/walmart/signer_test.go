package walmart

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKeyPEM(t *testing.T) ([]byte, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return pemBytes, key
}

func TestNewSigner(t *testing.T) {
	t.Run("parses PKCS#1 key", func(t *testing.T) {
		pemBytes, _ := generateKeyPEM(t)
		signer, err := NewSigner(pemBytes)
		require.NoError(t, err)
		assert.NotNil(t, signer)
	})

	t.Run("parses PKCS#8 key", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		der, err := x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)
		pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

		signer, err := NewSigner(pemBytes)
		require.NoError(t, err)
		assert.NotNil(t, signer)
	})

	t.Run("rejects non-PEM input", func(t *testing.T) {
		_, err := NewSigner([]byte("not a key"))
		assert.Error(t, err)
	})
}

func TestSigner_Sign(t *testing.T) {
	pemBytes, key := generateKeyPEM(t)
	signer, err := NewSigner(pemBytes)
	require.NoError(t, err)

	signature, err := signer.Sign("consumer-123", 1700000000000, "1")
	require.NoError(t, err)

	// Verify against the public key over the canonical string
	raw, err := base64.StdEncoding.DecodeString(signature)
	require.NoError(t, err)

	canonical := fmt.Sprintf("%s\n%d\n%s\n", "consumer-123", int64(1700000000000), "1")
	digest := sha256.Sum256([]byte(canonical))
	err = rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, digest[:], raw)
	assert.NoError(t, err)
}
