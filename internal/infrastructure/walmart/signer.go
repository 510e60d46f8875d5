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
)

// Signer produces the WM_SEC.AUTH_SIGNATURE header value for Walmart
// affiliate API requests: a base64 RSA-SHA256 signature over
// "consumerID\ntimestamp\nkeyVersion\n".
type Signer struct {
	privateKey *rsa.PrivateKey
}

// NewSigner parses a PEM-encoded RSA private key (PKCS#1 or PKCS#8).
func NewSigner(privateKeyPEM []byte) (*Signer, error) {
	block, _ := pem.Decode(privateKeyPEM)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return &Signer{privateKey: key}, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not an RSA key")
	}

	return &Signer{privateKey: rsaKey}, nil
}

// Sign implements domain.CredentialProvider.
func (s *Signer) Sign(consumerID string, timestamp int64, keyVersion string) (string, error) {
	canonical := fmt.Sprintf("%s\n%d\n%s\n", consumerID, timestamp, keyVersion)

	digest := sha256.Sum256([]byte(canonical))
	signature, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}
