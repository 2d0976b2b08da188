// Package sealer mints the opaque gate-pass tokens embedded in visitor
// passes. The QR rendering service only ever sees the sealed token; the
// meeting and participant identifiers stay opaque outside this engine.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

const defaultKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

func sealKey() string {
	if k := os.Getenv("PASS_TOKEN_KEY"); k != "" {
		return k
	}
	return defaultKey
}

// CreatePassToken seals a meeting/participant pair into an opaque token.
func CreatePassToken(meetingID string, participantID string) (string, error) {
	plaintext := []byte(meetingID + ":" + participantID)

	key, err := base64.StdEncoding.DecodeString(sealKey())
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// ParsePassToken reverses CreatePassToken, returning the meeting and
// participant identifiers.
func ParsePassToken(token string) (string, string, error) {
	key, err := base64.StdEncoding.DecodeString(sealKey())
	if err != nil {
		return "", "", err
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return "", "", fmt.Errorf("token too short")
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], nil
}
