package shopee

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	appID := "18341090114"
	secret := "MYSECRETKEYMYSECRETKEYMYSECRETKEY"
	payload := `{"query":"{}","variables":{}}`
	var ts int64 = 1767225600

	expected := sha256.Sum256([]byte(appID + "1767225600" + payload + secret))
	assert.Equal(t, hex.EncodeToString(expected[:]), Signature(appID, secret, ts, payload))
}

func TestSignature_DependsOnEveryInput(t *testing.T) {
	base := Signature("app", "secret", 100, "body")

	assert.NotEqual(t, base, Signature("app2", "secret", 100, "body"))
	assert.NotEqual(t, base, Signature("app", "secret2", 100, "body"))
	assert.NotEqual(t, base, Signature("app", "secret", 101, "body"))
	assert.NotEqual(t, base, Signature("app", "secret", 100, "body2"))
	assert.Equal(t, base, Signature("app", "secret", 100, "body"))
}

func TestAuthHeader(t *testing.T) {
	header := AuthHeader("12345", "secret", 1767225600, "{}")

	expected := fmt.Sprintf("SHA256 Credential=12345, Timestamp=1767225600, Signature=%s",
		Signature("12345", "secret", 1767225600, "{}"))
	assert.Equal(t, expected, header)
}

func TestSignature_HexLength(t *testing.T) {
	assert.Len(t, Signature("a", "b", 1, "c"), 64)
}
