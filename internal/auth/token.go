package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
)

// Tokens mints and verifies opaque session tokens of the form
// base64(userID:role:expiry) + "." + base64(hmac). Session issuance is a
// boundary concern; the core services only ever see the resolved role.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Mint(userID int64, role string) string {
	payload := fmt.Sprintf("%d:%s:%d", userID, role, t.now().Add(t.ttl).Unix())
	return encode([]byte(payload)) + "." + encode(t.sign(payload))
}

// Parse returns the user id and role carried by a valid, unexpired token.
func (t *Tokens) Parse(token string) (userID int64, role string, err error) {
	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return 0, "", apperrors.Auth("malformed token")
	}

	payload, err := decode(payloadPart)
	if err != nil {
		return 0, "", apperrors.Auth("malformed token")
	}
	sig, err := decode(sigPart)
	if err != nil {
		return 0, "", apperrors.Auth("malformed token")
	}
	if !hmac.Equal(sig, t.sign(string(payload))) {
		return 0, "", apperrors.Auth("invalid token signature")
	}

	parts := strings.SplitN(string(payload), ":", 3)
	if len(parts) != 3 {
		return 0, "", apperrors.Auth("malformed token")
	}
	userID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", apperrors.Auth("malformed token")
	}
	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, "", apperrors.Auth("malformed token")
	}
	if t.now().Unix() >= expiry {
		return 0, "", apperrors.Auth("token expired")
	}

	return userID, parts[1], nil
}

func (t *Tokens) sign(payload string) []byte {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
