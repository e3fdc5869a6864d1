package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAudience = "https://api.example.com/v1/events/photo-created"

type certServer struct {
	*httptest.Server
	key   *rsa.PrivateKey
	kid   string
	calls atomic.Int32
}

func newCertServer(t *testing.T) *certServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cs := &certServer{key: key, kid: "k1"}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.calls.Add(1)
		pub := cs.key.PublicKey
		_ = json.NewEncoder(w).Encode(jwks{Keys: []jwk{{
			Kid: cs.kid,
			Kty: "RSA",
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}}})
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = cs.kid
	raw, err := tok.SignedString(cs.key)
	require.NoError(t, err)
	return raw
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		Email:         "pusher@proj.iam.gserviceaccount.com",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testAudience, "pusher@proj.iam.gserviceaccount.com", cs.URL)

	claims, err := v.Verify(context.Background(), cs.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "pusher@proj.iam.gserviceaccount.com", claims.Email)

	_, err = v.Verify(context.Background(), cs.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.calls.Load(), "certs are cached")
}

func TestVerifyRejects(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testAudience, "pusher@proj.iam.gserviceaccount.com", cs.URL)

	cases := map[string]func(c *Claims){
		"wrong audience": func(c *Claims) { c.Audience = jwt.ClaimStrings{"other"} },
		"expired":        func(c *Claims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute)) },
		"no expiry":      func(c *Claims) { c.ExpiresAt = nil },
		"wrong issuer":   func(c *Claims) { c.Issuer = "https://evil.example.com" },
		"wrong email":    func(c *Claims) { c.Email = "someone@else.com" },
		"unverified":     func(c *Claims) { c.EmailVerified = false },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validClaims()
			mutate(&c)
			_, err := v.Verify(context.Background(), cs.sign(t, c))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testAudience, "", cs.URL)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims())
	tok.Header["kid"] = cs.kid
	raw, err := tok.SignedString(other)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRefreshesOnKeyRotation(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testAudience, "", cs.URL)
	_, err := v.Verify(context.Background(), cs.sign(t, validClaims()))
	require.NoError(t, err)

	rotated, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cs.key, cs.kid = rotated, "k2"

	_, err = v.Verify(context.Background(), cs.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(2), cs.calls.Load())
}
