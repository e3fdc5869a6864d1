// Package google verifies Google-signed OIDC identity tokens, the bearer
// credential attached to Pub/Sub push and Eventarc deliveries.
package google

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultCertsURL = "https://www.googleapis.com/oauth2/v3/certs"
	keyTTL          = time.Hour
)

var issuers = []string{"https://accounts.google.com", "accounts.google.com"}

var (
	ErrInvalidToken = errors.New("google: invalid identity token")
	errUnknownKey   = errors.New("google: unknown signing key")
)

// Claims are the identity token fields callers care about.
type Claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Verifier checks signature, issuer, audience and expiry. When Email is set
// the token must also belong to that verified service account.
type Verifier struct {
	Audience string
	Email    string

	certsURL   string
	httpClient *http.Client
	now        func() time.Time

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

// NewVerifier uses Google's public certificate endpoint unless certsURL is set.
func NewVerifier(audience, email, certsURL string) *Verifier {
	if certsURL == "" {
		certsURL = DefaultCertsURL
	}
	return &Verifier{
		Audience:   audience,
		Email:      email,
		certsURL:   certsURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// Verify parses raw and returns its claims.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !validIssuer(claims.Issuer) {
		return nil, fmt.Errorf("%w: issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if v.Email != "" && (!claims.EmailVerified || !strings.EqualFold(claims.Email, v.Email)) {
		return nil, fmt.Errorf("%w: unexpected principal %q", ErrInvalidToken, claims.Email)
	}
	return claims, nil
}

func validIssuer(iss string) bool {
	for _, want := range issuers {
		if iss == want {
			return true
		}
	}
	return false
}

// key returns the cached key for kid, refreshing once on a miss or when the
// cache is stale.
func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	pk, ok := v.keys[kid]
	stale := v.now().Sub(v.fetched) > keyTTL
	v.mu.RUnlock()
	if ok && !stale {
		return pk, nil
	}
	if err := v.refresh(ctx); err != nil {
		return nil, err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	if pk, ok := v.keys[kid]; ok {
		return pk, nil
	}
	return nil, errUnknownKey
}

func (v *Verifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google: fetch certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google: fetch certs: status %d", resp.StatusCode)
	}
	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("google: decode certs: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("google: no usable certs")
	}
	v.mu.Lock()
	v.keys = keys
	v.fetched = v.now()
	v.mu.Unlock()
	return nil
}

func rsaKeyFromJWK(k jwk) (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eb {
		e = e<<8 | int(b)
	}
	if e == 0 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: e}, nil
}
