package services

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidAppleToken    = errors.New("invalid Apple identity token")
	ErrAppleKeysUnavailable = errors.New("apple signing keys unavailable")

	errUnknownKid = errors.New("unknown key id")
)

const (
	appleKeysTTL = 24 * time.Hour
	// Unknown kids and failed fetches may trigger at most one refetch per
	// interval.
	appleRefreshInterval = time.Minute
)

type AppleJWKS struct {
	Keys []AppleJWK `json:"keys"`
}

type AppleJWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// AppleClaims are the identity token claims the API reads.
type AppleClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AppleVerifier checks Apple identity tokens against Apple's published key
// set. Keys are cached for 24h and refetched when an unknown kid shows up,
// no more than once per appleRefreshInterval.
type AppleVerifier struct {
	jwksURL    string
	issuer     string
	audience   string
	httpClient *http.Client
	now        func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time

	// fetchMu serialises refetches and guards lastAttempt.
	fetchMu     sync.Mutex
	lastAttempt time.Time
}

func NewAppleVerifier(jwksURL, issuer, audience string, httpClient *http.Client) *AppleVerifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &AppleVerifier{
		jwksURL:    jwksURL,
		issuer:     issuer,
		audience:   audience,
		httpClient: httpClient,
		now:        time.Now,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// Verify decodes raw without trusting it to find the key id, then checks the
// RS256 signature, issuer, audience and expiry.
func (v *AppleVerifier) Verify(ctx context.Context, raw string) (*AppleClaims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(raw, &AppleClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAppleToken, err)
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrInvalidAppleToken)
	}

	key, err := v.PublicKey(ctx, kid)
	if err != nil {
		if errors.Is(err, errUnknownKid) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAppleToken, err)
		}
		return nil, err
	}

	claims := &AppleClaims{}
	_, err = jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAppleToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidAppleToken)
	}
	return claims, nil
}

func (v *AppleVerifier) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok, fresh := v.cached(kid); ok && fresh {
		return key, nil
	}

	v.fetchMu.Lock()
	defer v.fetchMu.Unlock()

	// Another caller may have refreshed while we waited.
	key, ok, fresh := v.cached(kid)
	if ok && fresh {
		return key, nil
	}
	if v.now().Sub(v.lastAttempt) < appleRefreshInterval {
		switch {
		case ok:
			return key, nil
		case fresh:
			return nil, fmt.Errorf("%w %q", errUnknownKid, kid)
		default:
			return nil, fmt.Errorf("%w: refresh attempted recently", ErrAppleKeysUnavailable)
		}
	}

	v.lastAttempt = v.now()
	if err := v.fetchKeys(ctx); err != nil {
		return nil, err
	}

	if key, ok, _ := v.cached(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w %q", errUnknownKid, kid)
}

func (v *AppleVerifier) cached(kid string) (key *rsa.PublicKey, ok, fresh bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	key, ok = v.keys[kid]
	return key, ok, v.now().Before(v.expiresAt)
}

func (v *AppleVerifier) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAppleKeysUnavailable, err)
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAppleKeysUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: JWKS endpoint returned status %d", ErrAppleKeysUnavailable, resp.StatusCode)
	}

	var jwks AppleJWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("%w: failed to decode JWKS: %v", ErrAppleKeysUnavailable, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		if jwk.Kty != "RSA" {
			continue
		}
		pubKey, err := parseRSAPublicKey(jwk.N, jwk.E)
		if err != nil {
			continue
		}
		keys[jwk.Kid] = pubKey
	}

	v.mu.Lock()
	v.keys = keys
	v.expiresAt = v.now().Add(appleKeysTTL)
	v.mu.Unlock()
	return nil
}

func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
