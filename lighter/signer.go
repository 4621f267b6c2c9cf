package lighter

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// authTokenTTL is how long an issued auth token stays valid. Tokens are
// reissued with this margin remaining so in-flight requests never carry an
// expired token.
const (
	authTokenTTL    = 10 * time.Minute
	authTokenMargin = 1 * time.Minute
)

// signer issues short-lived auth tokens for read endpoints and signs
// transaction payloads for the send-tx endpoint. Tokens are cached and
// reissued lazily near expiry. Safe for concurrent use.
type signer struct {
	accountIndex int64
	apiKeyIndex  int
	key          []byte

	mu         sync.Mutex
	token      string
	tokenUntil time.Time
}

func newSigner(accountIndex int64, apiKeyIndex int, privateKey string) (*signer, error) {
	raw := strings.TrimPrefix(privateKey, "0x")
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("lighter: decode api private key: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("lighter: api private key is empty")
	}
	return &signer{
		accountIndex: accountIndex,
		apiKeyIndex:  apiKeyIndex,
		key:          key,
	}, nil
}

// authToken returns a valid auth token, reissuing when the cached one is
// within the reissue margin of expiry.
func (s *signer) authToken(now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && now.Before(s.tokenUntil.Add(-authTokenMargin)) {
		return s.token, nil
	}

	expiry := now.Add(authTokenTTL)
	claims := jwt.MapClaims{
		"account_index": s.accountIndex,
		"api_key_index": s.apiKeyIndex,
		"iat":           now.Unix(),
		"exp":           expiry.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("lighter: sign auth token: %w", err)
	}

	s.token = token
	s.tokenUntil = expiry
	return token, nil
}

// signPayload returns the hex signature for a canonical transaction payload.
func (s *signer) signPayload(payload []byte) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
