package kucoin

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderAPIKey        = "KC-API-KEY"
	HeaderAPISign       = "KC-API-SIGN"
	HeaderAPITimestamp  = "KC-API-TIMESTAMP"
	HeaderAPIPassphrase = "KC-API-PASSPHRASE"
	HeaderAPIKeyVersion = "KC-API-KEY-VERSION"

	apiKeyVersion = "2"
)

// Signer produces the KC-API-* authentication headers for private endpoints.
type Signer struct {
	apiKey     string
	apiSecret  string
	passphrase string
	now        func() time.Time
}

// NewSigner signs the passphrase once with the secret; the result is reused
// for every request. Empty credentials are accepted and only logged.
func NewSigner(apiKey, apiSecret, apiPassphrase string) *Signer {
	if apiKey == "" || apiSecret == "" || apiPassphrase == "" {
		slog.Warn("kucoin credentials incomplete, private endpoints will reject requests")
	}
	s := &Signer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
	s.passphrase = s.sign(apiPassphrase)
	return s
}

// Signature returns base64(HMAC-SHA256(secret, timestamp+METHOD+endpoint+body)).
func (s *Signer) Signature(timestamp, method, endpoint, body string) string {
	return s.sign(timestamp + strings.ToUpper(method) + endpoint + body)
}

// Headers builds the header set for one request. endpoint must include the
// query string, if any.
func (s *Signer) Headers(method, endpoint, body string) map[string]string {
	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	return map[string]string{
		HeaderAPIKey:        s.apiKey,
		HeaderAPISign:       s.Signature(timestamp, method, endpoint, body),
		HeaderAPITimestamp:  timestamp,
		HeaderAPIPassphrase: s.passphrase,
		HeaderAPIKeyVersion: apiKeyVersion,
		"Content-Type":      "application/json",
	}
}

func (s *Signer) sign(plain string) string {
	mac := hmac.New(sha256.New, []byte(s.apiSecret))
	_, _ = mac.Write([]byte(plain))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
