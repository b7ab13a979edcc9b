package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// GenerateSignature creates HMAC-SHA256 signature
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature validates HMAC-SHA256 signature
func VerifySignature(payload []byte, signature, secret string) bool {
	expected := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// VerifyStripeSignature validates a Stripe-style signature header of the form
// "t=<unix>,v1=<hex>[,v1=<hex>...]". The signed payload is "<t>.<body>". The
// timestamp must be within tolerance of now to limit replay.
func VerifyStripeSignature(payload []byte, header, secret string, tolerance time.Duration) bool {
	var ts string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			candidates = append(candidates, kv[1])
		}
	}
	if ts == "" || len(candidates) == 0 {
		return false
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	if d := time.Since(time.Unix(unix, 0)); d > tolerance || d < -tolerance {
		return false
	}

	signed := append([]byte(ts+"."), payload...)
	expected := GenerateSignature(signed, secret)
	for _, sig := range candidates {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return true
		}
	}
	return false
}
