// Package webhook implements webhook/IPN signature verification and a
// type-keyed handler registry with idempotent dispatch.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
)

// DefaultTimestampToleranceSeconds is the default replay-protection window
// when the caller doesn't specify one.
const DefaultTimestampToleranceSeconds = 300

// ParsedSignature is the decomposed `ts=<unix>,v1=<hex>` header value.
type ParsedSignature struct {
	Timestamp int64
	Hex       string
}

// ParseSignatureHeader parses a "ts=<unix seconds>,v1=<hex>" header value.
func ParseSignatureHeader(header string) (*ParsedSignature, error) {
	parts := strings.Split(header, ",")
	var ts int64
	var hexVal string
	var haveTS, haveV1 bool
	for _, part := range parts {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			v, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return nil, qzerrors.NewValidationError("signature", "malformed ts field")
			}
			ts = v
			haveTS = true
		case "v1":
			hexVal = kv[1]
			haveV1 = true
		}
	}
	if !haveTS || !haveV1 || hexVal == "" {
		return nil, qzerrors.NewValidationError("signature", "missing ts or v1 field")
	}
	return &ParsedSignature{Timestamp: ts, Hex: hexVal}, nil
}

// CanonicalString builds the string HMAC-signed by the provider.
func CanonicalString(id string, ts int64) string {
	tsStr := strconv.FormatInt(ts, 10)
	return "id:" + id + ";request-id:" + tsStr + ";ts:" + tsStr + ";"
}

// ComputeSignature returns the hex HMAC-SHA256 of CanonicalString(id, ts)
// keyed by secret.
func ComputeSignature(secret string, id string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(CanonicalString(id, ts)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a parsed signature against secret/id/now per §4.7's
// verification steps. An empty secret always verifies true — a deliberate
// development-mode escape hatch; production configuration must supply a
// secret.
func Verify(secret, id string, sig *ParsedSignature, now time.Time, toleranceSeconds int) (bool, error) {
	if toleranceSeconds <= 0 {
		toleranceSeconds = DefaultTimestampToleranceSeconds
	}
	age := now.Unix() - sig.Timestamp
	if age < 0 {
		age = -age
	}
	if age > int64(toleranceSeconds) {
		return false, qzerrors.NewWebhookReplayRejectedError("timestamp outside tolerance window")
	}
	if secret == "" {
		return true, nil
	}
	expected := ComputeSignature(secret, id, sig.Timestamp)
	return hmac.Equal([]byte(expected), []byte(sig.Hex)), nil
}
