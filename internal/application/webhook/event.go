package webhook

import (
	"encoding/json"
	"time"

	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
)

// RawEvent is the minimal shape ConstructEvent needs to extract a stable
// identifier and an event type from an arbitrary provider payload.
type RawEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type dataID struct {
	ID string `json:"id"`
}

// ExtractID resolves the stable identifier a signature is computed over:
// data.id, falling back to the top-level id field.
func ExtractID(body []byte) (string, error) {
	var raw RawEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", qzerrors.NewMalformedWebhookError(err.Error())
	}
	if len(raw.Data) > 0 {
		var d dataID
		if err := json.Unmarshal(raw.Data, &d); err == nil && d.ID != "" {
			return d.ID, nil
		}
	}
	if raw.ID == "" {
		return "", qzerrors.NewMalformedWebhookError("payload carries no id")
	}
	return raw.ID, nil
}

// ConstructEvent composes signature verification with payload parsing:
// signature failure returns InvalidSignature, a tolerance-window breach
// returns WebhookReplayRejected (raised by Verify itself), and a parse
// failure returns MalformedWebhook.
func ConstructEvent(body []byte, signatureHeader, secret string, now time.Time, toleranceSeconds int) (*RawEvent, error) {
	sig, err := ParseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, qzerrors.NewInvalidSignatureError(err.Error())
	}
	id, err := ExtractID(body)
	if err != nil {
		return nil, err
	}
	ok, err := Verify(secret, id, sig, now, toleranceSeconds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, qzerrors.NewInvalidSignatureError("signature mismatch")
	}
	var event RawEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, qzerrors.NewMalformedWebhookError(err.Error())
	}
	return &event, nil
}
