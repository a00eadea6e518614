package payment

import (
	"context"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/internal/application/webhook"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// ProcessWebhookUseCase verifies and dispatches an inbound provider webhook
// delivery. Signature/timestamp verification, replay detection, and
// event-type dispatch all live behind the facade; this use case is the
// thin HTTP-facing entry point into that pipeline.
type ProcessWebhookUseCase struct {
	facade   *billing.Facade
	livemode bool
}

// NewProcessWebhookUseCase creates a new ProcessWebhookUseCase.
func NewProcessWebhookUseCase(facade *billing.Facade, livemode bool) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{facade: facade, livemode: livemode}
}

// Execute verifies and processes a raw webhook delivery for the named
// provider.
func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, providerName string, payload []byte, signatureHeader string) (webhook.DispatchResult, error) {
	logger.Info("Processing webhook event", nil)

	result, err := uc.facade.ProcessWebhook(ctx, providerName, payload, signatureHeader, uc.livemode)
	if err != nil {
		logger.Error("Failed to process webhook event", err, nil)
		return result, err
	}

	logger.Info("Webhook event processed", map[string]interface{}{
		"processed": result.Processed,
		"error":     result.Error,
	})
	return result, nil
}
