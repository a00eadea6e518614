package mockprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	domainprovider "github.com/22smeargle/qzpay/internal/domain/provider"
	appwebhook "github.com/22smeargle/qzpay/internal/application/webhook"
)

type MockProviderTestSuite struct {
	suite.Suite
	provider *Provider
}

func (s *MockProviderTestSuite) SetupTest() {
	s.provider = New("whsec_test")
}

func (s *MockProviderTestSuite) attach(token string) *domainprovider.PaymentMethodOutput {
	out, err := s.provider.AttachPaymentMethod(context.Background(), domainprovider.PaymentMethodInput{
		ProviderCustomerID: "cus_mock_1",
		Token:              token,
	})
	s.Require().NoError(err)
	return out
}

func (s *MockProviderTestSuite) TestChargeSucceedsForDefaultCard() {
	pm := s.attach("4242424242424242")
	out, err := s.provider.Charge(context.Background(), domainprovider.ChargeInput{
		ProviderPaymentMethodID: pm.ProviderPaymentMethodID,
		Amount:                  1000,
		Currency:                "usd",
	})
	s.NoError(err)
	s.Equal("succeeded", out.Status)
}

func (s *MockProviderTestSuite) TestChargeDeclinedCardReportsFailureNotError() {
	pm := s.attach("4000000000000002")
	out, err := s.provider.Charge(context.Background(), domainprovider.ChargeInput{
		ProviderPaymentMethodID: pm.ProviderPaymentMethodID,
		Amount:                  1000,
		Currency:                "usd",
	})
	s.NoError(err)
	s.Equal("failed", out.Status)
	s.Equal("card_declined", out.FailureCode)
}

func (s *MockProviderTestSuite) TestAttachFailsCardRejectsAttach() {
	_, err := s.provider.AttachPaymentMethod(context.Background(), domainprovider.PaymentMethodInput{
		ProviderCustomerID: "cus_mock_1",
		Token:              "4000000000000341",
	})
	s.Error(err)
}

func (s *MockProviderTestSuite) TestUnlistedCardDefaultsToSucceeded() {
	pm := s.attach("4111111111111111")
	out, err := s.provider.Charge(context.Background(), domainprovider.ChargeInput{
		ProviderPaymentMethodID: pm.ProviderPaymentMethodID,
		Amount:                  500,
		Currency:                "usd",
	})
	s.NoError(err)
	s.Equal("succeeded", out.Status)
}

func (s *MockProviderTestSuite) TestVerifyWebhookRoundTrip() {
	now := time.Now()
	id := "evt_mock_1"
	sig := appwebhook.ComputeSignature("whsec_test", id, now.Unix())
	header := fmt.Sprintf("ts=%d,v1=%s", now.Unix(), sig)

	payload, err := json.Marshal(map[string]string{"id": id, "type": "payment.succeeded"})
	s.Require().NoError(err)

	event, err := s.provider.VerifyWebhook(context.Background(), payload, header, now)
	s.NoError(err)
	s.Equal(id, event.ProviderEventID)
	s.Equal("payment.succeeded", event.Type)
}

func (s *MockProviderTestSuite) TestVerifyWebhookRejectsBadSignature() {
	now := time.Now()
	header := fmt.Sprintf("ts=%d,v1=%s", now.Unix(), "deadbeef")
	payload, err := json.Marshal(map[string]string{"id": "evt_mock_2", "type": "payment.succeeded"})
	s.Require().NoError(err)

	_, err = s.provider.VerifyWebhook(context.Background(), payload, header, now)
	s.Error(err)
}

func TestMockProviderSuite(t *testing.T) {
	suite.Run(t, new(MockProviderTestSuite))
}
