package webhook

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type WebhookSecurityTestSuite struct {
	suite.Suite
	secret string
	now    time.Time
}

func (s *WebhookSecurityTestSuite) SetupTest() {
	s.secret = "whsec_test"
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *WebhookSecurityTestSuite) header(id string, ts int64) string {
	sig := ComputeSignature(s.secret, id, ts)
	return fmt.Sprintf("ts=%d,v1=%s", ts, sig)
}

func (s *WebhookSecurityTestSuite) TestVerify_ValidSignature() {
	ts := s.now.Unix()
	header := s.header("evt_1", ts)
	parsed, err := ParseSignatureHeader(header)
	s.Require().NoError(err)
	ok, err := Verify(s.secret, "evt_1", parsed, s.now, 300)
	s.NoError(err)
	s.True(ok)
}

func (s *WebhookSecurityTestSuite) TestVerify_TamperedSignatureFails() {
	ts := s.now.Unix()
	parsed := &ParsedSignature{Timestamp: ts, Hex: "deadbeef"}
	ok, err := Verify(s.secret, "evt_1", parsed, s.now, 300)
	s.NoError(err)
	s.False(ok)
}

func (s *WebhookSecurityTestSuite) TestVerify_ToleranceBoundaryInclusive() {
	ts := s.now.Add(-300 * time.Second).Unix()
	header := s.header("evt_1", ts)
	parsed, err := ParseSignatureHeader(header)
	s.Require().NoError(err)
	ok, err := Verify(s.secret, "evt_1", parsed, s.now, 300)
	s.NoError(err)
	s.True(ok)
}

func (s *WebhookSecurityTestSuite) TestVerify_PastToleranceRejected() {
	ts := s.now.Add(-301 * time.Second).Unix()
	header := s.header("evt_1", ts)
	parsed, err := ParseSignatureHeader(header)
	s.Require().NoError(err)
	_, err = Verify(s.secret, "evt_1", parsed, s.now, 300)
	s.Error(err)
}

func (s *WebhookSecurityTestSuite) TestVerify_NoSecretAlwaysPasses() {
	ts := s.now.Unix()
	parsed := &ParsedSignature{Timestamp: ts, Hex: "irrelevant"}
	ok, err := Verify("", "evt_1", parsed, s.now, 300)
	s.NoError(err)
	s.True(ok)
}

func (s *WebhookSecurityTestSuite) TestParseSignatureHeader_Malformed() {
	_, err := ParseSignatureHeader("not-a-valid-header")
	s.Error(err)
}

func (s *WebhookSecurityTestSuite) TestConstructEvent_EndToEnd() {
	body := []byte(`{"id":"evt_1","type":"payment.succeeded","data":{"id":"evt_1"}}`)
	ts := s.now.Unix()
	header := s.header("evt_1", ts)
	event, err := ConstructEvent(body, header, s.secret, s.now, 300)
	s.Require().NoError(err)
	s.Equal("evt_1", event.ID)
	s.Equal("payment.succeeded", event.Type)
}

func (s *WebhookSecurityTestSuite) TestConstructEvent_MalformedPayload() {
	ts := s.now.Unix()
	header := s.header("evt_1", ts)
	_, err := ConstructEvent([]byte(`not json`), header, s.secret, s.now, 300)
	s.Error(err)
}

func TestWebhookSecurityTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookSecurityTestSuite))
}
