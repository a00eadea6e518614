package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type EventsTestSuite struct {
	suite.Suite
}

func (s *EventsTestSuite) TestOn_ReceivesEveryEvent() {
	e := NewEmitter()
	var received []string
	e.On(EventCustomerCreated, func(evt Event) {
		received = append(received, evt.Type)
	})
	e.Emit(Event{Type: EventCustomerCreated, Timestamp: time.Now()})
	e.Emit(Event{Type: EventCustomerCreated, Timestamp: time.Now()})
	s.Equal([]string{EventCustomerCreated, EventCustomerCreated}, received)
}

func (s *EventsTestSuite) TestOnce_FiresOnlyOnce() {
	e := NewEmitter()
	count := 0
	e.Once(EventPaymentSucceeded, func(evt Event) {
		count++
	})
	e.Emit(Event{Type: EventPaymentSucceeded})
	e.Emit(Event{Type: EventPaymentSucceeded})
	e.Emit(Event{Type: EventPaymentSucceeded})
	s.Equal(1, count)
}

func (s *EventsTestSuite) TestUnsubscribe_StopsDelivery() {
	e := NewEmitter()
	count := 0
	unsub := e.On(EventInvoicePaid, func(evt Event) {
		count++
	})
	e.Emit(Event{Type: EventInvoicePaid})
	unsub()
	e.Emit(Event{Type: EventInvoicePaid})
	s.Equal(1, count)
}

func (s *EventsTestSuite) TestDifferentEventTypesDontCrossDeliver() {
	e := NewEmitter()
	var gotA, gotB int
	e.On("a", func(evt Event) { gotA++ })
	e.On("b", func(evt Event) { gotB++ })
	e.Emit(Event{Type: "a"})
	s.Equal(1, gotA)
	s.Equal(0, gotB)
}

func (s *EventsTestSuite) TestTeardown_SilencesFurtherEmits() {
	e := NewEmitter()
	count := 0
	e.On(EventWebhookReceived, func(evt Event) { count++ })
	e.Teardown()
	e.Emit(Event{Type: EventWebhookReceived})
	s.Equal(0, count)
}

func TestEventsTestSuite(t *testing.T) {
	suite.Run(t, new(EventsTestSuite))
}
