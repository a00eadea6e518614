package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

type CalendarTestSuite struct {
	suite.Suite
}

func (s *CalendarTestSuite) TestAddInterval_MonthEndOfMonthClamping() {
	jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	result := AddInterval(jan31, entities.IntervalMonth, 1)
	s.Equal(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), result)
}

func (s *CalendarTestSuite) TestAddInterval_Year() {
	start := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	result := AddInterval(start, entities.IntervalYear, 1)
	s.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), result)
}

func (s *CalendarTestSuite) TestAddInterval_Day() {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	result := AddInterval(start, entities.IntervalDay, 7)
	s.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), result)
}

func TestCalendarTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarTestSuite))
}
