package jobs

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/suite"
)

type ScheduleTestSuite struct {
	suite.Suite
}

func (s *ScheduleTestSuite) TestCronExpression_KnownSchedules() {
	s.Equal("0 * * * *", CronExpression(ScheduleEveryHour))
	s.Equal("0 6 * * *", CronExpression(ScheduleDaily6AM))
	s.Equal("0 0 * * 1", CronExpression(ScheduleWeeklyMonday))
	s.Equal("0 0 1 * *", CronExpression(ScheduleMonthlyFirst))
}

func (s *ScheduleTestSuite) TestCronExpression_Unknown() {
	s.Equal("", CronExpression(NamedSchedule("NOT_A_SCHEDULE")))
}

func (s *ScheduleTestSuite) TestCronExpression_AllParseableByCron() {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for name, expr := range cronExpressions {
		_, err := parser.Parse(expr)
		s.NoError(err, "schedule %s produced unparseable expression %q", name, expr)
	}
}

func (s *ScheduleTestSuite) TestDefaultSchedules_CoverCoreJobTypes() {
	byType := make(map[string]NamedSchedule)
	for _, d := range DefaultSchedules {
		byType[d.JobType] = d.Schedule
	}
	s.Equal(ScheduleEveryHour, byType["subscription_renewal"])
	s.Equal(ScheduleEvery15Minutes, byType["payment_retry"])
	s.Equal(ScheduleWeeklyMonday, byType["payout_processing"])
	s.Equal(ScheduleMonthlyFirst, byType["cleanup"])
}

func TestScheduleTestSuite(t *testing.T) {
	suite.Run(t, new(ScheduleTestSuite))
}
