package jobs

// NamedSchedule is a human-readable cron schedule name resolving to a
// standard 5-field cron expression, consumable by robfig/cron.
type NamedSchedule string

const (
	ScheduleEveryMinute    NamedSchedule = "EVERY_MINUTE"
	ScheduleEvery5Minutes  NamedSchedule = "EVERY_5_MINUTES"
	ScheduleEvery15Minutes NamedSchedule = "EVERY_15_MINUTES"
	ScheduleEveryHour      NamedSchedule = "EVERY_HOUR"
	ScheduleDailyMidnight  NamedSchedule = "DAILY_MIDNIGHT"
	ScheduleDaily6AM       NamedSchedule = "DAILY_6AM"
	ScheduleWeeklyMonday   NamedSchedule = "WEEKLY_MONDAY"
	ScheduleMonthlyFirst   NamedSchedule = "MONTHLY_FIRST"
	ScheduleMonthlyLast    NamedSchedule = "MONTHLY_LAST"
)

// cronExpressions maps each named schedule to its robfig/cron expression.
// MONTHLY_LAST is approximated as the 28th — robfig/cron has no native
// "last day of month" field; a cleanup job firing a few days before the
// true month end is harmless for this job type.
var cronExpressions = map[NamedSchedule]string{
	ScheduleEveryMinute:    "* * * * *",
	ScheduleEvery5Minutes:  "*/5 * * * *",
	ScheduleEvery15Minutes: "*/15 * * * *",
	ScheduleEveryHour:      "0 * * * *",
	ScheduleDailyMidnight:  "0 0 * * *",
	ScheduleDaily6AM:       "0 6 * * *",
	ScheduleWeeklyMonday:   "0 0 * * 1",
	ScheduleMonthlyFirst:   "0 0 1 * *",
	ScheduleMonthlyLast:    "0 0 28 * *",
}

// CronExpression resolves a NamedSchedule to its cron expression, or "" if
// unrecognized.
func CronExpression(name NamedSchedule) string {
	return cronExpressions[name]
}

// DefaultJobSchedule pairs a job type with the named schedule the engine
// seeds it on by default.
type DefaultJobSchedule struct {
	JobType  string
	Schedule NamedSchedule
}

// DefaultSchedules is the seed recurring-job table: renewals hourly,
// retries every 15 minutes, invoice generation daily at 6AM, trial-ending
// processing daily at midnight, vendor payouts Monday midnight, cleanup
// on the first of the month. No payment-method expiry check is seeded.
var DefaultSchedules = []DefaultJobSchedule{
	{JobType: "subscription_renewal", Schedule: ScheduleEveryHour},
	{JobType: "payment_retry", Schedule: ScheduleEvery15Minutes},
	{JobType: "invoice_generation", Schedule: ScheduleDaily6AM},
	{JobType: "subscription_trial_ending", Schedule: ScheduleDailyMidnight},
	{JobType: "payout_processing", Schedule: ScheduleWeeklyMonday},
	{JobType: "cleanup", Schedule: ScheduleMonthlyFirst},
}
