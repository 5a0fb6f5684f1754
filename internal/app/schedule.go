package app

import "DomainWatch/config"

// Schedule decides on which days before expiry a domain is reported: every
// milestone in SpecificDays, plus every day from DailyWindow down to 0.
type Schedule struct {
	SpecificDays []int
	DailyWindow  int
}

func NewSchedule(cfg config.Schedule) Schedule {
	days := make([]int, len(cfg.SpecificDays))
	copy(days, cfg.SpecificDays)
	return Schedule{SpecificDays: days, DailyWindow: cfg.DailyWindow}
}

// ShouldNotify reports whether daysLeft is a milestone or inside the daily
// window. Expired domains (negative days) only match an explicit negative milestone.
func (s Schedule) ShouldNotify(daysLeft int) bool {
	for _, d := range s.SpecificDays {
		if d == daysLeft {
			return true
		}
	}
	return daysLeft >= 0 && daysLeft <= s.DailyWindow
}
