package schedule

import (
	"bedcall/config"
	"bedcall/shared/constant"
	"bedcall/shared/timezone"
	"bedcall/shared/validator"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

var ErrNoUpcomingEvent = errors.New("event rule yields no upcoming date")

// Occasion marks a date, or a recurring set of dates, on which special-frequency hosts are also called.
type Occasion struct {
	Name  string `yaml:"name"  validate:"required"`
	Date  string `yaml:"date"  validate:"omitempty,datetime=2006-01-02"`
	RRule string `yaml:"rrule" validate:"required_without=Date"`
}

type Calendar struct {
	Occasions []Occasion `yaml:"occasions" validate:"dive"`
}

// LoadCalendar reads a yaml calendar. An empty path yields an empty calendar.
func LoadCalendar(path string) (*Calendar, error) {
	if path == "" {
		return &Calendar{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}

	return ParseCalendar(data)
}

func ParseCalendar(data []byte) (*Calendar, error) {
	var calendar Calendar
	if err := yaml.Unmarshal(data, &calendar); err != nil {
		return nil, fmt.Errorf("failed to parse calendar file: %w", err)
	}

	if err := validator.ValidateStruct(&calendar); err != nil {
		return nil, fmt.Errorf("calendar validation failed: %w", err)
	}

	for i, occasion := range calendar.Occasions {
		if occasion.RRule == "" {
			continue
		}

		if _, err := rrule.StrToRRule(occasion.RRule); err != nil {
			return nil, fmt.Errorf("invalid rrule in occasions[%d]: %w", i, err)
		}
	}

	return &calendar, nil
}

// Match returns the occasion falling on date's calendar day, if any.
func (c *Calendar) Match(date time.Time) (Occasion, bool) {
	day := timezone.StartOfDay(date)
	dayStr := timezone.Format(day, constant.DateOnlyFormat)

	for _, occasion := range c.Occasions {
		if occasion.Date != "" && occasion.Date == dayStr {
			return occasion, true
		}

		if occasion.RRule == "" {
			continue
		}

		rule, err := rrule.StrToRRule(occasion.RRule)
		if err != nil {
			continue
		}

		// start a year back so yearly rules have an occurrence inside the window
		rule.DTStart(day.AddDate(-1, 0, 0))

		if len(rule.Between(day, day.AddDate(0, 0, 1).Add(-time.Second), true)) > 0 {
			return occasion, true
		}
	}

	return Occasion{}, false
}

// Event is the next date a campaign should run for.
type Event struct {
	Date      time.Time
	IsSpecial bool
	Occasion  string
}

type Planner interface {
	Next(after time.Time) (Event, error)
}

type plannerImpl struct {
	rule     string
	calendar *Calendar
}

// NewPlanner validates the configured event rule and loads the calendar file.
func NewPlanner(cfg *config.Config) (Planner, error) {
	if _, err := rrule.StrToRRule(cfg.Schedule.EventRule); err != nil {
		return nil, fmt.Errorf("invalid event rule: %w", err)
	}

	calendar, err := LoadCalendar(cfg.Schedule.CalendarFile)
	if err != nil {
		return nil, err
	}

	return NewPlannerWithCalendar(cfg.Schedule.EventRule, calendar), nil
}

func NewPlannerWithCalendar(rule string, calendar *Calendar) Planner {
	if calendar == nil {
		calendar = &Calendar{}
	}

	return &plannerImpl{rule: rule, calendar: calendar}
}

// Next returns the first occurrence strictly after the calendar day of after.
func (p *plannerImpl) Next(after time.Time) (Event, error) {
	rule, err := rrule.StrToRRule(p.rule)
	if err != nil {
		return Event{}, fmt.Errorf("invalid event rule: %w", err)
	}

	day := timezone.StartOfDay(after)
	rule.DTStart(day)

	next := rule.After(day, false)
	if next.IsZero() {
		return Event{}, ErrNoUpcomingEvent
	}

	event := Event{Date: timezone.StartOfDay(next)}
	if occasion, ok := p.calendar.Match(event.Date); ok {
		event.IsSpecial = true
		event.Occasion = occasion.Name
	}

	return event, nil
}
