package seasonal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"
)

var ErrUnknownRegion = errors.New("unknown holiday region")

// The holiday library ships no India calendar, so the fixed-date national
// holidays are defined here. Movable festivals (Diwali, Holi, Eid) follow
// lunar calendars the library cannot compute and are left out.
var indiaHolidays = []*cal.Holiday{
	{
		Name:  "Republic Day",
		Type:  cal.ObservancePublic,
		Month: time.January,
		Day:   26,
		Func:  cal.CalcDayOfMonth,
	},
	{
		Name:  "Independence Day",
		Type:  cal.ObservancePublic,
		Month: time.August,
		Day:   15,
		Func:  cal.CalcDayOfMonth,
	},
	{
		Name:  "Gandhi Jayanti",
		Type:  cal.ObservancePublic,
		Month: time.October,
		Day:   2,
		Func:  cal.CalcDayOfMonth,
	},
	{
		Name:  "Christmas Day",
		Type:  cal.ObservancePublic,
		Month: time.December,
		Day:   25,
		Func:  cal.CalcDayOfMonth,
	},
}

// Region is a supported holiday calendar region code.
type Region string

const (
	RegionIndia         Region = "IN"
	RegionUnitedStates  Region = "US"
	RegionUnitedKingdom Region = "UK"
	RegionAustralia     Region = "AU"
)

// Regions lists the supported holiday calendar regions.
func Regions() []Region {
	return []Region{RegionIndia, RegionUnitedStates, RegionUnitedKingdom, RegionAustralia}
}

// ParseRegion maps a region code to one of the supported calendars.
func ParseRegion(s string) (Region, error) {
	region := Region(strings.ToUpper(s))
	for _, r := range Regions() {
		if region == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w, %q", ErrUnknownRegion, s)
}

func regionHolidays(region Region) ([]*cal.Holiday, error) {
	switch region {
	case RegionIndia:
		return indiaHolidays, nil
	case RegionUnitedStates:
		return us.Holidays, nil
	case RegionUnitedKingdom:
		return gb.Holidays, nil
	case RegionAustralia:
		// the library only ships per-state lists; NSW carries every
		// national holiday
		return au.HolidaysNSW, nil
	}
	return nil, fmt.Errorf("%w, %q", ErrUnknownRegion, region)
}

// holidayDates returns the observed dates of every holiday in the region
// calendar grouped by holiday name, covering the years spanned by [start, end].
func holidayDates(region Region, start, end time.Time) (map[string][]time.Time, error) {
	hols, err := regionHolidays(region)
	if err != nil {
		return nil, err
	}

	dates := make(map[string][]time.Time)
	for _, hol := range hols {
		name := hol.Name
		for year := start.Year(); year <= end.Year(); year++ {
			_, observed := hol.Calc(year)
			if observed.IsZero() || observed.Before(start.AddDate(0, 0, -1)) || observed.After(end.AddDate(0, 0, 1)) {
				continue
			}
			dates[name] = append(dates[name], observed)
		}
	}
	return dates, nil
}

// sameDay reports whether two times fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
