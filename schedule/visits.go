package schedule

import (
	"encoding/json"
	"sort"
	"time"
)

// DateTimeLayout is the zoneless timestamp format the membership platform
// uses for schedule items.
const DateTimeLayout = "2006-01-02T15:04:05"

const dayLayout = "2006-01-02"

// Visit is one attended or booked class instance.
type Visit struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	StaffName     string    `json:"staffName"`
	LocationID    int       `json:"locationId"`
	SignedIn      bool      `json:"signedIn"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
}

type visitPayload struct {
	ID            int    `json:"Id"`
	Name          string `json:"Name"`
	StaffName     string `json:"StaffName"`
	LocationID    int    `json:"LocationId"`
	SignedIn      bool   `json:"SignedIn"`
	StartDateTime string `json:"StartDateTime"`
	EndDateTime   string `json:"EndDateTime"`
}

// DayVisits is one date bucket, visits ordered by start time ascending.
type DayVisits struct {
	Date   string  `json:"date"`
	Visits []Visit `json:"visits"`
}

// Schedule is the full bucket mapping, dates ascending.
type Schedule []DayVisits

// DecodeVisits accepts the platform's two shapes for the Visits element:
// a list of visit objects, or a single unwrapped visit object when the
// client has exactly one. Either way the result is a flat visit slice.
func DecodeVisits(raw json.RawMessage) ([]Visit, error) {
	wrapper := struct {
		Visit json.RawMessage `json:"Visit"`
	}{}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Visit) > 0 {
		raw = wrapper.Visit
	}

	payloads := []visitPayload{}
	if err := json.Unmarshal(raw, &payloads); err != nil {
		single := visitPayload{}
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		payloads = []visitPayload{single}
	}

	visits := make([]Visit, 0, len(payloads))
	for _, p := range payloads {
		start, err := time.ParseInLocation(DateTimeLayout, p.StartDateTime, time.Local)
		if err != nil {
			return nil, err
		}
		visit := Visit{
			ID:            p.ID,
			Name:          p.Name,
			StaffName:     p.StaffName,
			LocationID:    p.LocationID,
			SignedIn:      p.SignedIn,
			StartDateTime: start,
		}
		if p.EndDateTime != "" {
			end, err := time.ParseInLocation(DateTimeLayout, p.EndDateTime, time.Local)
			if err != nil {
				return nil, err
			}
			visit.EndDateTime = end
		}
		visits = append(visits, visit)
	}
	return visits, nil
}

// SortVisitsByDateThenTime buckets visits per calendar day, orders buckets
// by date ascending, and orders each bucket by start time ascending. Equal
// start times keep their relative input order.
func SortVisitsByDateThenTime(visits []Visit) Schedule {
	byDate := map[string][]Visit{}
	dates := []string{}
	for _, visit := range visits {
		day := visit.StartDateTime.Format(dayLayout)
		if _, seen := byDate[day]; !seen {
			dates = append(dates, day)
		}
		byDate[day] = append(byDate[day], visit)
	}
	sort.Strings(dates)

	result := make(Schedule, 0, len(dates))
	for _, day := range dates {
		bucket := byDate[day]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].StartDateTime.Before(bucket[j].StartDateTime)
		})
		result = append(result, DayVisits{Date: day, Visits: bucket})
	}
	return result
}

// Flatten returns the schedule's visits in bucket order.
func (s Schedule) Flatten() []Visit {
	visits := []Visit{}
	for _, day := range s {
		visits = append(visits, day.Visits...)
	}
	return visits
}
