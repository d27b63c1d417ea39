package schedule

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func visitAt(id int, value string) Visit {
	start, err := time.ParseInLocation(DateTimeLayout, value, time.Local)
	if err != nil {
		panic(err)
	}
	return Visit{ID: id, StartDateTime: start}
}

func TestSortVisitsByDateThenTime(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should bucket by date and order each bucket by start time", func(t *testing.T) {
		visits := []Visit{
			visitAt(1, "2026-03-11T09:00:00"),
			visitAt(2, "2026-03-10T18:00:00"),
			visitAt(3, "2026-03-10T07:30:00"),
			visitAt(4, "2026-03-11T06:00:00"),
		}
		sorted := SortVisitsByDateThenTime(visits)

		Expect(sorted).To(HaveLen(2))
		Expect(sorted[0].Date).To(Equal("2026-03-10"))
		Expect(sorted[0].Visits[0].ID).To(Equal(3))
		Expect(sorted[0].Visits[1].ID).To(Equal(2))
		Expect(sorted[1].Date).To(Equal("2026-03-11"))
		Expect(sorted[1].Visits[0].ID).To(Equal(4))
		Expect(sorted[1].Visits[1].ID).To(Equal(1))
	})

	t.Run("should keep input order for equal start times", func(t *testing.T) {
		visits := []Visit{
			visitAt(7, "2026-03-10T09:00:00"),
			visitAt(8, "2026-03-10T09:00:00"),
			visitAt(9, "2026-03-10T08:00:00"),
		}
		sorted := SortVisitsByDateThenTime(visits)

		Expect(sorted).To(HaveLen(1))
		Expect(sorted[0].Visits[0].ID).To(Equal(9))
		Expect(sorted[0].Visits[1].ID).To(Equal(7))
		Expect(sorted[0].Visits[2].ID).To(Equal(8))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		visits := []Visit{
			visitAt(1, "2026-03-11T09:00:00"),
			visitAt(2, "2026-03-10T18:00:00"),
			visitAt(3, "2026-03-10T07:30:00"),
		}
		once := SortVisitsByDateThenTime(visits)
		twice := SortVisitsByDateThenTime(once.Flatten())
		Expect(twice).To(Equal(once))
	})

	t.Run("should return an empty schedule for no visits", func(t *testing.T) {
		Expect(SortVisitsByDateThenTime(nil)).To(Equal(Schedule{}))
	})
}

func TestDecodeVisits(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should decode a list of visits", func(t *testing.T) {
		raw := json.RawMessage(`[
			{"Id": 1, "Name": "Yoga", "StartDateTime": "2026-03-10T09:00:00", "EndDateTime": "2026-03-10T10:00:00"},
			{"Id": 2, "Name": "Spin", "StartDateTime": "2026-03-10T11:00:00"}
		]`)
		visits, err := DecodeVisits(raw)
		Expect(err).To(BeNil())
		Expect(visits).To(HaveLen(2))
		Expect(visits[0].Name).To(Equal("Yoga"))
		Expect(visits[0].EndDateTime.Sub(visits[0].StartDateTime)).To(Equal(time.Hour))
		Expect(visits[1].EndDateTime.IsZero()).To(BeTrue())
	})

	t.Run("should normalize a single unwrapped visit", func(t *testing.T) {
		raw := json.RawMessage(`{"Id": 5, "Name": "Pilates", "StartDateTime": "2026-03-10T09:00:00"}`)
		visits, err := DecodeVisits(raw)
		Expect(err).To(BeNil())
		Expect(visits).To(HaveLen(1))
		Expect(visits[0].ID).To(Equal(5))
	})

	t.Run("should unwrap a Visit element holding a list", func(t *testing.T) {
		raw := json.RawMessage(`{"Visit": [{"Id": 6, "StartDateTime": "2026-03-10T09:00:00"}]}`)
		visits, err := DecodeVisits(raw)
		Expect(err).To(BeNil())
		Expect(visits).To(HaveLen(1))
		Expect(visits[0].ID).To(Equal(6))
	})

	t.Run("should unwrap a Visit element holding a single visit", func(t *testing.T) {
		raw := json.RawMessage(`{"Visit": {"Id": 7, "StartDateTime": "2026-03-10T09:00:00"}}`)
		visits, err := DecodeVisits(raw)
		Expect(err).To(BeNil())
		Expect(visits).To(HaveLen(1))
		Expect(visits[0].ID).To(Equal(7))
	})

	t.Run("should fail on an unreadable start time", func(t *testing.T) {
		raw := json.RawMessage(`[{"Id": 1, "StartDateTime": "tomorrow"}]`)
		_, err := DecodeVisits(raw)
		Expect(err).ToNot(BeNil())
	})
}
