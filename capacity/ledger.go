// Package capacity accounts a responsible party's committed daily time
// against their contracted hours.
//
// All quantities are integer milliseconds. Contracted hours are converted to
// milliseconds once per query; committed time is summed as integers only.
package capacity

import (
	"math"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/period"
)

// MillisPerHour converts contracted hours into milliseconds.
const MillisPerHour int64 = 3_600_000

// Commitment is one existing or candidate allocation. DailyQuantityMs is a
// per-day rate: over N dates it commits DailyQuantityMs * N.
type Commitment struct {
	ID              uuid.UUID
	ResponsibleID   string
	Period          period.Spec
	DailyQuantityMs int64
}

// NewCommitment returns a commitment with a fresh identity.
func NewCommitment(responsibleID string, p period.Spec, dailyQuantityMs int64) Commitment {
	return Commitment{
		ID:              uuid.New(),
		ResponsibleID:   responsibleID,
		Period:          p,
		DailyQuantityMs: dailyQuantityMs,
	}
}

// Query asks how much time a responsible party has left over a period.
// A None ContractedDailyHours means the contract is unknown.
type Query struct {
	ResponsibleID        string
	Period               period.Spec
	ContractedDailyHours mo.Option[float64]
}

// Contribution is the share of one commitment inside the queried period.
type Contribution struct {
	ID          uuid.UUID
	SharedDays  int
	CommittedMs int64
}

// Summary is the full breakdown behind AvailableTime.
type Summary struct {
	// Days is the number of dates the queried period resolves to.
	Days          int
	ContractedMs  int64
	CommittedMs   int64
	AvailableMs   int64
	Contributions []Contribution
}

// Exceeded reports whether the responsible party is over-committed.
func (s Summary) Exceeded() bool {
	return s.AvailableMs < 0
}

// AvailableTime returns contracted minus committed time over the query's
// period, in milliseconds. The result is signed: negative means
// over-commitment. It is 0 when the period is empty or the contract is
// unknown or non-positive. The commitment whose ID equals excluding, if any,
// is left out; use it when re-checking a commitment being edited.
func AvailableTime(q Query, existing []Commitment, excluding mo.Option[uuid.UUID], holidays calendar.Set) int64 {
	return Evaluate(q, existing, excluding, holidays).AvailableMs
}

// Evaluate is AvailableTime with the per-commitment breakdown.
func Evaluate(q Query, existing []Commitment, excluding mo.Option[uuid.UUID], holidays calendar.Set) Summary {
	dates := period.Resolve(q.Period, holidays)
	hours, known := q.ContractedDailyHours.Get()
	if dates.Len() == 0 || !known || hours <= 0 {
		return Summary{Days: dates.Len()}
	}

	s := Summary{
		Days:         dates.Len(),
		ContractedMs: DailyMillis(hours) * int64(dates.Len()),
	}

	skip, hasSkip := excluding.Get()
	for _, c := range existing {
		if c.ResponsibleID != q.ResponsibleID || (hasSkip && c.ID == skip) {
			continue
		}
		shared := period.Resolve(c.Period, holidays).Intersect(dates).Len()
		if shared == 0 {
			continue
		}
		committed := c.DailyQuantityMs * int64(shared)
		s.CommittedMs += committed
		s.Contributions = append(s.Contributions, Contribution{
			ID:          c.ID,
			SharedDays:  shared,
			CommittedMs: committed,
		})
	}

	s.AvailableMs = s.ContractedMs - s.CommittedMs
	return s
}

// DailyMillis converts contracted hours per day into milliseconds, rounded to
// the nearest millisecond.
func DailyMillis(hours float64) int64 {
	return int64(math.Round(hours * float64(MillisPerHour)))
}

// CheckDailyAllocation sums the per-day quanta of the tasks of one assignment and
// compares them to the contracted daily hours. A positive result is the
// amount by which a single day is over-allocated. The second result is false
// when the contract is unknown.
func CheckDailyAllocation(contractedDailyHours mo.Option[float64], dailyQuantaMs ...int64) (int64, bool) {
	hours, ok := contractedDailyHours.Get()
	if !ok {
		return 0, false
	}
	var total int64
	for _, q := range dailyQuantaMs {
		total += q
	}
	return total - DailyMillis(hours), true
}
