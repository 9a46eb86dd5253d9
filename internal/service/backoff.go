package service

import (
	"math"
	"math/rand"
	"time"
)

// BackoffSituation selects which retry schedule applies between reservation
// attempts.
type BackoffSituation int

const (
	// BackoffGenerationRequested: this caller just triggered generation, and
	// real downstream work has to happen before a token can appear.
	BackoffGenerationRequested BackoffSituation = iota
	// BackoffGenerationInProgress: another caller already triggered
	// generation; we only need to outlast its wait.
	BackoffGenerationInProgress
	// BackoffTemporarilyUnavailable: queue looked stocked but the pop lost a
	// race; tokens should reappear almost immediately.
	BackoffTemporarilyUnavailable
	// BackoffError: the reservation step itself failed.
	BackoffError
)

type backoffSchedule struct {
	base   time.Duration
	growth float64
	jitter time.Duration
}

var backoffSchedules = map[BackoffSituation]backoffSchedule{
	BackoffGenerationRequested:    {base: 2 * time.Second, growth: 1.5, jitter: time.Second},
	BackoffGenerationInProgress:   {base: 500 * time.Millisecond, growth: 1.2, jitter: 500 * time.Millisecond},
	BackoffTemporarilyUnavailable: {base: 100 * time.Millisecond, growth: 2, jitter: 200 * time.Millisecond},
	BackoffError:                  {base: time.Second, growth: 2, jitter: time.Second},
}

// BackoffDelay maps (situation, attempt) to a wait duration. Attempt is
// 0-based. The result is base*growth^attempt plus uniform jitter in
// [0, schedule.jitter).
func BackoffDelay(situation BackoffSituation, attempt int) time.Duration {
	schedule, ok := backoffSchedules[situation]
	if !ok {
		schedule = backoffSchedules[BackoffError]
	}
	if attempt < 0 {
		attempt = 0
	}
	delay := time.Duration(float64(schedule.base) * math.Pow(schedule.growth, float64(attempt)))
	if schedule.jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(schedule.jitter)))
	}
	return delay
}

// backoffSituationFor maps a non-success reservation status to its schedule.
// The bool is false for statuses outside the defined set.
func backoffSituationFor(status ReservationStatus) (BackoffSituation, bool) {
	switch status {
	case ReservationGenerationRequested:
		return BackoffGenerationRequested, true
	case ReservationGenerationInProgress:
		return BackoffGenerationInProgress, true
	case ReservationTemporarilyUnavailable:
		return BackoffTemporarilyUnavailable, true
	default:
		return 0, false
	}
}
