// internal/app/backoff.go
package app

import "time"

// MaxSleepInterval is where the ladder saturates.
const MaxSleepInterval = 24 * time.Hour

// Step is one rung of the backoff ladder.
type Step struct {
	From time.Duration
	To   time.Duration
}

// ladder is ordered; NextInterval falls back to MaxSleepInterval for anything not listed.
var ladder = []Step{
	{0, 5 * time.Minute},
	{5 * time.Minute, 10 * time.Minute},
	{10 * time.Minute, 15 * time.Minute},
	{15 * time.Minute, 30 * time.Minute},
	{30 * time.Minute, 1 * time.Hour},
	{1 * time.Hour, 2 * time.Hour},
	{2 * time.Hour, 4 * time.Hour},
	{4 * time.Hour, 8 * time.Hour},
	{8 * time.Hour, 12 * time.Hour},
}

// NextInterval maps the current sleep interval to the next one.
// Unknown values, including the maximum itself, map to MaxSleepInterval.
func NextInterval(current time.Duration) time.Duration {
	for _, step := range ladder {
		if step.From == current {
			return step.To
		}
	}
	return MaxSleepInterval
}

// Ladder returns a copy of the backoff table, including the saturating last step.
func Ladder() []Step {
	steps := make([]Step, 0, len(ladder)+1)
	steps = append(steps, ladder...)
	steps = append(steps, Step{From: ladder[len(ladder)-1].To, To: MaxSleepInterval})
	return steps
}
