package planner

import (
	"math"
	"math/rand"
	"time"

	"github.com/planwise/planwise-api/internal/models"
)

// Simulated-annealing parameters.
const (
	initialTemperature       = 100.0
	minTemperature           = 0.1
	coolingRate              = 0.95
	iterationsPerTemperature = 50
)

// DefaultActivityDuration is assumed for candidates without explicit
// timestamps.
const DefaultActivityDuration = 2 * time.Hour

// Planner drives one optimization run. It holds the injected random
// source, so two planners seeded identically produce identical plans.
// A Planner is not safe for concurrent use; give each run its own.
type Planner struct {
	rng             *rand.Rand
	defaultDuration time.Duration
}

// Option customises a Planner.
type Option func(*Planner)

// WithDefaultDuration overrides the duration assumed for candidates
// without explicit timestamps.
func WithDefaultDuration(d time.Duration) Option {
	return func(p *Planner) {
		if d > 0 {
			p.defaultDuration = d
		}
	}
}

// New constructs a Planner around the provided random source. A nil
// source gets a time-seeded one, which changes no observable behavior
// beyond reproducibility.
func New(rng *rand.Rand, opts ...Option) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p := &Planner{rng: rng, defaultDuration: DefaultActivityDuration}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GeneratePlan builds an initial greedy schedule for the candidates and
// refines it by simulated annealing against the fixed activities and the
// owner's constraints. The inputs are never mutated; the returned
// schedule is an independent copy.
func (p *Planner) GeneratePlan(
	candidates []models.Activity,
	fixed []models.Activity,
	weekly []models.WeeklyConstraint,
	blocked []models.BlockedPeriod,
	windowStart, windowEnd time.Time,
) Schedule {
	if len(candidates) == 0 {
		return Schedule{}
	}

	current := p.buildInitial(candidates, windowStart, windowEnd, fixed, weekly, blocked)
	currentCost := Cost(current, fixed, weekly, blocked)

	best := current.Clone()
	bestCost := currentCost

	for temperature := initialTemperature; temperature > minTemperature; temperature *= coolingRate {
		for i := 0; i < iterationsPerTemperature; i++ {
			candidate := p.neighbor(current, windowStart, windowEnd)
			candidateCost := Cost(candidate, fixed, weekly, blocked)

			delta := candidateCost - currentCost
			if delta < 0 || math.Exp(-delta/temperature) > p.rng.Float64() {
				current = candidate
				currentCost = candidateCost

				if currentCost < bestCost {
					best = current.Clone()
					bestCost = currentCost
				}
			}
		}
	}

	return best
}
