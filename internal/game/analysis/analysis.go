// Package analysis derives a quality recommendation from a completed set of
// six assigned ability scores.
package analysis

import (
	"math"

	"go.uber.org/zap"
)

// checkTarget is the difficulty the heuristic measures against: the roll a
// d20 check must meet before modifiers, i.e. a DC 12 check.
const checkTarget = 12

// dieSides is the number of faces on the check die.
const dieSides = 20

// Modifier returns the ability modifier for a score: floor((score-10)/2).
// Floor, not truncation: odd scores below 10 round down.
func Modifier(score int) int {
	d := score - 10
	if d < 0 && d%2 != 0 {
		return d/2 - 1
	}
	return d / 2
}

// SuccessChance returns the percentage of d20 outcomes that pass a DC 12
// check with the given score's modifier. The result floors at zero when the
// needed roll exceeds 20; there is deliberately no upper cap, matching the
// unrestricted manual-entry behavior.
func SuccessChance(score int) float64 {
	rollNeeded := checkTarget - Modifier(score)
	outcomes := dieSides - rollNeeded + 1
	if outcomes < 0 {
		outcomes = 0
	}
	return float64(outcomes) / float64(dieSides) * 100
}

// Report is the outcome of analyzing a full set of six scores.
type Report struct {
	// TotalSum is the sum of the six scores.
	TotalSum int
	// AvgSuccess is the mean per-score success chance in percent.
	AvgSuccess float64
	// TierID identifies the matched recommendation tier.
	TierID string
	// Message is the tier's descriptive recommendation text.
	Message string
}

// AvgSuccessDisplay returns AvgSuccess rounded to the nearest integer for
// presentation.
func (r Report) AvgSuccessDisplay() int {
	return int(math.Round(r.AvgSuccess))
}

// Recommender can override the tier chosen by the threshold table. It
// returns a tier ID and true to override, or false to keep the table's pick.
type Recommender func(totalSum int, avgSuccess float64) (string, bool)

// Engine evaluates completed score sets against a tier table.
type Engine struct {
	tiers       []Tier
	logger      *zap.Logger
	recommender Recommender
}

// NewEngine creates an Engine with the given tier table.
//
// Precondition: tiers must pass ValidateTiers. A nil logger disables logging.
// Postcondition: returns a ready Engine or a non-nil error.
func NewEngine(tiers []Tier, logger *zap.Logger) (*Engine, error) {
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tiers: tiers, logger: logger}, nil
}

// SetRecommender installs an optional tier override hook.
func (e *Engine) SetRecommender(r Recommender) {
	e.recommender = r
}

// Analyze computes the report for exactly six scores. It is a deterministic
// pure function of the six sums and has no error conditions.
//
// Precondition: callers must only invoke this once all six slots are filled
// and the tray is empty.
func (e *Engine) Analyze(scores [6]int) Report {
	total := 0
	chanceSum := 0.0
	for _, s := range scores {
		total += s
		chanceSum += SuccessChance(s)
	}
	avg := chanceSum / float64(len(scores))

	tier := e.tierFor(avg)
	if e.recommender != nil {
		if id, ok := e.recommender(total, avg); ok {
			if override, found := e.tier(id); found {
				tier = override
			} else {
				e.logger.Warn("recommender returned unknown tier, keeping table pick",
					zap.String("tier", id),
				)
			}
		}
	}

	report := Report{
		TotalSum:   total,
		AvgSuccess: avg,
		TierID:     tier.ID,
		Message:    tier.Message,
	}
	e.logger.Debug("score set analyzed",
		zap.Int("total", report.TotalSum),
		zap.Float64("avg_success", report.AvgSuccess),
		zap.String("tier", report.TierID),
	)
	return report
}

// tierFor returns the first tier whose threshold avg meets, falling back to
// the last (lowest) tier.
func (e *Engine) tierFor(avg float64) Tier {
	for _, t := range e.tiers {
		if avg >= t.Threshold {
			return t
		}
	}
	return e.tiers[len(e.tiers)-1]
}

// tier looks up a tier by ID.
func (e *Engine) tier(id string) (Tier, bool) {
	for _, t := range e.tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}
