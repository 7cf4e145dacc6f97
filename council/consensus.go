package council

import "math"

const consensusWindow = 3

// ConsensusLevel buckets a consensus score for display.
type ConsensusLevel int

const (
	ConsensusUnknown ConsensusLevel = iota
	ConsensusWeak
	ConsensusModerate
	ConsensusStrong
)

// ConsensusScore averages the last three non-zero confidences, rounding
// halves up. The second result is false when no confidence is available.
// Zero is treated as "no confidence", so failed turns do not drag the score.
func ConsensusScore(confidences []int) (int, bool) {
	recent := make([]int, 0, consensusWindow)
	for i := len(confidences) - 1; i >= 0 && len(recent) < consensusWindow; i-- {
		if confidences[i] != 0 {
			recent = append(recent, confidences[i])
		}
	}
	if len(recent) == 0 {
		return 0, false
	}

	total := 0
	for _, c := range recent {
		total += c
	}
	avg := float64(total) / float64(len(recent))
	return int(math.Floor(avg + 0.5)), true
}

// LevelFor classifies a score: above 75 is strong, above 50 moderate.
func LevelFor(score int, ok bool) ConsensusLevel {
	switch {
	case !ok:
		return ConsensusUnknown
	case score > 75:
		return ConsensusStrong
	case score > 50:
		return ConsensusModerate
	default:
		return ConsensusWeak
	}
}

func (l ConsensusLevel) String() string {
	switch l {
	case ConsensusStrong:
		return "strong"
	case ConsensusModerate:
		return "moderate"
	case ConsensusWeak:
		return "weak"
	default:
		return "unknown"
	}
}

// ClampPercent bounds a score to 0..100 for sizing progress bars. Stored
// and displayed scores are never clamped.
func ClampPercent(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
