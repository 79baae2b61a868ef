package ranking

import "fmt"

// Archetype classifies a performance by its accuracy and speed.
type Archetype string

const (
	PerfectFast    Archetype = "perfect_fast"
	PerfectNormal  Archetype = "perfect_normal"
	PerfectSlow    Archetype = "perfect_slow"
	AccurateFast   Archetype = "accurate_fast"
	AccurateNormal Archetype = "accurate_normal"
	AccurateSlow   Archetype = "accurate_slow"
	BalancedFast   Archetype = "balanced_fast"
	BalancedNormal Archetype = "balanced_normal"
	SpeedFocused   Archetype = "speed_focused"
	Developing     Archetype = "developing"
	Beginner       Archetype = "beginner"
)

var rankPhrases = map[string]string{
	"SSS": "Legendary",
	"SS":  "Transcendent",
	"S":   "Masterful",
	"A+":  "Excellent",
	"A":   "Expert",
	"A-":  "Advanced",
	"B+":  "Intermediate",
	"B":   "Standard",
	"B-":  "Ordinary",
	"C+":  "Apprentice",
	"C":   "Novice",
	"C-":  "Fledgling",
	"D":   "Entry-level",
}

// ArchetypeOf classifies accuracy and wpm. Accuracy bands are checked first.
func ArchetypeOf(accuracy float64, wpm int) Archetype {
	switch {
	case accuracy == 100:
		switch {
		case wpm >= 80:
			return PerfectFast
		case wpm >= 40:
			return PerfectNormal
		default:
			return PerfectSlow
		}
	case accuracy >= 95:
		switch {
		case wpm >= 60:
			return AccurateFast
		case wpm >= 30:
			return AccurateNormal
		default:
			return AccurateSlow
		}
	case accuracy >= 80:
		if wpm >= 60 {
			return BalancedFast
		}
		return BalancedNormal
	}
	switch {
	case wpm >= 60:
		return SpeedFocused
	case wpm >= 30:
		return Developing
	default:
		return Beginner
	}
}

// TitleOf builds the title for a performance at the given rank.
func TitleOf(accuracy float64, wpm int, rank string) string {
	r := rankPhrase(rank)
	switch ArchetypeOf(accuracy, wpm) {
	case PerfectFast:
		return fmt.Sprintf("%s Perfectionist Lightning Typist", r)
	case PerfectNormal:
		return fmt.Sprintf("%s Perfectionist Typist", r)
	case PerfectSlow:
		return fmt.Sprintf("%s Perfectionist Deliberate Typist", r)
	case AccurateFast:
		return fmt.Sprintf("%s %s Typist", speedAdjective(wpm), accuracyAdjective(accuracy))
	case AccurateNormal:
		return fmt.Sprintf("%s %s Typist", r, accuracyAdjective(accuracy))
	case AccurateSlow:
		return fmt.Sprintf("%s %s Typist", accuracyAdjective(accuracy), r)
	case BalancedFast:
		return fmt.Sprintf("%s %s Typist", r, speedAdjective(wpm))
	case BalancedNormal:
		return fmt.Sprintf("%s Typist", r)
	case SpeedFocused:
		return fmt.Sprintf("%s Unpolished Typist", speedAdjective(wpm))
	case Developing:
		return fmt.Sprintf("Growing %s Typist", r)
	default:
		return fmt.Sprintf("%s Typing Beginner", r)
	}
}

func rankPhrase(rank string) string {
	if p, ok := rankPhrases[rank]; ok {
		return p
	}
	return "Unknown"
}

func accuracyAdjective(accuracy float64) string {
	switch {
	case accuracy == 100:
		return "Perfectionist"
	case accuracy >= 98:
		return "Precise"
	case accuracy >= 95:
		return "Accurate"
	case accuracy >= 90:
		return "Attentive"
	case accuracy >= 80:
		return "Careful"
	case accuracy >= 70:
		return "Composed"
	case accuracy >= 60:
		return "Rough-edged"
	default:
		return "Fearless"
	}
}

func speedAdjective(wpm int) string {
	switch {
	case wpm >= 100:
		return "Lightning"
	case wpm >= 80:
		return "High-speed"
	case wpm >= 60:
		return "Swift"
	case wpm >= 40:
		return "Steady"
	case wpm >= 20:
		return "Easygoing"
	default:
		return "Leisurely"
	}
}
