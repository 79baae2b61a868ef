// Package inputmethod guesses the input device from input event counts.
package inputmethod

import "github.com/verte-zerg/typerank/internal/model"

// Events-per-character thresholds. Keyboards produce about one event per
// character; dictation commits whole phrases at once.
const (
	highFrequency   = 0.5
	mediumFrequency = 0.15
	lowFrequency    = 0.05
)

// Classify returns the likely input method. Missing data defaults to keyboard.
func Classify(inputEvents, chars int) model.InputMethod {
	if inputEvents <= 0 || chars <= 0 {
		return model.InputKeyboard
	}
	ratio := float64(inputEvents) / float64(chars)
	switch {
	case ratio >= highFrequency:
		return model.InputKeyboard
	case ratio >= mediumFrequency:
		// Keyboard with heavy corrections or IME composition.
		return model.InputKeyboard
	case ratio >= lowFrequency:
		return model.InputVoice
	default:
		return model.InputOther
	}
}

// Confidence rates a classification by its sample size.
func Confidence(inputEvents, chars int) float64 {
	samples := min(inputEvents, chars)
	switch {
	case samples < 10:
		return 0.5
	case samples < 50:
		return 0.7
	default:
		return 0.9
	}
}
