package history

import (
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/textdiff"
)

// Filter selects records. Zero values and the "all" values match everything.
type Filter struct {
	InputMethod model.InputMethod
	Mode        model.Mode
	Difficulty  model.Difficulty
}

// Match reports whether rec passes the filter.
func (f Filter) Match(rec model.HistoryRecord) bool {
	if f.InputMethod != "" && f.InputMethod != model.InputAll && rec.InputMethod != f.InputMethod {
		return false
	}
	if f.Mode != "" && rec.Mode != f.Mode {
		return false
	}
	if f.Difficulty != "" && f.Difficulty != model.DifficultyAll && rec.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []model.HistoryRecord) []model.HistoryRecord {
	var out []model.HistoryRecord
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Statistics summarizes a bucket of records.
type Statistics struct {
	Count           int     `json:"count"`
	AverageScore    int     `json:"averageScore"`
	AverageAccuracy float64 `json:"averageAccuracy"`
	AverageWPM      int     `json:"averageWpm"`
	AverageCPM      int     `json:"averageCpm"`
	BestScore       int     `json:"bestScore"`
	BestAccuracy    float64 `json:"bestAccuracy"`
	BestWPM         int     `json:"bestWpm"`
	BestCPM         int     `json:"bestCpm"`
	// TotalPlayTime is in seconds.
	TotalPlayTime float64 `json:"totalPlayTime"`
}

// Summarize computes statistics over records. An empty bucket is all zeros.
func Summarize(records []model.HistoryRecord) Statistics {
	if len(records) == 0 {
		return Statistics{}
	}
	var (
		st                 Statistics
		score, wpm, cpm    int
		accuracy, playTime float64
	)
	for i, rec := range records {
		r := rec.Result
		score += r.TotalScore
		wpm += r.TotalWPM
		cpm += r.TotalCPM
		accuracy += r.AverageAccuracy
		playTime += r.TotalElapsedTime
		if i == 0 || r.TotalScore > st.BestScore {
			st.BestScore = r.TotalScore
		}
		if i == 0 || r.AverageAccuracy > st.BestAccuracy {
			st.BestAccuracy = r.AverageAccuracy
		}
		if i == 0 || r.TotalWPM > st.BestWPM {
			st.BestWPM = r.TotalWPM
		}
		if i == 0 || r.TotalCPM > st.BestCPM {
			st.BestCPM = r.TotalCPM
		}
	}
	n := float64(len(records))
	st.Count = len(records)
	st.AverageScore = int(math.Round(float64(score) / n))
	st.AverageAccuracy = textdiff.Round2(accuracy / n)
	st.AverageWPM = int(math.Round(float64(wpm) / n))
	st.AverageCPM = int(math.Round(float64(cpm) / n))
	st.TotalPlayTime = textdiff.Round2(playTime)
	return st
}

// Comparison holds statistics per input method.
type Comparison struct {
	Voice    Statistics `json:"voice"`
	Keyboard Statistics `json:"keyboard"`
	Other    Statistics `json:"other"`
	All      Statistics `json:"all"`
}

// Compare buckets records by input method.
func Compare(records []model.HistoryRecord) Comparison {
	return Comparison{
		Voice:    Summarize(Filter{InputMethod: model.InputVoice}.Apply(records)),
		Keyboard: Summarize(Filter{InputMethod: model.InputKeyboard}.Apply(records)),
		Other:    Summarize(Filter{InputMethod: model.InputOther}.Apply(records)),
		All:      Summarize(records),
	}
}

// SortKey names the metric used to pick a best record.
type SortKey string

const (
	SortByScore    SortKey = "score"
	SortByAccuracy SortKey = "accuracy"
	SortByWPM      SortKey = "wpm"
	SortByCPM      SortKey = "cpm"
)

// ParseSortKey validates a sort key. Empty input means score.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByScore, nil
	case SortByScore, SortByAccuracy, SortByWPM, SortByCPM:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want score, accuracy, wpm or cpm)", s)
	}
}

func (k SortKey) value(rec model.HistoryRecord) float64 {
	switch k {
	case SortByAccuracy:
		return rec.Result.AverageAccuracy
	case SortByWPM:
		return float64(rec.Result.TotalWPM)
	case SortByCPM:
		return float64(rec.Result.TotalCPM)
	default:
		return float64(rec.Result.TotalScore)
	}
}

// Best returns the record with the highest key value. Ties keep the
// earlier record, which is the newer one in a newest-first list.
func Best(records []model.HistoryRecord, key SortKey) (model.HistoryRecord, bool) {
	if len(records) == 0 {
		return model.HistoryRecord{}, false
	}
	best := records[0]
	for _, rec := range records[1:] {
		if key.value(rec) > key.value(best) {
			best = rec
		}
	}
	return best, true
}
