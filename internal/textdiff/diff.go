package textdiff

// Kind classifies one aligned position of a diff.
type Kind string

const (
	KindCorrect   Kind = "correct"
	KindIncorrect Kind = "incorrect"
	KindMissing   Kind = "missing"
	KindExtra     Kind = "extra"
)

// Entry is one aligned position. Char is the typed rune, or the target rune
// for missing entries. Expected is set for incorrect and missing entries.
type Entry struct {
	Char     rune
	Kind     Kind
	Expected rune
}

// Diff aligns input against target by backtracking the edit distance table.
//
// When several minimal alignments exist the walk prefers a match, then a
// substitution, then an extra input rune, then a missing target rune.
func Diff(target, input string) []Entry {
	t := []rune(Normalize(target))
	in := []rune(Normalize(input))
	dp := table(t, in)

	out := make([]Entry, 0, max(len(t), len(in)))
	i, j := len(t), len(in)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && t[i-1] == in[j-1]:
			out = append(out, Entry{Char: in[j-1], Kind: KindCorrect})
			i--
			j--
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+1:
			out = append(out, Entry{Char: in[j-1], Kind: KindIncorrect, Expected: t[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j] == dp[i][j-1]+1):
			out = append(out, Entry{Char: in[j-1], Kind: KindExtra})
			j--
		default:
			out = append(out, Entry{Char: t[i-1], Kind: KindMissing, Expected: t[i-1]})
			i--
		}
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// Stats counts diff entries by kind.
type Stats struct {
	Correct   int
	Incorrect int
	Missing   int
	Extra     int
	Total     int
}

// Summarize counts the entries of a diff.
func Summarize(diff []Entry) Stats {
	s := Stats{Total: len(diff)}
	for _, e := range diff {
		switch e.Kind {
		case KindCorrect:
			s.Correct++
		case KindIncorrect:
			s.Incorrect++
		case KindMissing:
			s.Missing++
		case KindExtra:
			s.Extra++
		}
	}
	return s
}
