package engine

import (
	"strings"
	"testing"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/queryserve/queryserve/internal/utils"
)

func buildEngine(t *testing.T, opts Options, lines []string) *Engine {
	t.Helper()
	e := New(opts)
	for _, l := range lines {
		e.AddHistory(utils.NormalizeQuery(l), 1)
	}
	e.Rebuild()
	return e
}

// typeString replays text through the session one keystroke at a time
// and returns the suggestions for the final keystroke.
func typeString(s *Session, text string) []string {
	var out []string
	for i, r := range []rune(text) {
		out = s.Guess(r, i)
	}
	return out
}

var roundTripLog = []string{"cat", "cat", "car", "care", "dog"}

func TestRoundTrip(t *testing.T) {
	for _, cached := range []bool{true, false} {
		name := "with_cache"
		if !cached {
			name = "without_cache"
		}
		t.Run(name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.EnablePrefixCache = cached
			e := buildEngine(t, opts, roundTripLog)

			if got := e.Frequency("cat"); got != 2 {
				t.Fatalf("frequency(cat) = %d, want 2", got)
			}
			for _, q := range []string{"car", "care", "dog"} {
				if got := e.Frequency(q); got != 1 {
					t.Fatalf("frequency(%s) = %d, want 1", q, got)
				}
			}

			got := e.NewSession().Guess('c', 0)
			want := []string{"cat", "car", "care", "", ""}
			assertSuggestions(t, got, want)
		})
	}
}

func TestGuessDeeperPrefixes(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)
	s := e.NewSession()

	got := typeString(s, "ca")
	assertSuggestions(t, got, []string{"cat", "car", "care", "", ""})

	got = typeString(s, "car")
	assertSuggestions(t, got, []string{"car", "care", "", "", ""})

	got = typeString(s, "care")
	assertSuggestions(t, got, []string{"care", "", "", "", ""})
}

func TestFeedbackPromotion(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)

	for i := 0; i < 6; i++ {
		e.Feedback(true, "dog")
	}
	if got := e.Frequency("dog"); got < 6 {
		t.Fatalf("frequency(dog) = %d, want >= 6", got)
	}

	got := e.NewSession().Guess('d', 0)
	if got[0] != "dog" {
		t.Fatalf("guess('d', 0) = %v, want dog first", got)
	}

	if top := e.GlobalTop(); top[0] != "dog" {
		t.Fatalf("global top = %v, want dog first after promotion", top)
	}
}

func TestFeedbackEvictsStaleEntry(t *testing.T) {
	// Six queries under "sa" so the shallow lists are full, then a
	// feedback burst on the weakest one must push it into the top-5.
	log := []string{
		"sale", "sale", "sale", "sale",
		"salt", "salt", "salt",
		"same", "same",
		"sand", "sand",
		"save", "save",
		"saw",
	}
	opts := DefaultOptions()
	opts.EnablePrefixCache = false
	e := buildEngine(t, opts, log)

	s := e.NewSession()
	got := typeString(s, "sa")
	for _, sg := range got {
		if sg == "saw" {
			t.Fatalf("saw should not rank in top-5 yet: %v", got)
		}
	}

	for i := 0; i < 4; i++ {
		e.Feedback(true, "saw")
	}

	got = typeString(e.NewSession(), "sa")
	if got[0] != "saw" {
		t.Fatalf("after feedback, guess = %v, want saw first", got)
	}
}

func TestFeedbackIncrements(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)

	before := e.Frequency("care")
	e.Feedback(true, "care")
	if got := e.Frequency("care"); got != before+5 {
		t.Fatalf("frequency after correct feedback = %d, want %d", got, before+5)
	}
	e.Feedback(false, "care")
	if got := e.Frequency("care"); got != before+6 {
		t.Fatalf("frequency after incorrect feedback = %d, want %d", got, before+6)
	}
}

func TestFeedbackBlankQueryNoOp(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)
	statsBefore := e.Stats()

	e.Feedback(true, "")
	e.Feedback(true, "   \t  ")

	statsAfter := e.Stats()
	if statsAfter["queries"] != statsBefore["queries"] {
		t.Fatalf("blank feedback changed query count: %d -> %d",
			statsBefore["queries"], statsAfter["queries"])
	}
}

func TestFeedbackNormalizesQuery(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)
	e.Feedback(true, "  CAT ")
	if got := e.Frequency("cat"); got != 7 {
		t.Fatalf("frequency(cat) = %d, want 7 after normalized feedback", got)
	}
}

func TestFeedbackIntroducesNewQuery(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)

	for i := 0; i < 3; i++ {
		e.Feedback(true, "cabbage soup")
	}

	got := typeString(e.NewSession(), "cab")
	if got[0] != "cabbage soup" {
		t.Fatalf("guess after new-query feedback = %v, want cabbage soup first", got)
	}
}

func TestSessionReset(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)
	s := e.NewSession()

	typeString(s, "dog")
	// index 0 starts over mid-stream.
	got := s.Guess('c', 0)
	assertSuggestions(t, got, []string{"cat", "car", "care", "", ""})
	if s.Prefix() != "c" {
		t.Fatalf("prefix after reset = %q, want %q", s.Prefix(), "c")
	}
}

func TestSessionNonMonotonicIndexResets(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)
	s := e.NewSession()

	s.Guess('c', 0)
	s.Guess('a', 1)
	// Skipping ahead is not a continuation; the cursor starts over.
	got := s.Guess('d', 5)
	if s.Prefix() != "d" {
		t.Fatalf("prefix after non-monotonic index = %q, want %q", s.Prefix(), "d")
	}
	if got[0] != "dog" {
		t.Fatalf("guess after reset = %v, want dog first", got)
	}
}

func TestGuessUppercaseNormalized(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)
	got := e.NewSession().Guess('C', 0)
	assertSuggestions(t, got, []string{"cat", "car", "care", "", ""})
}

func TestGuessUnknownPrefixFallsBack(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)
	got := e.NewSession().Guess('z', 0)
	if len(got) != SuggestionCount {
		t.Fatalf("result width = %d, want %d", len(got), SuggestionCount)
	}
	// Nothing starts with z; the global fallback serves instead.
	nonEmpty := 0
	for _, sg := range got {
		if sg != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		t.Fatal("expected global fallback suggestions for unknown prefix")
	}
}

func TestGuessAlwaysFiveSlots(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), []string{"only one query"})
	s := e.NewSession()
	for i, r := range []rune("only") {
		got := s.Guess(r, i)
		if len(got) != SuggestionCount {
			t.Fatalf("result width = %d at keystroke %d, want %d", len(got), i, SuggestionCount)
		}
	}
}

var oracleLog = []string{
	"weather today", "weather today", "weather today",
	"weather tomorrow", "weather radar",
	"web browser", "web browser",
	"west side story",
	"online shopping", "online games", "online games", "online banking",
	"golang tutorial", "golang tutorial", "go playground", "good restaurants",
	"gopher images",
	"maps", "maps", "maps", "marathon training", "market hours",
	"news", "new york times", "netflix",
}

// TestPrefixCorrectness checks the traversal against an independently
// built patricia trie: whenever any stored query begins with the typed
// prefix, every non-empty suggestion must begin with it too.
func TestPrefixCorrectness(t *testing.T) {
	for _, cached := range []bool{true, false} {
		name := "with_cache"
		if !cached {
			name = "without_cache"
		}
		t.Run(name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.EnablePrefixCache = cached
			e := buildEngine(t, opts, oracleLog)

			oracle := patricia.NewTrie()
			for _, l := range oracleLog {
				oracle.Insert(patricia.Prefix(utils.NormalizeQuery(l)), 1)
			}

			seen := map[string]bool{}
			for _, l := range oracleLog {
				q := utils.NormalizeQuery(l)
				if seen[q] {
					continue
				}
				seen[q] = true
				s := e.NewSession()
				for i, r := range []rune(q) {
					got := s.Guess(r, i)
					prefix := s.Prefix()

					matches := 0
					_ = oracle.VisitSubtree(patricia.Prefix(prefix), func(patricia.Prefix, patricia.Item) error {
						matches++
						return nil
					})
					if matches == 0 {
						continue
					}
					for _, sg := range got {
						if sg == "" {
							continue
						}
						if !strings.HasPrefix(sg, prefix) {
							t.Fatalf("prefix %q: suggestion %q does not extend it (all: %v)", prefix, sg, got)
						}
					}
				}
			}
		})
	}
}

func TestStats(t *testing.T) {
	e := buildEngine(t, DefaultOptions(), roundTripLog)
	stats := e.Stats()
	if stats["queries"] != 4 {
		t.Fatalf("queries stat = %d, want 4", stats["queries"])
	}
	if stats["trieNodes"] == 0 {
		t.Fatal("trieNodes stat should be non-zero")
	}
	if stats["cacheStale"] != 0 {
		t.Fatal("cache should be fresh right after rebuild")
	}
}

func assertSuggestions(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("suggestion width = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("suggestions = %v, want %v", got, want)
		}
	}
}
