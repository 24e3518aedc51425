package textmatch

import (
	"testing"
	"time"
)

func TestScoreIdenticalAfterNormalization(t *testing.T) {
	cases := []struct{ a, b string }{
		{"Jane Doe", "jane doe"},
		{"Jane_Doe", "Jane Doe"},
		{"jane-doe", "JANE  DOE"},
		{"jane.doe", "jane doe"},
	}
	for _, tc := range cases {
		if got := Score(tc.a, tc.b); got != 1.0 {
			t.Fatalf("Score(%q, %q) = %v, want 1.0", tc.a, tc.b, got)
		}
	}
}

func TestScorePhraseContainment(t *testing.T) {
	if got := Score("Jane Doe Summer Collection", "Jane Doe"); got != 1.0 {
		t.Fatalf("contained multi-word name should score 1.0, got %v", got)
	}
	// Symmetry.
	if got := Score("Jane Doe", "Jane Doe Summer Collection"); got != 1.0 {
		t.Fatalf("containment must be symmetric, got %v", got)
	}
}

func TestScoreSingleTokenIsPartialCredit(t *testing.T) {
	got := Score("Jane Doe", "Jane")
	if got <= 0.0 || got >= 1.0 {
		t.Fatalf("partial name should score strictly between 0 and 1, got %v", got)
	}
	if rev := Score("Jane", "Jane Doe"); rev != got {
		t.Fatalf("Score is not symmetric: %v vs %v", got, rev)
	}
}

func TestScoreNoWordBoundaryMatch(t *testing.T) {
	if got := Score("annette summer", "ann ette"); got == 1.0 {
		t.Fatalf("substring without word boundary must not score 1.0, got %v", got)
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	if got := Score("", "Jane Doe"); got != 0.0 {
		t.Fatalf("empty left input should score 0.0, got %v", got)
	}
	if got := Score("Jane Doe", ""); got != 0.0 {
		t.Fatalf("empty right input should score 0.0, got %v", got)
	}
	if got := Score("", ""); got != 0.0 {
		t.Fatalf("two empty inputs should score 0.0, got %v", got)
	}
}

func TestScoreDisjointTokens(t *testing.T) {
	if got := Score("Jane Doe", "Alex Roe"); got != 0.0 {
		t.Fatalf("disjoint names should score 0.0, got %v", got)
	}
}

func TestDateScoreExactAndDecay(t *testing.T) {
	base := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := DateScore(base, base, 7); got != 1.0 {
		t.Fatalf("exact date should score 1.0, got %v", got)
	}
	oneDay := DateScore(base, base.AddDate(0, 0, 1), 7)
	threeDays := DateScore(base, base.AddDate(0, 0, 3), 7)
	if oneDay <= threeDays {
		t.Fatalf("score should decay with distance: 1d=%v 3d=%v", oneDay, threeDays)
	}
	if got := DateScore(base, base.AddDate(0, 0, 7), 7); got != 0.0 {
		t.Fatalf("boundary date should score 0.0, got %v", got)
	}
	if got := DateScore(base, base.AddDate(0, 0, 30), 7); got != 0.0 {
		t.Fatalf("date beyond tolerance should score 0.0, got %v", got)
	}
}

func TestDateScoreZeroInputs(t *testing.T) {
	base := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := DateScore(time.Time{}, base, 7); got != 0.0 {
		t.Fatalf("zero date should score 0.0, got %v", got)
	}
	if got := DateScore(base, base, 0); got != 1.0 {
		t.Fatalf("zero tolerance still accepts exact matches, got %v", got)
	}
	if got := DateScore(base, base.AddDate(0, 0, 1), 0); got != 0.0 {
		t.Fatalf("zero tolerance rejects non-exact matches, got %v", got)
	}
}

func TestTokenizeFiltersSeparators(t *testing.T) {
	tokens := Tokenize("Jane_Doe-Summer.Collection")
	want := []string{"jane", "doe", "summer", "collection"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), tokens)
	}
	for i, token := range want {
		if tokens[i] != token {
			t.Fatalf("token %d = %q, want %q", i, tokens[i], token)
		}
	}
}
