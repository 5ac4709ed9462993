package session

import (
	"testing"

	"github.com/abhisek/ripasso/internal/bank"
)

func TestScore(t *testing.T) {
	qs := makeBank("general", 4)
	qs[3].Correct = []bank.Letter{"B", "C"}

	answers := []Answer{Selected("A"), Selected("B"), {}, Selected("C")}
	if got := Score(qs, answers); got != 20 {
		t.Errorf("Score = %d, want 20", got)
	}
	if got := MaxScore(len(qs)); got != 40 {
		t.Errorf("MaxScore = %d, want 40", got)
	}
}

func TestScoreUsesCorrectSetMembership(t *testing.T) {
	q := makeBank("general", 1)
	q[0].Correct = []bank.Letter{"D", "A"}

	for _, l := range []bank.Letter{"A", "D"} {
		if got := Score(q, []Answer{Selected(l)}); got != PointsPerQuestion {
			t.Errorf("answer %s: score = %d, want %d", l, got, PointsPerQuestion)
		}
	}
}

func TestPassed(t *testing.T) {
	tests := []struct {
		score, max int
		threshold  float64
		want       bool
	}{
		{60, 100, 0.6, true},
		{50, 100, 0.6, false},
		{100, 100, 1, true},
		{0, 0, 0.6, true},
		// floor(70 × 0.65) = 45
		{40, 70, 0.65, false},
		{45, 70, 0.65, true},
	}
	for _, tt := range tests {
		if got := Passed(tt.score, tt.max, tt.threshold); got != tt.want {
			t.Errorf("Passed(%d, %d, %v) = %v, want %v", tt.score, tt.max, tt.threshold, got, tt.want)
		}
	}
}

func TestPassMark(t *testing.T) {
	tests := []struct {
		max       int
		threshold float64
		want      int
	}{
		{100, 0.29, 29},
		{100, 0.57, 57},
		{300, 0.7, 210},
		{70, 0.65, 45},
		{30, 0.6, 18},
		{100, 1, 100},
		{0, 0.6, 0},
	}
	for _, tt := range tests {
		if got := PassMark(tt.max, tt.threshold); got != tt.want {
			t.Errorf("PassMark(%d, %v) = %d, want %d", tt.max, tt.threshold, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	qs := makeBank("general", 5)
	answers := []Answer{Selected("A"), Selected("A"), Selected("B"), {}, {}}

	st := ComputeStats(qs, answers, 0.6)
	if st.Correct != 2 || st.Incorrect != 1 || st.Unanswered != 2 {
		t.Errorf("counts = %d/%d/%d, want 2/1/2", st.Correct, st.Incorrect, st.Unanswered)
	}
	if st.Score != 20 || st.MaxScore != 50 || st.PassMark != 30 {
		t.Errorf("score = %d/%d mark %d, want 20/50 mark 30", st.Score, st.MaxScore, st.PassMark)
	}
	if st.Passed {
		t.Error("expected failed attempt")
	}
	if st.Percent != 40 {
		t.Errorf("Percent = %v, want 40", st.Percent)
	}
}

func TestFilter(t *testing.T) {
	qs := makeBank("general", 3)
	answers := []Answer{Selected("A"), Selected("B"), {}}

	tests := []struct {
		filter ReviewFilter
		want   []int
	}{
		{FilterAll, []int{0, 1, 2}},
		{FilterCorrect, []int{0}},
		{FilterIncorrect, []int{1}},
		{FilterUnanswered, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			entries := Filter(qs, answers, tt.filter)
			if len(entries) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(entries), len(tt.want))
			}
			for i, e := range entries {
				if e.Index != tt.want[i] {
					t.Errorf("entry %d index = %d, want %d", i, e.Index, tt.want[i])
				}
			}
		})
	}
}

func TestFilterMultiAnswerQuestion(t *testing.T) {
	// A taker choosing the second correct letter is not marked wrong.
	qs := makeBank("general", 1)
	qs[0].Correct = []bank.Letter{"A", "C"}
	answers := []Answer{Selected("C")}

	if n := len(Filter(qs, answers, FilterCorrect)); n != 1 {
		t.Errorf("correct entries = %d, want 1", n)
	}
	if n := len(Filter(qs, answers, FilterIncorrect)); n != 0 {
		t.Errorf("incorrect entries = %d, want 0", n)
	}
}

func TestCount(t *testing.T) {
	qs := makeBank("general", 4)
	c := Count(qs, []Answer{Selected("A"), Selected("C"), {}, Selected("A")})
	want := ReviewCounts{All: 4, Correct: 2, Incorrect: 1, Unanswered: 1}
	if c != want {
		t.Errorf("Count = %+v, want %+v", c, want)
	}
}
