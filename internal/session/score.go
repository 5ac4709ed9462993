package session

import (
	"math"

	"github.com/abhisek/ripasso/internal/bank"
)

// PointsPerQuestion is awarded for every correctly answered question.
const PointsPerQuestion = 10

// Score sums PointsPerQuestion for each position whose answer is a member of
// the question's correct set. Unanswered positions score nothing.
func Score(questions []bank.Question, answers []Answer) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i].IsCorrectFor(q) {
			score += PointsPerQuestion
		}
	}
	return score
}

// MaxScore is the score of a perfect attempt with n questions.
func MaxScore(n int) int {
	return PointsPerQuestion * n
}

// PassMark is floor(max × threshold). The threshold is taken in basis
// points so that 0.29 of 100 is 29 and not 28.
func PassMark(max int, threshold float64) int {
	bp := int(math.Round(threshold * 10000))
	return max * bp / 10000
}

// Passed reports whether score reaches the pass mark.
func Passed(score, max int, threshold float64) bool {
	return score >= PassMark(max, threshold)
}

// Stats are the result figures shown after an attempt.
type Stats struct {
	Total      int
	Correct    int
	Incorrect  int
	Unanswered int
	Score      int
	MaxScore   int
	PassMark   int
	Passed     bool
	Percent    float64
}

// ComputeStats derives the result figures for an attempt.
func ComputeStats(questions []bank.Question, answers []Answer, threshold float64) Stats {
	c := Count(questions, answers)
	st := Stats{
		Total:      len(questions),
		Correct:    c.Correct,
		Incorrect:  c.Incorrect,
		Unanswered: c.Unanswered,
		Score:      Score(questions, answers),
		MaxScore:   MaxScore(len(questions)),
	}
	st.PassMark = PassMark(st.MaxScore, threshold)
	st.Passed = st.Score >= st.PassMark
	if st.MaxScore > 0 {
		st.Percent = float64(st.Score) / float64(st.MaxScore) * 100
	}
	return st
}
