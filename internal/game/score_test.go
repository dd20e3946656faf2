package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		questions int
		hints     int
		elapsed   time.Duration
		want      int
	}{
		{
			name:    "perfect run",
			elapsed: 30 * time.Second,
			want:    1000,
		},
		{
			name:      "typical run",
			questions: 8,
			hints:     1,
			elapsed:   4 * time.Minute,
			want:      1000 - 80 - 100 - 20,
		},
		{
			name:      "three questions one hint two minutes",
			questions: 3,
			hints:     1,
			elapsed:   2 * time.Minute,
			want:      860,
		},
		{
			name:      "hundred questions and both hints",
			questions: 100,
			hints:     2,
			elapsed:   45 * time.Minute,
			want:      100,
		},
		{
			name:      "question penalty caps at fifty questions",
			questions: 80,
			elapsed:   time.Minute,
			want:      1000 - 500 - 5,
		},
		{
			name:      "time penalty caps at forty minutes",
			questions: 1,
			elapsed:   3 * time.Hour,
			want:      1000 - 10 - 200,
		},
		{
			name:      "floor holds under maximum penalties",
			questions: 200,
			hints:     2,
			elapsed:   2 * time.Hour,
			want:      100,
		},
		{
			name:    "partial minute does not count",
			elapsed: 59 * time.Second,
			want:    1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Score(tt.questions, tt.hints, tt.elapsed))
		})
	}
}

func TestScoreMonotonicInQuestions(t *testing.T) {
	previous := Score(0, 0, time.Minute)
	for questions := 1; questions <= 60; questions++ {
		score := Score(questions, 0, time.Minute)
		require.LessOrEqual(t, score, previous, "score must never rise with more questions")
		previous = score
	}
}
