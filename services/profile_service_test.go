package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankForXP(t *testing.T) {
	tests := []struct {
		xp   int64
		want string
	}{
		{0, "Rookie"},
		{499, "Rookie"},
		{500, "Challenger"},
		{2499, "Challenger"},
		{2500, "Contender"},
		{9999, "Contender"},
		{10000, "Champion"},
		{49999, "Champion"},
		{50000, "Legend"},
		{1000000, "Legend"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RankForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestXPWeights(t *testing.T) {
	w := DefaultXPWeights
	assert.Equal(t, int64(10), w.RoastXP)
	assert.Equal(t, int64(5), w.LikeReceivedXP)
	assert.Equal(t, int64(2), w.CommentXP)
	assert.Equal(t, int64(25), w.DebateJoinXP)
	assert.Equal(t, int64(50), w.DebateCreateXP)
}
