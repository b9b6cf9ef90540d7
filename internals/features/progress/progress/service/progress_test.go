package service

import (
	"testing"

	levelModel "bookclub_backend/internals/features/progress/level_rank/model"
)

func intp(v int) *int { return &v }

func TestLevelFor(t *testing.T) {
	reqs := []levelModel.LevelRequirement{
		{LevelReqLevel: 1, LevelReqMinPoints: 0, LevelReqMaxPoints: intp(49)},
		{LevelReqLevel: 2, LevelReqMinPoints: 50, LevelReqMaxPoints: intp(149)},
		{LevelReqLevel: 3, LevelReqMinPoints: 150},
	}
	cases := []struct {
		points int
		want   int
	}{
		{0, 1}, {49, 1}, {50, 2}, {149, 2}, {150, 3}, {10_000, 3},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.points, reqs); got != tc.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tc.points, got, tc.want)
		}
	}
	if got := LevelFor(500, nil); got != 1 {
		t.Errorf("LevelFor without requirements = %d, want 1", got)
	}
}

func TestRankFor(t *testing.T) {
	reqs := []levelModel.RankRequirement{
		{RankReqRank: 1, RankReqMinLevel: 1, RankReqMaxLevel: intp(4)},
		{RankReqRank: 2, RankReqMinLevel: 5},
	}
	if got := RankFor(3, reqs); got != 1 {
		t.Errorf("RankFor(3) = %d, want 1", got)
	}
	if got := RankFor(5, reqs); got != 2 {
		t.Errorf("RankFor(5) = %d, want 2", got)
	}
}
