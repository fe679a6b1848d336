package service

import (
	"testing"

	"football_stars/internal/domain"
)

func TestLevelThreshold(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 100},
		{2, 160},
		{3, 220},
		{10, 640},
	}
	for _, c := range cases {
		if got := domain.LevelThreshold(c.level); got != c.want {
			t.Errorf("LevelThreshold(%d) = %d, ожидалось %d", c.level, got, c.want)
		}
	}
}

func TestApplyLevelUps_NoLevelUp(t *testing.T) {
	xp, level, gained := ApplyLevelUps(99, 1)
	if xp != 99 || level != 1 || gained != 0 {
		t.Fatalf("получено xp=%d level=%d gained=%d", xp, level, gained)
	}
}

func TestApplyLevelUps_SingleLevelUp(t *testing.T) {
	xp, level, gained := ApplyLevelUps(100, 1)
	if xp != 0 || level != 2 || gained != 1 {
		t.Fatalf("получено xp=%d level=%d gained=%d", xp, level, gained)
	}
}

func TestApplyLevelUps_Cascade(t *testing.T) {
	// 260 опыта с первого уровня: 100 на второй, 160 на третий, остаток 0
	xp, level, gained := ApplyLevelUps(260, 1)
	if xp != 0 || level != 3 || gained != 2 {
		t.Fatalf("получено xp=%d level=%d gained=%d", xp, level, gained)
	}
}

func TestApplyLevelUps_CascadeWithRemainder(t *testing.T) {
	xp, level, gained := ApplyLevelUps(300, 1)
	// 300-100=200 (уровень 2), 200-160=40 (уровень 3), 40 < 220
	if xp != 40 || level != 3 || gained != 2 {
		t.Fatalf("получено xp=%d level=%d gained=%d", xp, level, gained)
	}
}

func TestNextVIPUntil_Expired(t *testing.T) {
	now := int64(1_000_000)
	// срок истёк, отсчёт идёт от "сейчас"
	got := NextVIPUntil(now-500, now, 30)
	want := now + 30*86400
	if got != want {
		t.Fatalf("NextVIPUntil = %d, ожидалось %d", got, want)
	}
}

func TestNextVIPUntil_Stacking(t *testing.T) {
	now := int64(1_000_000)
	current := now + 10*86400
	// активный VIP продлевается от текущего срока, дни складываются
	got := NextVIPUntil(current, now, 30)
	want := current + 30*86400
	if got != want {
		t.Fatalf("NextVIPUntil = %d, ожидалось %d", got, want)
	}
}

func TestNextVIPUntil_NeverShortens(t *testing.T) {
	now := int64(1_000_000)
	current := now + 90*86400
	got := NextVIPUntil(current, now, 1)
	if got <= current {
		t.Fatalf("продление укоротило срок: %d <= %d", got, current)
	}
}
