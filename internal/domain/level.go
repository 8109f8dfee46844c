package domain

import "math"

// ─── XP & Level Math ────────────────────────────────────────────────────────
// Level is a pure function of accumulated XP. The two functions are kept
// consistent: Level(NextLevelXP(l-1)) == l for every l >= 1, so a donor
// sitting exactly on a threshold is already at the higher level.

// Level maps accumulated XP to a level: floor(sqrt(xp/100)) + 1.
// Negative XP never occurs in a valid record but clamps to level 1.
func Level(xp int64) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

// NextLevelXP returns the XP threshold at which the given level is left
// behind: level² × 100.
func NextLevelXP(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(level) * int64(level) * 100
}

// LevelProgressPct reports how far the donor is through the current level,
// in [0, 100).
func LevelProgressPct(xp int64) float64 {
	lvl := Level(xp)
	floor := NextLevelXP(lvl - 1)
	ceil := NextLevelXP(lvl)
	if ceil == floor {
		return 0
	}
	return float64(xp-floor) / float64(ceil-floor) * 100
}
