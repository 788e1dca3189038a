package progress

// XPPerLevel is the XP needed to climb one level.
const XPPerLevel = 500

// LevelForXP returns floor(xp/500)+1. Negative XP counts as zero.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// XPIntoLevel returns how far xp is into its current level and the XP span
// of a level.
func XPIntoLevel(xp int) (into, span int) {
	if xp < 0 {
		xp = 0
	}
	return xp % XPPerLevel, XPPerLevel
}

var levelTitles = []string{"Novice", "Apprentice", "Practitioner", "Expert"}

// LevelTitle names a level. Everything past the named tiers is "Master".
func LevelTitle(level int) string {
	if level < 1 {
		level = 1
	}
	if level <= len(levelTitles) {
		return levelTitles[level-1]
	}
	return "Master"
}
