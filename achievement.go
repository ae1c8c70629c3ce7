package main

// AchievementDef describes one unlockable achievement
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`
}

var Achievements = []AchievementDef{
	{"first_catch", "First Catch", "Tag your first hider"},
	{"bloodhound", "Bloodhound", "Reach 50 total catches"},
	{"clean_sweep", "Clean Sweep", "Catch every hider in a single round"},
	{"ghost", "Ghost", "Escape 25 rounds uncaught"},
	{"untouchable", "Untouchable", "Win 10 rounds as a hider"},
	{"relentless", "Relentless", "Win 10 rounds as the seeker"},
	{"regular", "Regular", "Play 100 rounds"},
	{"marathon", "Marathon", "Spend 1 hour being hunted"},
}

// CheckAchievements checks if any new achievements should be unlocked for
// a player after a round. roundCatches/sweep describe that round only;
// everything else reads aggregate stats. Returns newly unlocked defs.
func CheckAchievements(db *DB, playerID int64, roundCatches int, sweep bool) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_catch":
			return stats.Catches >= 1
		case "bloodhound":
			return stats.Catches >= 50
		case "clean_sweep":
			return sweep && roundCatches > 0
		case "ghost":
			return stats.Escapes >= 25
		case "untouchable":
			return stats.HiderWins >= 10
		case "relentless":
			return stats.SeekerWins >= 10
		case "regular":
			return stats.Rounds >= 100
		case "marathon":
			return stats.Playtime >= 3600
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}
