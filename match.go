package main

// Phase represents the round lifecycle
type Phase int

const (
	PhaseLobby     Phase = 0
	PhaseCountdown Phase = 1 // hiders scatter, seeker is held at spawn
	PhaseSeeking   Phase = 2
	PhaseResults   Phase = 3
)

// RoundConfig holds the timings and limits for a round
type RoundConfig struct {
	HideTime   float64 // countdown seconds before the seeker is released
	SeekTime   float64 // seconds the seeker has to find everyone
	ResultTime float64 // seconds the scoreboard stays up
	MinPlayers int
	MaxPlayers int
	SpotRange  float64 // max distance for seeker spotted pings
}

// DefaultRoundConfig returns the standard timings.
func DefaultRoundConfig() RoundConfig {
	return RoundConfig{
		HideTime:   10,
		SeekTime:   120,
		ResultTime: 8,
		MinPlayers: 2,
		MaxPlayers: 16,
		SpotRange:  640,
	}
}

// pickSeeker chooses a seeker from the given players. Deterministic given
// the random source; every ready player is equally likely.
func pickSeeker(players map[string]*Player) *Player {
	if len(players) == 0 {
		return nil
	}
	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	return players[ids[int(randFloat()*float64(len(ids)))%len(ids)]]
}

// allReady reports whether every player has readied up.
func allReady(players map[string]*Player) bool {
	for _, p := range players {
		if !p.Ready {
			return false
		}
	}
	return len(players) > 0
}

// freeHiders counts hiders not yet caught.
func freeHiders(players map[string]*Player) int {
	n := 0
	for _, p := range players {
		if p.Role == RoleHider && p.Alive {
			n++
		}
	}
	return n
}
