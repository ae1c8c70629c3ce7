package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// Broadcaster is the outgoing side of a connection, mockable in tests
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game holds the state for one session: the player table, the current
// level, and the round phase machine. All mutation happens under mu; the
// tick loop and the message handlers interleave, never overlap.
type Game struct {
	mu      sync.RWMutex
	players map[string]*Player
	clients map[string]Broadcaster

	config  RoundConfig
	lobby   *Level
	playMap *Level
	level   *Level // currently active level (lobby or playMap)

	phase    Phase
	phaseT   float64 // seconds left in the current phase
	seekerID string
	roundT   float64 // elapsed seeking time, for stats

	tick    uint64
	running bool
	stop    chan struct{}

	sessionID string
	db        *DB
	analytics *Analytics
	metrics   *TickMetrics
}

// NewGame creates a game waiting in its lobby.
func NewGame(sessionID string, db *DB, analytics *Analytics) *Game {
	lobby := LobbyMap()
	return &Game{
		players:   make(map[string]*Player),
		clients:   make(map[string]Broadcaster),
		config:    DefaultRoundConfig(),
		lobby:     lobby,
		playMap:   WarehouseMap(),
		level:     lobby,
		phase:     PhaseLobby,
		stop:      make(chan struct{}),
		sessionID: sessionID,
		db:        db,
		analytics: analytics,
		metrics:   &TickMetrics{},
	}
}

// Run starts the fixed-rate game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			g.update(1.0 / float64(TickRate))
			g.metrics.AddTick(time.Since(start).Nanoseconds())
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// AddPlayer adds a new player to the lobby. Returns nil when the session
// is full or a round is already in progress.
func (g *Game) AddPlayer(name string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= g.config.MaxPlayers {
		return nil
	}
	if g.phase != PhaseLobby {
		return nil
	}

	p := NewPlayer(GenerateID(4), name, g.lobby)
	g.players[p.ID] = p
	return p
}

// RemovePlayer removes a player from the game
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.players, id)
	delete(g.clients, id)

	// A round cannot continue without its seeker, and an empty round has
	// nothing left to decide.
	if g.phase == PhaseCountdown || g.phase == PhaseSeeking {
		if id == g.seekerID || len(g.players) < 2 {
			g.endRound(false)
		} else if freeHiders(g.players) == 0 {
			g.endRound(true)
		}
	}
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// HasPlayer reports whether the player is in this game
func (g *Game) HasPlayer(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.players[id]
	return ok
}

// PlayerCount returns the number of players
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.players)
}

// CurrentPhase returns the phase for session listings
func (g *Game) CurrentPhase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

// LobbyData returns the serialized map a joining client should load.
func (g *Game) LobbyData() MapData {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.level.ToMapData()
}

// Metrics exposes the tick counters for the /metrics endpoint
func (g *Game) Metrics() *TickMetrics {
	return g.metrics
}

// HandleInput stores a player's latest input mask for the next tick
func (g *Game) HandleInput(playerID string, input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		g.metrics.IncRejected()
		return
	}
	p.Mask = input.Mask
	g.metrics.IncAccepted()
}

// HandleReady toggles a player's ready flag; a full ready lobby starts
// the countdown.
func (g *Game) HandleReady(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok || g.phase != PhaseLobby {
		return
	}
	p.Ready = !p.Ready

	if len(g.players) >= g.config.MinPlayers && allReady(g.players) {
		g.startRound()
	}
}

// startRound transitions lobby -> countdown. Callers hold mu.
func (g *Game) startRound() {
	seeker := pickSeeker(g.players)
	if seeker == nil {
		return
	}

	g.level = g.playMap
	for _, p := range g.players {
		p.ResetForRound(g.playMap)
	}
	seeker.Role = RoleSeeker
	g.seekerID = seeker.ID

	g.phase = PhaseCountdown
	g.phaseT = g.config.HideTime
	g.roundT = 0

	g.broadcastMsg(Envelope{T: MsgPhase, Data: PhaseMsg{
		Phase:    int(PhaseCountdown),
		SeekerID: seeker.ID,
		Duration: g.config.HideTime,
		Map:      g.playMap.ToMapData(),
	}})

	if g.analytics != nil {
		g.analytics.Track(EvtRoundStart, 0, g.sessionID, "")
	}
	Log.Infow("round starting", "session", g.sessionID, "seeker", seeker.ID, "players", len(g.players))
}

// endRound transitions to results and records the outcome. Callers hold mu.
func (g *Game) endRound(seekerWon bool) {
	duration := g.roundT
	g.phase = PhaseResults
	g.phaseT = g.config.ResultTime

	g.broadcastMsg(Envelope{T: MsgRoundOver, Data: RoundOverMsg{
		SeekerWon: seekerWon,
		SeekerID:  g.seekerID,
		Duration:  duration,
	}})

	g.recordRound(seekerWon, duration)
	if g.analytics != nil {
		g.analytics.Track(EvtRoundEnd, 0, g.sessionID, "")
	}
	Log.Infow("round over", "session", g.sessionID, "seekerWon", seekerWon, "duration", duration)
}

// returnToLobby transitions results -> lobby. Callers hold mu.
func (g *Game) returnToLobby() {
	g.level = g.lobby
	g.seekerID = ""
	g.phase = PhaseLobby
	g.phaseT = 0
	for _, p := range g.players {
		p.ResetForRound(g.lobby)
	}
	g.broadcastMsg(Envelope{T: MsgPhase, Data: PhaseMsg{
		Phase: int(PhaseLobby),
		Map:   g.lobby.ToMapData(),
	}})
}

// update runs one game tick
func (g *Game) update(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++

	switch g.phase {
	case PhaseCountdown:
		g.phaseT -= dt
		if g.phaseT <= 0 {
			g.phase = PhaseSeeking
			g.phaseT = g.config.SeekTime
			g.broadcastMsg(Envelope{T: MsgPhase, Data: PhaseMsg{
				Phase:    int(PhaseSeeking),
				SeekerID: g.seekerID,
				Duration: g.config.SeekTime,
				Map:      g.playMap.ToMapData(),
			}})
		}
	case PhaseSeeking:
		g.roundT += dt
		g.phaseT -= dt
		if g.phaseT <= 0 {
			g.endRound(false) // hiders outlasted the clock
		}
	case PhaseResults:
		g.phaseT -= dt
		if g.phaseT <= 0 {
			g.returnToLobby()
		}
	}

	// Move every player through the shared physics step. The seeker is
	// held in place while hiders scatter during the countdown.
	for _, p := range g.players {
		if g.phase == PhaseCountdown && p.Role == RoleSeeker {
			continue
		}
		dir, nx, ny := Step(p.Alive, p.X, p.Y, p.Mask, g.level, dt)
		p.Dir = dir
		p.X = Clamp(nx, 0, g.level.Width-ColliderSize)
		p.Y = Clamp(ny, 0, g.level.Height-ColliderSize)
	}

	if g.phase == PhaseSeeking {
		g.checkCatches()
	}

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
		if g.phase == PhaseSeeking {
			g.sendSpotted()
		}
	}
}

// checkCatches tags hiders whose collider overlaps the seeker's. The last
// catch ends the round in the seeker's favor. Callers hold mu.
func (g *Game) checkCatches() {
	seeker, ok := g.players[g.seekerID]
	if !ok {
		return
	}
	box := seeker.Collider()

	for _, p := range g.players {
		if p.Role != RoleHider || !p.Alive {
			continue
		}
		if !box.Overlaps(p.Collider()) {
			continue
		}
		p.Alive = false
		seeker.Catches++

		remaining := freeHiders(g.players)
		g.broadcastMsg(Envelope{T: MsgCaught, Data: CaughtMsg{
			SeekerID:   seeker.ID,
			SeekerName: seeker.Name,
			HiderID:    p.ID,
			HiderName:  p.Name,
			Remaining:  remaining,
		}})
		if g.analytics != nil {
			g.analytics.Track(EvtPlayerCaught, p.AuthPlayerID, g.sessionID, "")
		}

		if remaining == 0 {
			g.endRound(true)
			return
		}
	}
}

// sendSpotted pings the seeker with every free hider in range and line of
// sight. Server authority over "cannot see through walls": the check runs
// against the same level geometry the clients render shadows from.
func (g *Game) sendSpotted() {
	seeker, ok := g.players[g.seekerID]
	if !ok {
		return
	}
	client, ok := g.clients[g.seekerID]
	if !ok {
		return
	}

	origin := seeker.Center()
	var ids []string
	for _, p := range g.players {
		if p.Role != RoleHider || !p.Alive {
			continue
		}
		c := p.Center()
		if Distance(origin.X, origin.Y, c.X, c.Y) > g.config.SpotRange {
			continue
		}
		if LineOfSight(origin, c, g.level) {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) > 0 {
		client.SendJSON(Envelope{T: MsgSpotted, Data: SpottedMsg{HiderIDs: ids}})
	}
}

// recordRound persists the outcome for authenticated players. Callers
// hold mu.
func (g *Game) recordRound(seekerWon bool, duration float64) {
	if g.db == nil {
		return
	}
	roundID, err := g.db.RecordRound(g.level.Title, duration, seekerWon)
	if err != nil {
		Log.Errorw("record round", "err", err)
		return
	}
	for _, p := range g.players {
		if p.AuthPlayerID == 0 {
			continue
		}
		won := (p.Role == RoleSeeker) == seekerWon
		if err := g.db.RecordRoundPlayer(roundID, p.AuthPlayerID, p.Role, !p.Alive, p.Catches, won, duration); err != nil {
			Log.Errorw("record round player", "err", err)
			continue
		}
		sweep := p.Role == RoleSeeker && seekerWon
		if unlocked := CheckAchievements(g.db, p.AuthPlayerID, p.Catches, sweep); len(unlocked) > 0 {
			if client, ok := g.clients[p.ID]; ok {
				client.SendJSON(Envelope{T: MsgAchievement, Data: AchievementMsg{Unlocked: unlocked}})
			}
		}
	}
}

// broadcastState sends the msgpack-encoded round state to all clients
func (g *Game) broadcastState() {
	state := RoundState{
		Players:  make([]PlayerState, 0, len(g.players)),
		Phase:    int(g.phase),
		TimeLeft: g.phaseT,
		SeekerID: g.seekerID,
		Tick:     g.tick,
	}
	for _, p := range g.players {
		state.Players = append(state.Players, p.ToState())
	}

	data, err := msgpack.Marshal(state)
	if err != nil {
		Log.Errorw("marshal state", "err", err)
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a JSON message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}

// statesJSON is only used by the admin/metrics endpoint to dump a
// readable snapshot.
func (g *Game) statesJSON() json.RawMessage {
	g.mu.RLock()
	defer g.mu.RUnlock()
	states := make([]PlayerState, 0, len(g.players))
	for _, p := range g.players {
		states = append(states, p.ToState())
	}
	raw, _ := json.Marshal(states)
	return raw
}
