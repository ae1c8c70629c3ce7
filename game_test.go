package main

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type mockClient struct {
	msgs []Envelope
	bins [][]byte
}

func (m *mockClient) SendJSON(msg interface{}) {
	m.msgs = append(m.msgs, msg.(Envelope))
}

func (m *mockClient) SendBinary(data []byte) {
	m.bins = append(m.bins, append([]byte(nil), data...))
}

func (m *mockClient) hasMsg(msgType string) bool {
	for _, e := range m.msgs {
		if e.T == msgType {
			return true
		}
	}
	return false
}

func (m *mockClient) lastMsg(msgType string) (Envelope, bool) {
	for i := len(m.msgs) - 1; i >= 0; i-- {
		if m.msgs[i].T == msgType {
			return m.msgs[i], true
		}
	}
	return Envelope{}, false
}

// twoPlayerGame returns a game with two joined, connected players. The
// loop goroutine is not started; tests drive update directly.
func twoPlayerGame(t *testing.T) (*Game, *Player, *Player, *mockClient, *mockClient) {
	t.Helper()
	g := NewGame("test-session", nil, nil)
	p1 := g.AddPlayer("alice")
	p2 := g.AddPlayer("bob")
	if p1 == nil || p2 == nil {
		t.Fatal("players should join an empty lobby")
	}
	c1 := &mockClient{}
	c2 := &mockClient{}
	g.SetClient(p1.ID, c1)
	g.SetClient(p2.ID, c2)
	return g, p1, p2, c1, c2
}

func seekerAndHider(g *Game, p1, p2 *Player) (*Player, *Player) {
	if g.seekerID == p1.ID {
		return p1, p2
	}
	return p2, p1
}

func TestAddRemovePlayer(t *testing.T) {
	g := NewGame("s", nil, nil)
	p := g.AddPlayer("alice")
	if p == nil {
		t.Fatal("join failed")
	}
	if !g.HasPlayer(p.ID) || g.PlayerCount() != 1 {
		t.Error("player not tracked after join")
	}
	if p.X != g.lobby.StartX || p.Y != g.lobby.StartY {
		t.Errorf("player should spawn at the lobby start, got (%f,%f)", p.X, p.Y)
	}
	g.RemovePlayer(p.ID)
	if g.HasPlayer(p.ID) || g.PlayerCount() != 0 {
		t.Error("player still tracked after leave")
	}
}

func TestAddPlayerLimits(t *testing.T) {
	g := NewGame("s", nil, nil)
	for i := 0; i < g.config.MaxPlayers; i++ {
		if g.AddPlayer("p") == nil {
			t.Fatalf("join %d should succeed", i)
		}
	}
	if g.AddPlayer("overflow") != nil {
		t.Error("join should fail when the session is full")
	}

	g2 := NewGame("s2", nil, nil)
	g2.AddPlayer("a")
	g2.phase = PhaseSeeking
	if g2.AddPlayer("late") != nil {
		t.Error("join should fail while a round is in progress")
	}
}

func TestReadyStartsCountdown(t *testing.T) {
	g, p1, p2, c1, _ := twoPlayerGame(t)

	g.HandleReady(p1.ID)
	if g.CurrentPhase() != PhaseLobby {
		t.Fatal("one ready player should not start the round")
	}
	g.HandleReady(p2.ID)
	if g.CurrentPhase() != PhaseCountdown {
		t.Fatal("all ready should start the countdown")
	}

	seeker, hider := seekerAndHider(g, p1, p2)
	if seeker.Role != RoleSeeker || hider.Role != RoleHider {
		t.Error("exactly one player should be the seeker")
	}
	if g.level != g.playMap {
		t.Error("round should switch to the play map")
	}

	env, ok := c1.lastMsg(MsgPhase)
	if !ok {
		t.Fatal("phase message not broadcast")
	}
	pm := env.Data.(PhaseMsg)
	if pm.Phase != int(PhaseCountdown) || pm.SeekerID != g.seekerID {
		t.Errorf("unexpected phase message: %+v", pm)
	}
}

func TestReadyToggle(t *testing.T) {
	g, p1, _, _, _ := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	if !p1.Ready {
		t.Error("first toggle should set ready")
	}
	g.HandleReady(p1.ID)
	if p1.Ready {
		t.Error("second toggle should clear ready")
	}
	g.HandleReady("nobody") // unknown id is ignored
}

func TestCountdownFreezesSeeker(t *testing.T) {
	g, p1, p2, _, _ := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	g.HandleReady(p2.ID)
	seeker, hider := seekerAndHider(g, p1, p2)

	seeker.Mask = InputDown
	hider.Mask = InputDown
	sx, sy := seeker.X, seeker.Y
	hy := hider.Y
	g.update(1.0 / TickRate)

	if seeker.X != sx || seeker.Y != sy {
		t.Error("seeker should be frozen during the countdown")
	}
	if hider.Y <= hy {
		t.Error("hiders should scatter during the countdown")
	}
}

func TestCountdownTransitionsToSeeking(t *testing.T) {
	g, p1, p2, c1, _ := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	g.HandleReady(p2.ID)
	_, hider := seekerAndHider(g, p1, p2)

	// Move the hider off the shared spawn so the seeker does not tag it
	// the instant the countdown ends.
	hider.X = 100
	hider.Y = 100

	ticks := int(g.config.HideTime*TickRate) + 1
	for i := 0; i < ticks; i++ {
		g.update(1.0 / TickRate)
	}
	if g.CurrentPhase() != PhaseSeeking {
		t.Fatalf("expected seeking phase, got %d", g.CurrentPhase())
	}
	env, ok := c1.lastMsg(MsgPhase)
	if !ok || env.Data.(PhaseMsg).Phase != int(PhaseSeeking) {
		t.Error("seeking transition not announced")
	}
}

func TestCatchEndsRoundAndReturnsToLobby(t *testing.T) {
	g, p1, p2, c1, _ := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	g.HandleReady(p2.ID)
	seeker, hider := seekerAndHider(g, p1, p2)

	g.phase = PhaseSeeking
	g.phaseT = g.config.SeekTime
	hider.X = seeker.X
	hider.Y = seeker.Y
	g.update(1.0 / TickRate)

	if hider.Alive {
		t.Fatal("overlapping hider should be caught")
	}
	if seeker.Catches != 1 {
		t.Errorf("seeker should have 1 catch, got %d", seeker.Catches)
	}
	if !c1.hasMsg(MsgCaught) {
		t.Error("catch not broadcast")
	}
	if g.CurrentPhase() != PhaseResults {
		t.Fatal("last catch should end the round")
	}
	env, _ := c1.lastMsg(MsgRoundOver)
	if !env.Data.(RoundOverMsg).SeekerWon {
		t.Error("seeker should win after catching everyone")
	}

	ticks := int(g.config.ResultTime*TickRate) + 1
	for i := 0; i < ticks; i++ {
		g.update(1.0 / TickRate)
	}
	if g.CurrentPhase() != PhaseLobby || g.level != g.lobby {
		t.Error("results should return to the lobby")
	}
	if !hider.Alive || hider.Ready || seeker.Role != RoleHider {
		t.Error("round state should reset in the lobby")
	}
}

func TestGhostPassesThroughWalls(t *testing.T) {
	g, p1, p2, _, _ := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	g.HandleReady(p2.ID)
	_, hider := seekerAndHider(g, p1, p2)
	g.phase = PhaseSeeking
	g.phaseT = g.config.SeekTime

	hider.Alive = false
	hider.X = 300
	hider.Y = 300
	hider.Mask = InputRight
	before := hider.X
	for i := 0; i < TickRate; i++ {
		g.update(1.0 / TickRate)
	}
	// One second at full speed, unobstructed by the warehouse crates.
	if hider.X-before < PlayerSpeed*0.99 {
		t.Errorf("ghost should move unobstructed, moved %f", hider.X-before)
	}
}

func TestSeekTimeoutHidersWin(t *testing.T) {
	g, p1, p2, c1, _ := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	g.HandleReady(p2.ID)
	_, hider := seekerAndHider(g, p1, p2)
	hider.X = 100
	hider.Y = 100

	g.phase = PhaseSeeking
	g.phaseT = 1.0 / TickRate
	g.update(1.0 / TickRate)

	if g.CurrentPhase() != PhaseResults {
		t.Fatal("expired clock should end the round")
	}
	env, ok := c1.lastMsg(MsgRoundOver)
	if !ok || env.Data.(RoundOverMsg).SeekerWon {
		t.Error("hiders should win on timeout")
	}
}

func TestSeekerLeavingEndsRound(t *testing.T) {
	g, p1, p2, c1, c2 := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	g.HandleReady(p2.ID)

	remaining := c1
	if g.seekerID == p1.ID {
		remaining = c2
	}
	g.RemovePlayer(g.seekerID)
	if g.CurrentPhase() != PhaseResults {
		t.Error("round should end when the seeker leaves")
	}
	env, ok := remaining.lastMsg(MsgRoundOver)
	if !ok || env.Data.(RoundOverMsg).SeekerWon {
		t.Error("hiders should be declared winners when the seeker leaves")
	}
}

func TestHandleInput(t *testing.T) {
	g, p1, _, _, _ := twoPlayerGame(t)
	g.HandleInput(p1.ID, ClientInput{Mask: InputLeft | InputUp})
	if p1.Mask != (InputLeft | InputUp) {
		t.Errorf("mask not stored, got %d", p1.Mask)
	}
	g.HandleInput("nobody", ClientInput{Mask: InputDown})

	snap := g.Metrics().Snapshot()
	if snap["inputs_accepted"].(int64) != 1 || snap["inputs_rejected"].(int64) != 1 {
		t.Errorf("metrics mismatch: %+v", snap)
	}
}

func TestBroadcastStateDecodes(t *testing.T) {
	g, p1, _, c1, _ := twoPlayerGame(t)
	g.HandleInput(p1.ID, ClientInput{Mask: InputRight})

	for i := 0; i < BroadcastEvery; i++ {
		g.update(1.0 / TickRate)
	}
	if len(c1.bins) == 0 {
		t.Fatal("no binary state broadcast")
	}

	var state RoundState
	if err := msgpack.Unmarshal(c1.bins[len(c1.bins)-1], &state); err != nil {
		t.Fatalf("state frame should decode: %v", err)
	}
	if len(state.Players) != 2 {
		t.Fatalf("expected 2 player states, got %d", len(state.Players))
	}
	if state.Phase != int(PhaseLobby) || state.Tick == 0 {
		t.Errorf("unexpected state header: %+v", state)
	}
	found := false
	for _, ps := range state.Players {
		if ps.ID == p1.ID && ps.X > g.lobby.StartX {
			found = true
		}
	}
	if !found {
		t.Error("moving player's position not reflected in the broadcast")
	}
}

func TestSpottedPings(t *testing.T) {
	g, p1, p2, c1, c2 := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	g.HandleReady(p2.ID)
	seeker, hider := seekerAndHider(g, p1, p2)
	seekerClient, hiderClient := c1, c2
	if seeker == p2 {
		seekerClient, hiderClient = c2, c1
	}

	g.phase = PhaseSeeking
	g.phaseT = g.config.SeekTime
	seeker.X, seeker.Y = 100, 700
	hider.X, hider.Y = 400, 700 // in range, clear line of sight

	for i := 0; i < BroadcastEvery; i++ {
		g.update(1.0 / TickRate)
	}
	env, ok := seekerClient.lastMsg(MsgSpotted)
	if !ok {
		t.Fatal("seeker should get a spotted ping")
	}
	ids := env.Data.(SpottedMsg).HiderIDs
	if len(ids) != 1 || ids[0] != hider.ID {
		t.Errorf("unexpected spotted ids: %v", ids)
	}
	if hiderClient.hasMsg(MsgSpotted) {
		t.Error("spotted pings must go to the seeker only")
	}
}

func TestSpottedBlockedByWall(t *testing.T) {
	g, p1, p2, c1, c2 := twoPlayerGame(t)
	g.HandleReady(p1.ID)
	g.HandleReady(p2.ID)
	seeker, hider := seekerAndHider(g, p1, p2)
	seekerClient := c1
	if seeker == p2 {
		seekerClient = c2
	}
	seekerClient.msgs = nil

	g.phase = PhaseSeeking
	g.phaseT = g.config.SeekTime

	// Place both behind opposite sides of a crate so distance is in range
	// but the sight line crosses its edges.
	crate := g.playMap.Polygons[4].AABB()
	cy := crate.Y + crate.H/2
	seeker.X, seeker.Y = crate.X-200, cy-ColliderSize/2
	hider.X, hider.Y = crate.Right()+200, cy-ColliderSize/2
	seeker.Mask, hider.Mask = 0, 0

	for i := 0; i < BroadcastEvery; i++ {
		g.update(1.0 / TickRate)
	}
	if seekerClient.hasMsg(MsgSpotted) {
		t.Error("spotted ping should be blocked by level geometry")
	}
}
