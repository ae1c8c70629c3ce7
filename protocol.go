package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgInput    = "input"
	MsgCreate   = "create" // create session
	MsgList     = "list"   // list sessions
	MsgCheck    = "check"  // check if session exists
	MsgReady    = "ready"  // toggle ready in lobby
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // token re-auth
	MsgProfile  = "profile"
)

// Server -> Client message types
const (
	MsgState       = "state" // binary msgpack, not wrapped in Envelope
	MsgWelcome     = "welcome"
	MsgJoined      = "joined"
	MsgCreated     = "created"
	MsgSessions    = "sessions"
	MsgChecked     = "checked"
	MsgError       = "error"
	MsgPhase       = "phase"   // lifecycle transition, carries the map
	MsgCaught      = "caught"  // a hider was tagged
	MsgSpotted     = "spotted" // seeker-only line-of-sight ping
	MsgRoundOver   = "roundover"
	MsgAchievement = "achievement"
	MsgAuthOK      = "authok"
	MsgProfileData = "profiledata"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput carries the 4-bit direction mask (left/right/up/down).
// The compact binary path sends the same mask as [0x01, mask].
type ClientInput struct {
	Mask uint8 `json:"m"`
}

// JoinMsg is sent when a player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when a player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
}

// PlayerState is broadcast per player each state tick
type PlayerState struct {
	ID    string  `json:"id" msgpack:"id"`
	Name  string  `json:"n" msgpack:"n"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Role  int     `json:"r" msgpack:"r"`
	Alive bool    `json:"a" msgpack:"a"`
	Ready bool    `json:"rd" msgpack:"rd"`
}

// RoundState is the full per-tick broadcast, msgpack-encoded as a binary
// frame. Clients reconcile their predicted position against their entry.
type RoundState struct {
	Players  []PlayerState `msgpack:"p"`
	Phase    int           `msgpack:"ph"`
	TimeLeft float64       `msgpack:"tl"`
	SeekerID string        `msgpack:"sk"`
	Tick     uint64        `msgpack:"tick"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID  string  `json:"id"`
	Map MapData `json:"map"`
}

// PhaseMsg announces a lifecycle transition and the map it plays on
type PhaseMsg struct {
	Phase    int     `json:"ph"`
	SeekerID string  `json:"sk,omitempty"`
	Duration float64 `json:"dur"`
	Map      MapData `json:"map"`
}

// CaughtMsg is broadcast when the seeker tags a hider
type CaughtMsg struct {
	SeekerID   string `json:"sid"`
	SeekerName string `json:"sn"`
	HiderID    string `json:"hid"`
	HiderName  string `json:"hn"`
	Remaining  int    `json:"rem"` // hiders still free
}

// SpottedMsg is sent to the seeker only, listing hiders in line of sight
type SpottedMsg struct {
	HiderIDs []string `json:"ids"`
}

// RoundOverMsg announces the winner side
type RoundOverMsg struct {
	SeekerWon bool    `json:"sw"`
	SeekerID  string  `json:"sk"`
	Duration  float64 `json:"dur"`
}

// AchievementMsg notifies a player of freshly unlocked achievements
type AchievementMsg struct {
	Unlocked []AchievementDef `json:"unlocked"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
	Phase   int    `json:"phase"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// CheckMsg is sent by a client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg authenticates with credentials
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg re-authenticates with a previously issued token
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"tok"`
	Username string `json:"u"`
	PlayerID int64  `json:"pid"`
}

// ProfileDataMsg returns persistent stats for the logged-in account
type ProfileDataMsg struct {
	Username   string  `json:"u"`
	Rounds     int     `json:"rounds"`
	Catches    int     `json:"catches"`
	Escapes    int     `json:"escapes"`
	SeekerWins int     `json:"swins"`
	HiderWins  int     `json:"hwins"`
	Playtime   float64 `json:"playtime"`
}
