package domain

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusWaiting         Status = "WAITING"
	StatusStorySubmission Status = "STORY_SUBMISSION"
	StatusQuestioning     Status = "QUESTIONING"
	StatusVoting          Status = "VOTING"
	StatusReveal          Status = "REVEAL"
	StatusGameOver        Status = "GAME_OVER"
)

const (
	MinRoundTime = 60
	MaxRoundTime = 1200
	MinPlayers   = 2
	MaxPlayers   = 8

	storyCount = 3
)

type GameSettings struct {
	RoundTime           int  `json:"roundTime"`           // questioning window, seconds
	QuestionTime        int  `json:"questionTime"`        // voting window, seconds
	StorySubmissionTime int  `json:"storySubmissionTime"` // recognized, no timer attached
	ResultTime          int  `json:"resultTime"`          // reveal window, seconds
	MaxPlayers          int  `json:"maxPlayers"`
	AllowVoiceChat      bool `json:"allowVoiceChat"`
	AllowTextChat       bool `json:"allowTextChat"`
	AutoStart           bool `json:"autoStart"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		RoundTime:           60,
		QuestionTime:        30,
		StorySubmissionTime: 60,
		ResultTime:          10,
		MaxPlayers:          5,
		AllowVoiceChat:      true,
		AllowTextChat:       true,
		AutoStart:           false,
	}
}

// SettingsPatch is a partial settings update; nil fields keep the
// current value.
type SettingsPatch struct {
	RoundTime           *int  `json:"roundTime"`
	QuestionTime        *int  `json:"questionTime"`
	StorySubmissionTime *int  `json:"storySubmissionTime"`
	ResultTime          *int  `json:"resultTime"`
	MaxPlayers          *int  `json:"maxPlayers"`
	AllowVoiceChat      *bool `json:"allowVoiceChat"`
	AllowTextChat       *bool `json:"allowTextChat"`
	AutoStart           *bool `json:"autoStart"`
}

type Player struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Score        int      `json:"score"`
	Stories      []string `json:"stories"`
	IsTruth      *int     `json:"isTruth"`
	HasSubmitted bool     `json:"hasSubmitted"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Room struct {
	ID              string        `json:"id"`
	Players         []*Player     `json:"players"`
	Status          Status        `json:"status"`
	CurrentRound    int           `json:"currentRound"`
	CurrentPlayerID string        `json:"currentPlayerId"`
	HostID          string        `json:"hostId"`
	Settings        GameSettings  `json:"gameSettings"`
	Votes           map[string]int `json:"votes"`
	ChatHistory     []ChatMessage `json:"chatHistory"`
	CreatedAt       time.Time     `json:"createdAt"`

	// Version backs the store's optimistic concurrency check.
	Version int64 `json:"-"`
}

// NormalizeID makes room ids case-insensitive-safe for lookups.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func NewRoom(id, hostID, hostName string) *Room {
	return &Room{
		ID:          NormalizeID(id),
		Players:     []*Player{newPlayer(hostID, hostName)},
		Status:      StatusWaiting,
		HostID:      hostID,
		Settings:    DefaultGameSettings(),
		Votes:       make(map[string]int),
		ChatHistory: []ChatMessage{},
		CreatedAt:   time.Now().UTC(),
	}
}

func newPlayer(id, name string) *Player {
	return &Player{
		ID:      id,
		Name:    name,
		Stories: []string{},
	}
}

func (r *Room) Player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerIndex(id string) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AddPlayer appends a player in join order. The returned flag reports
// that the autoStart setting kicked the game off.
func (r *Room) AddPlayer(id, name string) (autoStarted bool, err error) {
	if len(r.Players) >= r.Settings.MaxPlayers {
		return false, ErrRoomFull
	}
	if r.Player(id) != nil {
		return false, NewValidationError("already in room")
	}

	r.Players = append(r.Players, newPlayer(id, name))

	if r.Settings.AutoStart && r.Status == StatusWaiting && len(r.Players) == r.Settings.MaxPlayers {
		r.Status = StatusStorySubmission
		return true, nil
	}

	return false, nil
}

// Departure describes everything a removal changed, so the caller knows
// which events to broadcast and which timers to touch.
type Departure struct {
	PlayerID   string
	PlayerName string

	// Empty means the room has no players left and must be deleted.
	Empty bool

	// NewHostID is set when host privileges moved to another player.
	NewHostID string

	// RoundAdvanced means the departing hot-seat player forced an
	// immediate round advance; the room is now in QUESTIONING or
	// GAME_OVER.
	RoundAdvanced bool

	// SubmissionComplete means the departure left every remaining player
	// submitted, starting the game out of STORY_SUBMISSION.
	SubmissionComplete bool

	// RevealStarted means the departure completed the vote set and the
	// round resolved into REVEAL.
	RevealStarted bool
}

// RemovePlayer handles leave and disconnect identically.
func (r *Room) RemovePlayer(id string) (*Departure, error) {
	idx := r.playerIndex(id)
	if idx < 0 {
		return nil, ErrNotInRoom
	}

	dep := &Departure{PlayerID: id, PlayerName: r.Players[idx].Name}
	wasHotSeat := r.CurrentPlayerID == id

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	delete(r.Votes, id)

	if len(r.Players) == 0 {
		dep.Empty = true
		return dep, nil
	}

	if r.HostID == id {
		r.HostID = r.Players[0].ID
		dep.NewHostID = r.HostID
	}

	switch r.Status {
	case StatusStorySubmission:
		// The last pending submitter may have just left.
		if r.startIfAllSubmitted() {
			dep.SubmissionComplete = true
		}
	case StatusQuestioning, StatusVoting, StatusReveal:
		if wasHotSeat {
			// Treat the departure as an implicit empty reveal: advance
			// exactly as a normal round-end would, using the vacated
			// positional slot.
			r.clearVotes()
			if idx >= len(r.Players) {
				r.finishGame()
			} else {
				r.CurrentPlayerID = r.Players[idx].ID
				r.CurrentRound++
				r.Status = StatusQuestioning
			}
			dep.RoundAdvanced = true
		} else if r.Status == StatusVoting && r.allVoted() {
			r.enterReveal()
			dep.RevealStarted = true
		}
	}

	return dep, nil
}

// UpdateSettings merges a partial update after validating it. Values are
// rejected, never clamped.
func (r *Room) UpdateSettings(actorID string, patch SettingsPatch) error {
	if actorID != r.HostID {
		return ErrUnauthorized
	}

	if patch.RoundTime != nil && (*patch.RoundTime < MinRoundTime || *patch.RoundTime > MaxRoundTime) {
		return NewValidationError(fmt.Sprintf("roundTime must be between %d and %d seconds", MinRoundTime, MaxRoundTime))
	}
	if patch.MaxPlayers != nil {
		if *patch.MaxPlayers < MinPlayers || *patch.MaxPlayers > MaxPlayers {
			return NewValidationError(fmt.Sprintf("maxPlayers must be between %d and %d", MinPlayers, MaxPlayers))
		}
		if *patch.MaxPlayers < len(r.Players) {
			return NewValidationError("maxPlayers cannot be below the current player count")
		}
	}
	if patch.QuestionTime != nil && *patch.QuestionTime <= 0 {
		return NewValidationError("questionTime must be positive")
	}
	if patch.StorySubmissionTime != nil && *patch.StorySubmissionTime <= 0 {
		return NewValidationError("storySubmissionTime must be positive")
	}
	if patch.ResultTime != nil && *patch.ResultTime <= 0 {
		return NewValidationError("resultTime must be positive")
	}

	if patch.RoundTime != nil {
		r.Settings.RoundTime = *patch.RoundTime
	}
	if patch.QuestionTime != nil {
		r.Settings.QuestionTime = *patch.QuestionTime
	}
	if patch.StorySubmissionTime != nil {
		r.Settings.StorySubmissionTime = *patch.StorySubmissionTime
	}
	if patch.ResultTime != nil {
		r.Settings.ResultTime = *patch.ResultTime
	}
	if patch.MaxPlayers != nil {
		r.Settings.MaxPlayers = *patch.MaxPlayers
	}
	if patch.AllowVoiceChat != nil {
		r.Settings.AllowVoiceChat = *patch.AllowVoiceChat
	}
	if patch.AllowTextChat != nil {
		r.Settings.AllowTextChat = *patch.AllowTextChat
	}
	if patch.AutoStart != nil {
		r.Settings.AutoStart = *patch.AutoStart
	}

	return nil
}

// Start moves WAITING to STORY_SUBMISSION.
func (r *Room) Start(actorID string) error {
	if actorID != r.HostID {
		return ErrUnauthorized
	}
	if r.Status != StatusWaiting {
		return ErrInvalidPhase
	}
	if len(r.Players) < MinPlayers {
		return NewValidationError("need at least 2 players to start")
	}

	r.Status = StatusStorySubmission
	return nil
}

// SubmitStories records a player's three stories and truth index. The
// returned flag reports that the full set is in and questioning began.
func (r *Room) SubmitStories(playerID string, stories []string, isTruth int) (started bool, err error) {
	if r.Status != StatusStorySubmission {
		return false, ErrInvalidPhase
	}
	if len(stories) != storyCount {
		return false, NewValidationError("exactly 3 stories are required")
	}
	for _, s := range stories {
		if strings.TrimSpace(s) == "" {
			return false, NewValidationError("stories cannot be empty")
		}
	}
	if isTruth < 0 || isTruth >= storyCount {
		return false, NewValidationError("isTruth must be 0, 1 or 2")
	}

	p := r.Player(playerID)
	if p == nil {
		return false, ErrNotInRoom
	}

	p.Stories = append([]string(nil), stories...)
	truth := isTruth
	p.IsTruth = &truth
	p.HasSubmitted = true

	return r.startIfAllSubmitted(), nil
}

func (r *Room) startIfAllSubmitted() bool {
	if len(r.Players) < MinPlayers {
		return false
	}
	for _, p := range r.Players {
		if !p.HasSubmitted {
			return false
		}
	}

	r.Status = StatusQuestioning
	r.CurrentRound = 1
	r.CurrentPlayerID = r.Players[0].ID
	return true
}

// SubmitVote records a guess against the hot-seat player's stories. The
// returned flag reports that the vote set is complete and the round
// resolved into REVEAL.
func (r *Room) SubmitVote(voterID string, guessedIndex int) (revealed bool, err error) {
	if r.Status != StatusVoting {
		return false, ErrInvalidPhase
	}
	if guessedIndex < 0 || guessedIndex >= storyCount {
		return false, NewValidationError("guessedIndex must be 0, 1 or 2")
	}
	if voterID == r.CurrentPlayerID {
		return false, ErrSelfVote
	}
	if r.Player(voterID) == nil {
		return false, ErrNotInRoom
	}

	r.Votes[voterID] = guessedIndex

	if r.allVoted() {
		r.enterReveal()
		return true, nil
	}
	return false, nil
}

func (r *Room) allVoted() bool {
	for _, p := range r.Players {
		if p.ID == r.CurrentPlayerID {
			continue
		}
		if _, ok := r.Votes[p.ID]; !ok {
			return false
		}
	}
	return true
}

// BeginVoting is the questioning timer's expiry transition.
func (r *Room) BeginVoting() error {
	if r.Status != StatusQuestioning {
		return ErrInvalidPhase
	}
	r.Status = StatusVoting
	return nil
}

// BeginReveal is the voting timer's expiry transition; it resolves the
// round with whatever votes exist.
func (r *Room) BeginReveal() error {
	if r.Status != StatusVoting {
		return ErrInvalidPhase
	}
	r.enterReveal()
	return nil
}

// enterReveal is the single place scores are applied, so a round can
// never be counted twice.
func (r *Room) enterReveal() {
	r.Status = StatusReveal
	r.applyScores()
}

// AdvanceRound rotates the hot seat after a reveal. The returned flag
// reports that the rotation wrapped and the game is over.
func (r *Room) AdvanceRound() (over bool, err error) {
	if r.Status != StatusReveal {
		return false, ErrInvalidPhase
	}

	r.clearVotes()

	next := (r.playerIndex(r.CurrentPlayerID) + 1) % len(r.Players)
	if next == 0 {
		r.finishGame()
		return true, nil
	}

	r.CurrentPlayerID = r.Players[next].ID
	r.CurrentRound++
	r.Status = StatusQuestioning
	return false, nil
}

func (r *Room) finishGame() {
	r.Status = StatusGameOver
	r.CurrentPlayerID = ""
}

// Reset returns the room to WAITING. Scores survive; everything round-
// scoped is cleared.
func (r *Room) Reset(actorID string) error {
	if actorID != r.HostID {
		return ErrUnauthorized
	}

	r.Status = StatusWaiting
	r.CurrentRound = 0
	r.CurrentPlayerID = ""
	r.clearVotes()

	for _, p := range r.Players {
		p.Stories = []string{}
		p.IsTruth = nil
		p.HasSubmitted = false
	}

	return nil
}

func (r *Room) clearVotes() {
	r.Votes = make(map[string]int)
}

// AppendChat records a chat entry for the room's lifetime.
func (r *Room) AppendChat(msg ChatMessage) error {
	if !r.Settings.AllowTextChat {
		return NewValidationError("text chat is disabled in this room")
	}
	if r.Player(msg.PlayerID) == nil {
		return ErrNotInRoom
	}
	if strings.TrimSpace(msg.Text) == "" {
		return NewValidationError("empty chat message")
	}

	r.ChatHistory = append(r.ChatHistory, msg)
	return nil
}

// PlayerIDs returns the ids in join order.
func (r *Room) PlayerIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// Open reports whether the room accepts new players.
func (r *Room) Open() bool {
	return r.Status == StatusWaiting && len(r.Players) < r.Settings.MaxPlayers
}

// Clone returns a deep copy, so store snapshots never alias live state.
func (r *Room) Clone() *Room {
	clone := *r

	clone.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		cp := *p
		cp.Stories = append([]string(nil), p.Stories...)
		if p.IsTruth != nil {
			truth := *p.IsTruth
			cp.IsTruth = &truth
		}
		clone.Players[i] = &cp
	}

	clone.Votes = make(map[string]int, len(r.Votes))
	for k, v := range r.Votes {
		clone.Votes[k] = v
	}

	clone.ChatHistory = append([]ChatMessage(nil), r.ChatHistory...)

	return &clone
}
