package events

import (
	"encoding/json"

	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
)

// Message is an inbound client action; Data stays raw until the action
// type picks the payload shape.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event is an outbound notification.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Inbound action types.
const (
	ActionCreateRoom     = "create-room"
	ActionJoinRoom       = "join-room"
	ActionGetRoomState   = "get-room-state"
	ActionUpdateSettings = "update-settings"
	ActionStartGame      = "start-game"
	ActionSubmitStories  = "submit-stories"
	ActionSubmitVote     = "submit-vote"
	ActionResetGame      = "reset-game"
	ActionChatMessage    = "chat-message"
	ActionVoiceSignal    = "voice-signal"
	ActionLeaveRoom      = "leave-room"
)

// Outbound event types.
const (
	EventConnected              = "connected"
	EventRoomJoined             = "room-joined"
	EventPlayerJoined           = "player-joined"
	EventPlayerLeft             = "player-left"
	EventSettingsUpdated        = "settings-updated"
	EventStorySubmissionStarted = "story-submission-started"
	EventStoriesSubmitted       = "stories-submitted"
	EventGameStarted            = "game-started"
	EventTimerUpdate            = "timer-update"
	EventVotingStarted          = "voting-started"
	EventVotingTimerUpdate      = "voting-timer-update"
	EventVoteSubmitted          = "vote-submitted"
	EventRevealResults          = "reveal-results"
	EventResultTimerUpdate      = "result-timer-update"
	EventNextRound              = "next-round"
	EventGameOver               = "game-over"
	EventGameReset              = "game-reset"
	EventChatMessage            = "chat-message"
	EventVoiceSignal            = "voice-signal"
	EventRoomClosed             = "room-closed"
	EventRoomError              = "room-error"
)

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type RoomRequest struct {
	RoomID string `json:"roomId"`
}

type UpdateSettingsRequest struct {
	RoomID   string               `json:"roomId"`
	Settings domain.SettingsPatch `json:"settings"`
}

type SubmitStoriesRequest struct {
	RoomID  string   `json:"roomId"`
	Stories []string `json:"stories"`
	IsTruth int      `json:"isTruth"`
}

type SubmitVoteRequest struct {
	RoomID       string `json:"roomId"`
	GuessedIndex int    `json:"guessedIndex"`
}

type ChatMessageRequest struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

type VoiceSignalRequest struct {
	RoomID         string          `json:"roomId"`
	TargetPlayerID string          `json:"targetPlayerId"`
	Payload        json.RawMessage `json:"payload"`
}

type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
}

type PlayerJoinedPayload struct {
	RoomID  string           `json:"roomId"`
	Player  *domain.Player   `json:"player"`
	Players []*domain.Player `json:"players"`
}

type PlayerLeftPayload struct {
	PlayerID   string           `json:"playerId"`
	PlayerName string           `json:"playerName"`
	Players    []*domain.Player `json:"players"`
	HostID     string           `json:"hostId"`
}

type StoriesSubmittedPayload struct {
	PlayerID string       `json:"playerId"`
	Room     *domain.Room `json:"room"`
}

type VoteSubmittedPayload struct {
	PlayerID string       `json:"playerId"`
	Room     *domain.Room `json:"room"`
}

type TimerUpdatePayload struct {
	SecondsLeft     int    `json:"secondsLeft"`
	CurrentPlayerID string `json:"currentPlayerId,omitempty"`
}

type VoiceSignalPayload struct {
	FromID  string          `json:"fromId"`
	Payload json.RawMessage `json:"payload"`
}

type RoomClosedPayload struct {
	Message string `json:"message"`
}

type RoomErrorPayload struct {
	Message string `json:"message"`
}
