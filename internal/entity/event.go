package entity

type EventType string

const (
	EventInit         EventType = "init"
	EventCreated      EventType = "created"
	EventGameState    EventType = "gameState"
	EventError        EventType = "error"
	EventChat         EventType = "chat"
	EventOpponentLeft EventType = "opponentLeft"
)

// Event is an outbound envelope; only the fields relevant to its type are set.
type Event struct {
	Type     EventType `json:"type"`
	PlayerID string    `json:"playerId,omitempty"`
	GameID   string    `json:"gameId,omitempty"`
	Game     *Snapshot `json:"game,omitempty"`
	Name     string    `json:"name,omitempty"`
	Message  string    `json:"message,omitempty"`
}

func InitEvent(playerID string) *Event {
	return &Event{Type: EventInit, PlayerID: playerID}
}

func CreatedEvent(gameID string) *Event {
	return &Event{Type: EventCreated, GameID: gameID}
}

func GameStateEvent(snapshot *Snapshot) *Event {
	return &Event{Type: EventGameState, Game: snapshot}
}

func ErrorEvent(message string) *Event {
	return &Event{Type: EventError, Message: message}
}

func ChatEvent(name, message string) *Event {
	return &Event{Type: EventChat, Name: name, Message: message}
}

func OpponentLeftEvent() *Event {
	return &Event{Type: EventOpponentLeft}
}
