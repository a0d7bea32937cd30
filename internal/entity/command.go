package entity

type CommandType string

const (
	CommandCreate     CommandType = "create"
	CommandJoin       CommandType = "join"
	CommandMove       CommandType = "move"
	CommandChat       CommandType = "chat"
	CommandResetRound CommandType = "resetRound"
	CommandLeave      CommandType = "leave"
)

// Command is a parsed inbound envelope.
type Command struct {
	Type     CommandType `json:"type"`
	GameType GameType    `json:"gameType,omitempty"`
	GameID   string      `json:"gameId,omitempty"`
	Name     string      `json:"name,omitempty"`
	Move     *Move       `json:"move,omitempty"`
	Message  string      `json:"message,omitempty"`
}
