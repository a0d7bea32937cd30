package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

var ErrMissingType = errors.New("message type is required")

// decodeCommand - parses one inbound text frame.
func decodeCommand(raw []byte) (*entity.Command, error) {
	var cmd entity.Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if cmd.Type == "" {
		return nil, ErrMissingType
	}

	return &cmd, nil
}

func encodeEvent(event *entity.Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return body, nil
}
