package core

import (
	"github.com/Rorical/DocPilot/internal/models"
)

// MessageLog is the append-only, ordered sequence of turns.
// It is not safe for concurrent use; Conversation guards it.
type MessageLog struct {
	turns  []models.Turn
	nextID uint64
}

func NewMessageLog() *MessageLog {
	return &MessageLog{
		turns:  make([]models.Turn, 0),
		nextID: 1,
	}
}

// Append assigns the next ID to turn and stores it. The stored turn is returned.
func (l *MessageLog) Append(turn models.Turn) models.Turn {
	turn.ID = l.nextID
	l.nextID++
	l.turns = append(l.turns, turn)
	return turn
}

func (l *MessageLog) Last() (models.Turn, bool) {
	if len(l.turns) == 0 {
		return models.Turn{}, false
	}
	return l.turns[len(l.turns)-1], true
}

func (l *MessageLog) Len() int {
	return len(l.turns)
}

// Turns returns a copy of the log.
func (l *MessageLog) Turns() []models.Turn {
	result := make([]models.Turn, len(l.turns))
	copy(result, l.turns)
	return result
}
