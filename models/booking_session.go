package models

import "time"

type SelectionPhase string

const (
	PhaseEmpty      SelectionPhase = "empty"
	PhasePendingEnd SelectionPhase = "pendingEnd"
	PhaseComplete   SelectionPhase = "complete"
)

// Selection is the in-progress range over a TimePoint array; -1 means unset.
// A complete selection spans slots [StartIndex, EndIndex).
type Selection struct {
	Phase      SelectionPhase `json:"phase"`
	StartIndex int            `json:"startIndex"`
	EndIndex   int            `json:"endIndex"`
}

// EmptySelection returns the initial selection state.
func EmptySelection() Selection {
	return Selection{Phase: PhaseEmpty, StartIndex: -1, EndIndex: -1}
}

// SelectionSession holds one user's in-progress booking for a room/date pair.
type SelectionSession struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	RoomID    string    `json:"roomId"`
	Date      string    `json:"date"`
	Selection Selection `json:"selection"`
	// Version is bumped on every save; a save from a stale copy is rejected.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionView is a session together with the freshly built grid it refers to.
type SessionView struct {
	Session       SelectionSession `json:"session"`
	Points        []TimePoint      `json:"points"`
	Periods       []Period         `json:"periods"`
	SelectedRange string           `json:"selectedRange,omitempty"`
}
