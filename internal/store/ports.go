package store

import (
	"context"

	"kassa/internal/core"
)

// BoardDocument is the full persisted board record for one user: the board
// collection plus the active-board pointer. It round-trips through JSON.
type BoardDocument struct {
	Boards        []core.Board `json:"boards"`
	ActiveBoardID string       `json:"active_board_id"`
}

// Ports for outbound persistence adapters. The stores own these records
// exclusively; nothing else writes to the underlying medium.
type (
	BoardPersistence interface {
		// LoadBoards returns the persisted document for the user, or
		// (nil, nil) when no record exists yet.
		LoadBoards(ctx context.Context, userID string) (*BoardDocument, error)
		SaveBoards(ctx context.Context, userID string, doc *BoardDocument) error
	}

	BillPersistence interface {
		// LoadBills returns the persisted bills for the user; an absent
		// record yields (nil, nil).
		LoadBills(ctx context.Context, userID string) ([]core.Bill, error)
		SaveBills(ctx context.Context, userID string, bills []core.Bill) error
		// Users lists every user with a persisted bill record. The
		// reminder worker scans these.
		Users(ctx context.Context) ([]string, error)
	}
)
