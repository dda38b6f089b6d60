package tictactoe

import "gamebot/internal/game"

// Challenge is an open wager waiting for an opponent. It is keyed by
// the (chat, message) location of the challenge post.
type Challenge struct {
	CreatorID   int64
	CreatorName string
	Bet         int64
}

// Match is a running game between two players who each staked Bet.
type Match struct {
	Board       Board
	Current     Symbol
	PlayerXID   int64
	PlayerXName string
	PlayerOID   int64
	PlayerOName string
	Bet         int64
	Pot         int64
	Finished    bool
}

// NewMatch starts a match from an accepted challenge. The challenger
// plays X and moves first; the pot is both stakes combined.
func NewMatch(c Challenge, opponentID int64, opponentName string) *Match {
	return &Match{
		Board:       NewBoard(),
		Current:     X,
		PlayerXID:   c.CreatorID,
		PlayerXName: c.CreatorName,
		PlayerOID:   opponentID,
		PlayerOName: opponentName,
		Bet:         c.Bet,
		Pot:         c.Bet * 2,
	}
}

// MoveResult reports what a move did to the match.
type MoveResult struct {
	Outcome Outcome
	// WinnerID and WinnerName are set when Outcome is WinX or WinO.
	WinnerID   int64
	WinnerName string
}

// ApplyMove plays a cell for the given user. It rejects moves on a
// finished match, moves by a non-participant or out of turn, and
// occupied or out-of-range cells. On a terminal move the match is
// frozen and the result carries the winner, if any.
func (m *Match) ApplyMove(userID int64, idx int) (MoveResult, error) {
	if m.Finished {
		return MoveResult{}, game.ErrInvalidMove
	}
	if userID != m.turnPlayerID() {
		return MoveResult{}, game.ErrInvalidMove
	}
	if err := m.Board.Apply(idx, m.Current); err != nil {
		return MoveResult{}, err
	}

	outcome := m.Board.Evaluate()
	switch outcome {
	case WinX:
		m.Finished = true
		return MoveResult{Outcome: WinX, WinnerID: m.PlayerXID, WinnerName: m.PlayerXName}, nil
	case WinO:
		m.Finished = true
		return MoveResult{Outcome: WinO, WinnerID: m.PlayerOID, WinnerName: m.PlayerOName}, nil
	case Draw:
		m.Finished = true
		return MoveResult{Outcome: Draw}, nil
	}

	m.Current = Other(m.Current)
	return MoveResult{Outcome: Ongoing}, nil
}

func (m *Match) turnPlayerID() int64 {
	if m.Current == X {
		return m.PlayerXID
	}
	return m.PlayerOID
}

// TurnName returns the display name of the player whose turn it is.
func (m *Match) TurnName() string {
	if m.Current == X {
		return m.PlayerXName
	}
	return m.PlayerOName
}

// IsPlayer reports whether the user is one of the two participants.
func (m *Match) IsPlayer(userID int64) bool {
	return userID == m.PlayerXID || userID == m.PlayerOID
}
