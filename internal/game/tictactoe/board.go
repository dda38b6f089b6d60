// Package tictactoe holds the 3x3 board engine and the challenge and
// match state for wagered matches.
package tictactoe

import "gamebot/internal/game"

// Symbol is a board cell occupant.
type Symbol byte

const (
	Empty Symbol = ' '
	X     Symbol = 'X'
	O     Symbol = 'O'
)

// Outcome is the terminal classification of a board.
type Outcome int

const (
	// Ongoing means the game continues.
	Ongoing Outcome = iota
	// WinX means X completed a line.
	WinX
	// WinO means O completed a line.
	WinO
	// Draw means the board is full with no winner.
	Draw
)

// Board is the 9-cell grid, row-major from the top left.
type Board [9]Symbol

// NewBoard returns an empty board.
func NewBoard() Board {
	var b Board
	for i := range b {
		b[i] = Empty
	}
	return b
}

// winningTriples lists the 3 rows, 3 columns, and 2 diagonals.
var winningTriples = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Apply sets a cell to the given symbol. It fails with ErrInvalidMove
// on an out-of-range index or an occupied cell, leaving the board
// unchanged.
func (b *Board) Apply(idx int, s Symbol) error {
	if idx < 0 || idx >= len(b) {
		return game.ErrInvalidMove
	}
	if b[idx] != Empty {
		return game.ErrInvalidMove
	}
	b[idx] = s
	return nil
}

// Evaluate classifies the board after a move.
func (b Board) Evaluate() Outcome {
	for _, t := range winningTriples {
		if b[t[0]] != Empty && b[t[0]] == b[t[1]] && b[t[1]] == b[t[2]] {
			if b[t[0]] == X {
				return WinX
			}
			return WinO
		}
	}
	for _, c := range b {
		if c == Empty {
			return Ongoing
		}
	}
	return Draw
}

// Other returns the opposing symbol.
func Other(s Symbol) Symbol {
	if s == X {
		return O
	}
	return X
}
