// Package game holds the error taxonomy shared by all game engines and
// the services that drive them. Handlers map these sentinels to user
// replies in one place instead of formatting messages per game.
package game

import "errors"

var (
	// ErrInvalidInput means the user supplied a malformed argument,
	// such as a non-numeric bet or a word of the wrong length.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientBalance means the wallet cannot cover the stake.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCooldownActive means the command was used again too soon.
	ErrCooldownActive = errors.New("cooldown active")

	// ErrInvalidMove means a move that the current game state forbids,
	// such as playing an occupied cell or moving out of turn.
	ErrInvalidMove = errors.New("invalid move")

	// ErrNotFound means the referenced session, user, or item does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps unexpected database failures.
	ErrStorage = errors.New("storage failure")
)
