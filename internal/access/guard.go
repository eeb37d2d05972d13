// Package access decides what a caller may do with a board.
package access

import (
	"errors"

	"github.com/google/uuid"

	"taskboard/internal/model"
)

var ErrForbidden = errors.New("not authorized to access this board")

// CanRead allows the owner and members to see the board and its tasks.
func CanRead(b *model.Board, userID uuid.UUID) bool {
	return b.IsOwner(userID) || b.IsMember(userID)
}

// CanWriteStructure covers board update/delete, list delete and membership.
func CanWriteStructure(b *model.Board, userID uuid.UUID) bool {
	return b.IsOwner(userID)
}

// CanWriteContent covers adding and moving lists and every task mutation.
func CanWriteContent(b *model.Board, userID uuid.UUID) bool {
	return b.IsOwner(userID) || b.IsMember(userID)
}

func RequireRead(b *model.Board, userID uuid.UUID) error {
	if !CanRead(b, userID) {
		return ErrForbidden
	}
	return nil
}

func RequireStructure(b *model.Board, userID uuid.UUID) error {
	if !CanWriteStructure(b, userID) {
		return ErrForbidden
	}
	return nil
}

func RequireContent(b *model.Board, userID uuid.UUID) error {
	if !CanWriteContent(b, userID) {
		return ErrForbidden
	}
	return nil
}
