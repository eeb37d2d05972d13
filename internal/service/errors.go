package service

import "errors"

var (
	ErrAlreadyMember  = errors.New("user is already a member")
	ErrNotBoardMember = errors.New("user must be a board member to be assigned")
	ErrEmptyTitle     = errors.New("title is required")
)
