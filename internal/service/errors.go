package service

import "errors"

// Business errors surfaced to the handler layer.
var (
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateReadOnly = errors.New("built-in templates cannot be modified")
	ErrInternalServer   = errors.New("internal server error")
)
