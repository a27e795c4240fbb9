package errors

import "fmt"

var (
	ErrBadMessage       = fmt.Errorf("bad message")
	ErrAlreadyJoined    = fmt.Errorf("already joined")
	ErrMemberNotFound   = fmt.Errorf("member not found")
	ErrJokeUnavailable  = fmt.Errorf("joke service unavailable")
	ErrSlowConsumer     = fmt.Errorf("send buffer full")
	ErrConnectionClosed = fmt.Errorf("connection closed")
	ErrSessionClosed    = fmt.Errorf("session closed")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
)
