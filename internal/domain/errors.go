package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConnect      = errors.New("store connection failed")
	ErrInvalidInput = errors.New("name and message are required")
)

type WriteStage string

const (
	StagePrepare WriteStage = "prepare"
	StageExec    WriteStage = "exec"
)

// WriteError is an insert rejected by the store. Err carries the store's own text.
type WriteError struct {
	Stage WriteStage
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s message: %v", e.Stage, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Detail is the store error text without stage decoration.
func (e *WriteError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ConnectError is a failure to obtain a store connection. It matches ErrConnect.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return "connect: " + e.Err.Error()
}

func (e *ConnectError) Unwrap() error { return e.Err }

func (e *ConnectError) Is(target error) bool { return target == ErrConnect }
