package service

import "github.com/cwrk-planet/guestbook/internal/domain"

type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultSaved
	ResultInvalid
	ResultWriteFailed
)

// Result is the outcome of one submission, consumed by the renderer.
type Result struct {
	Kind   ResultKind
	Stage  domain.WriteStage
	Detail string
}

func (r Result) IsError() bool {
	return r.Kind == ResultInvalid || r.Kind == ResultWriteFailed
}

// Text is the banner shown above the form. Empty for ResultNone.
func (r Result) Text() string {
	switch r.Kind {
	case ResultSaved:
		return "Your message has been saved successfully!"
	case ResultInvalid:
		return "Please fill in both name and message fields."
	case ResultWriteFailed:
		if r.Stage == domain.StagePrepare {
			return "Database error: " + r.Detail
		}
		return "Error saving message: " + r.Detail
	default:
		return ""
	}
}
