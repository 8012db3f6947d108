// internal/application/ui/observer.go
package ui

import (
	"errors"
	"strings"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
)

// Observer is the loading/alert sink injected into each orchestrator.
// Calls are fire-and-forget; the last write wins.
type Observer interface {
	OnLoadingChange(loading bool)
	OnAlert(message string)
}

// Funcs adapts plain functions to Observer. Nil fields are ignored.
type Funcs struct {
	Loading func(bool)
	Alert   func(string)
}

var _ Observer = Funcs{}

func (f Funcs) OnLoadingChange(loading bool) {
	if f.Loading != nil {
		f.Loading(loading)
	}
}

func (f Funcs) OnAlert(message string) {
	if f.Alert != nil {
		f.Alert(message)
	}
}

// Nop discards every signal.
var Nop Observer = Funcs{}

// AlertMessage converts a pipeline error into the user-facing alert text.
// Chain rejections are passed through verbatim.
func AlertMessage(err error) string {
	if err == nil {
		return ""
	}
	var rej *contract.RejectionError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	return msg
}
