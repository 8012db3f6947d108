package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/curaOS/Creative-Project/internal/application/ui"
)

// consoleObserver prints loading transitions and alerts, one line each.
// Repeated loading values are collapsed.
type consoleObserver struct {
	mu      sync.Mutex
	w       io.Writer
	loading bool
	alerts  []string
}

var _ ui.Observer = (*consoleObserver)(nil)

func newConsoleObserver(w io.Writer) *consoleObserver {
	return &consoleObserver{w: w}
}

func (o *consoleObserver) OnLoadingChange(loading bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if loading == o.loading {
		return
	}
	o.loading = loading
	if loading {
		fmt.Fprintln(o.w, "... working")
	} else {
		fmt.Fprintln(o.w, "... done")
	}
}

func (o *consoleObserver) OnAlert(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.alerts = append(o.alerts, message)
	fmt.Fprintf(o.w, "alert: %s\n", message)
}

// LastAlert returns the most recent alert, if any.
func (o *consoleObserver) LastAlert() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.alerts) == 0 {
		return "", false
	}
	return o.alerts[len(o.alerts)-1], true
}
