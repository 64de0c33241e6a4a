package grid

import "sync"

// Notifier surfaces a failure message to the user (toast, status line, log).
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

type discard struct{}

func (discard) Notify(string) {}

// Discard drops every notification.
var Discard Notifier = discard{}

// Notices collects notifications, e.g. for one HTTP request.
type Notices struct {
	mu   sync.Mutex
	msgs []string
}

func (n *Notices) Notify(msg string) {
	n.mu.Lock()
	n.msgs = append(n.msgs, msg)
	n.mu.Unlock()
}

// First returns the first message received, or "".
func (n *Notices) First() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return ""
	}
	return n.msgs[0]
}

func (n *Notices) All() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}
