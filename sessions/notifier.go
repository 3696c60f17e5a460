package sessions

import "sync"

// Notifier delivers mode-change events synchronously to in-process
// subscribers (navigation bars, audit hooks). There is no cross-context
// propagation.
type Notifier struct {
	lock sync.RWMutex
	subs []func(mode string)
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a listener for subsequent mode changes.
func (n *Notifier) Subscribe(fn func(mode string)) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.subs = append(n.subs, fn)
}

// Publish invokes every subscriber with the new mode, in subscription order.
func (n *Notifier) Publish(mode string) {
	n.lock.RLock()
	subs := make([]func(string), len(n.subs))
	copy(subs, n.subs)
	n.lock.RUnlock()

	for _, fn := range subs {
		fn(mode)
	}
}
