package store

import "sync"

// OrderEvent is pushed to subscribers whenever an order's status or payment
// changes.
type OrderEvent struct {
	OrderRef      string `json:"order_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// Notifier is an in-process change-notification channel: one subscription
// per open tracking view, keyed by order ref. Slow subscribers drop events
// rather than block the writer.
type Notifier struct {
	mu   sync.RWMutex
	subs map[string]map[chan OrderEvent]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[chan OrderEvent]struct{})}
}

// Subscribe registers interest in one order. The returned cancel func must
// be called when the view closes.
func (n *Notifier) Subscribe(orderRef string) (<-chan OrderEvent, func()) {
	ch := make(chan OrderEvent, 8)

	n.mu.Lock()
	if n.subs[orderRef] == nil {
		n.subs[orderRef] = make(map[chan OrderEvent]struct{})
	}
	n.subs[orderRef][ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if set, ok := n.subs[orderRef]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(n.subs, orderRef)
			}
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans an event out to every subscriber of its order.
func (n *Notifier) Publish(event OrderEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.subs[event.OrderRef] {
		select {
		case ch <- event:
		default:
			// subscriber is not draining; skip it
		}
	}
}
