package calendar

import "github.com/kvnheller/caldr/internal/model"

// Listener observes committed calendar mutations. Callbacks run
// synchronously after the mutation has been applied; a rejected mutation
// never reaches a listener.
type Listener interface {
	EventAdded(e *model.Event)
	EventModified(e *model.Event)
	SeriesAdded(s *model.RecurrentEvent)
}

// AddListener registers l for future notifications. Re-adding a listener
// that is already registered is a no-op, as is adding nil.
func (c *Calendar) AddListener(l Listener) {
	if l == nil {
		return
	}
	for _, existing := range c.listeners {
		if existing == l {
			return
		}
	}
	c.listeners = append(c.listeners, l)
}

// RemoveListener drops l from future notifications. Removing a listener
// that was never added is a no-op.
func (c *Calendar) RemoveListener(l Listener) {
	for i, existing := range c.listeners {
		if existing == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

func (c *Calendar) announceEventAdded(e *model.Event) {
	for _, l := range c.listeners {
		l.EventAdded(e)
	}
}

func (c *Calendar) announceEventModified(e *model.Event) {
	for _, l := range c.listeners {
		l.EventModified(e)
	}
}

func (c *Calendar) announceSeriesAdded(s *model.RecurrentEvent) {
	for _, l := range c.listeners {
		l.SeriesAdded(s)
	}
}
