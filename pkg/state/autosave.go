package state

import (
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// draft buffers title and content edits of one entry until the debounce
// period passes. gen identifies the timer that may commit it.
type draft struct {
	entryID string
	title   string
	content string
	gen     int
	timer   Timer
}

// EditTitle buffers a new title for the selected entry.
func (c *Controller) EditTitle(title string) error {
	return c.edit(func(d *draft) { d.title = title })
}

// EditContent buffers new content for the selected entry.
func (c *Controller) EditContent(content string) error {
	return c.edit(func(d *draft) { d.content = content })
}

// edit applies fn to the selected entry's draft and restarts the debounce
// timer. Only one timer is ever armed.
func (c *Controller) edit(fn func(*draft)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.indexLocked(c.selected)
	if !ok {
		return ErrNoSelection
	}
	d := c.pending
	if d == nil || d.entryID != c.selected {
		c.discardLocked()
		e := c.cache[i]
		d = &draft{entryID: e.ID, title: e.Title, content: e.Content}
		c.pending = d
	}
	fn(d)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = c.sched.AfterFunc(c.debounce, func() { c.fire(d, gen) })
	return nil
}

// fire commits d if it is still pending and gen is its latest timer. A timer
// that lost the race with Select, Discard or a newer edit does nothing. A
// failed commit keeps d pending so the next edit or Flush retries it.
func (c *Controller) fire(d *draft, gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != d || d.gen != gen {
		return
	}
	d.timer = nil
	if err := c.commitLocked(d); err != nil {
		c.log.Error().Err(err).Str("entry", d.entryID).Msg("autosave failed")
		c.emitLocked(Change{Kind: SaveFailed, ID: d.entryID, Err: err})
		return
	}
	c.pending = nil
}

// commitLocked writes the whole draft in one save.
func (c *Controller) commitLocked(d *draft) error {
	i, ok := c.indexLocked(d.entryID)
	if !ok {
		return nil
	}
	e := c.cache[i]
	if e.Title == d.title && e.Content == d.content {
		return nil
	}
	e.Title = d.title
	e.Content = d.content
	if err := c.persistLocked(i, e); err != nil {
		return err
	}
	c.log.Debug().Str("entry", e.ID).Msg("autosave committed")
	c.emitLocked(Change{Kind: DraftSaved, ID: e.ID})
	return nil
}

// Flush saves the pending edit now instead of waiting for the timer. The edit
// stays pending if the save fails.
func (c *Controller) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.pending
	if d == nil {
		return nil
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if err := c.commitLocked(d); err != nil {
		return err
	}
	c.pending = nil
	return nil
}

// Discard drops the pending edit without saving it.
func (c *Controller) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discardLocked()
}

func (c *Controller) discardLocked() {
	d := c.pending
	if d == nil {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	c.pending = nil
	c.log.Debug().Str("entry", d.entryID).Msg("pending edit discarded")
	c.emitLocked(Change{Kind: DraftDiscarded, ID: d.entryID})
}

// Pending returns the buffered title and content of the selected entry, if
// any edit is waiting to be saved.
func (c *Controller) Pending() (title, content string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.pending
	if d == nil || d.entryID != c.selected {
		return "", "", false
	}
	return d.title, d.content, true
}

// Close cancels the autosave timer. Unsaved edits are dropped; call Flush
// first to keep them.
func (c *Controller) Close() {
	c.Discard()
}
