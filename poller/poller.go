// Package poller is a generic fetch-on-interval primitive for the Bubble Tea
// loop. A poller fires its fetch immediately on Start and then once per
// interval via tea.Tick. Every tick carries the poller's name and the epoch
// it was scheduled under; a tick from a cancelled or restarted schedule fails
// the epoch check and dies quietly. Consumers tag fetch results with the same
// epoch to discard in-flight responses whose scope has changed.
//
// All methods must be called from the program's Update loop.
package poller

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// TickMsg asks the owning poller to run its fetch again.
type TickMsg struct {
	Name  string
	Epoch uuid.UUID
}

type Poller struct {
	name     string
	interval time.Duration
	fetch    func(epoch uuid.UUID) tea.Msg
	epoch    uuid.UUID
}

func New(name string, interval time.Duration) *Poller {
	return &Poller{name: name, interval: interval}
}

// Start installs fetch under a fresh epoch and returns a command that runs it
// immediately and schedules the next tick. The epoch is handed to the fetch
// so its result can be tagged; any previously running schedule of this poller
// is implicitly cancelled by the epoch change.
func (p *Poller) Start(fetch func(epoch uuid.UUID) tea.Msg) tea.Cmd {
	p.fetch = fetch
	p.epoch = uuid.New()

	f, e := fetch, p.epoch
	return tea.Batch(
		func() tea.Msg { return f(e) },
		p.schedule(e),
	)
}

// Tick handles a TickMsg. It returns the fetch plus the next scheduled tick,
// or nil when the message belongs to another poller, a cancelled schedule, or
// a superseded epoch.
func (p *Poller) Tick(msg TickMsg) tea.Cmd {
	if msg.Name != p.name || msg.Epoch != p.epoch || p.fetch == nil {
		return nil
	}
	f, e := p.fetch, p.epoch
	return tea.Batch(
		func() tea.Msg { return f(e) },
		p.schedule(e),
	)
}

// Cancel stops future ticks. A fetch already in flight completes, but its
// result carries a dead epoch.
func (p *Poller) Cancel() {
	p.fetch = nil
	p.epoch = uuid.Nil
}

// Epoch is the tag of the active schedule, uuid.Nil when cancelled. Fetch
// closures capture it so consumers can reject stale results.
func (p *Poller) Epoch() uuid.UUID {
	return p.epoch
}

// Active reports whether a schedule is installed.
func (p *Poller) Active() bool {
	return p.fetch != nil
}

func (p *Poller) schedule(epoch uuid.UUID) tea.Cmd {
	return tea.Tick(p.interval, func(time.Time) tea.Msg {
		return TickMsg{Name: p.name, Epoch: epoch}
	})
}
