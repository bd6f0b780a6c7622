package poller

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// runBatch executes the immediate-fetch half of a Start/Tick batch and
// returns its message, skipping the scheduled tick.
func runBatch(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("Expected a batch of fetch + schedule")
	}
	for _, c := range batch {
		msg := c()
		if _, isTick := msg.(TickMsg); !isTick {
			return msg
		}
	}
	t.Fatal("Expected a fetch result in the batch")
	return nil
}

type fetchResult struct {
	epoch uuid.UUID
}

func TestStartRunsFetchWithEpoch(t *testing.T) {
	p := New("test", time.Millisecond)

	cmd := p.Start(func(epoch uuid.UUID) tea.Msg {
		return fetchResult{epoch: epoch}
	})

	if !p.Active() {
		t.Error("Expected poller to be active after Start")
	}
	res := runBatch(t, cmd).(fetchResult)
	if res.epoch != p.Epoch() {
		t.Error("Expected the fetch to be tagged with the schedule epoch")
	}
	if p.Epoch() == uuid.Nil {
		t.Error("Expected a non-nil epoch after Start")
	}
}

func TestTickGuards(t *testing.T) {
	p := New("test", time.Millisecond)
	p.Start(func(epoch uuid.UUID) tea.Msg { return nil })

	if cmd := p.Tick(TickMsg{Name: "other", Epoch: p.Epoch()}); cmd != nil {
		t.Error("Expected a foreign poller's tick to die")
	}
	if cmd := p.Tick(TickMsg{Name: "test", Epoch: uuid.New()}); cmd != nil {
		t.Error("Expected a superseded epoch's tick to die")
	}
	if cmd := p.Tick(TickMsg{Name: "test", Epoch: p.Epoch()}); cmd == nil {
		t.Error("Expected a live tick to reschedule")
	}
}

func TestRestartInvalidatesOldTicks(t *testing.T) {
	p := New("test", time.Millisecond)
	p.Start(func(epoch uuid.UUID) tea.Msg { return nil })
	oldEpoch := p.Epoch()

	p.Start(func(epoch uuid.UUID) tea.Msg { return nil })

	if p.Epoch() == oldEpoch {
		t.Error("Expected restart to mint a fresh epoch")
	}
	if cmd := p.Tick(TickMsg{Name: "test", Epoch: oldEpoch}); cmd != nil {
		t.Error("Expected ticks from the old schedule to die")
	}
}

func TestCancel(t *testing.T) {
	p := New("test", time.Millisecond)
	p.Start(func(epoch uuid.UUID) tea.Msg { return nil })
	liveEpoch := p.Epoch()

	p.Cancel()

	if p.Active() {
		t.Error("Expected poller to be inactive after Cancel")
	}
	if p.Epoch() != uuid.Nil {
		t.Error("Expected a nil epoch after Cancel")
	}
	if cmd := p.Tick(TickMsg{Name: "test", Epoch: liveEpoch}); cmd != nil {
		t.Error("Expected ticks to die after Cancel")
	}
}
