package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/shared"
)

// DefaultEventBuffer is the capacity of a [Host] event channel.
const DefaultEventBuffer = 32

var (
	_ controllers.DialogHost = (*Host)(nil)
	_ controllers.Notifier   = (*Host)(nil)
	_ controllers.Navigator  = (*Host)(nil)
)

// Host forwards controller requests to the bubbletea loop.
//
// Calls never block. When the buffer is full, dialogs and notices are dropped and logged,
// while route changes queue in order behind the buffer until [Host.Close].
type Host struct {
	events chan tea.Msg
	logger *log.Logger

	mu       sync.Mutex
	overflow []tea.Msg
	pumping  bool
	done     chan struct{}
	once     sync.Once
}

// NewHost creates a [Host] with the given event buffer size.
func NewHost(buffer int, logger *log.Logger) *Host {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Host{events: make(chan tea.Msg, buffer), logger: logger, done: make(chan struct{})}
}

// Open posts a dialog.
func (h *Host) Open(d controllers.Dialog) {
	h.post(dialogOpenedMsg(d), false)
}

// Notify posts a notice.
func (h *Host) Notify(n controllers.Notice) {
	h.post(noticeShownMsg(n), false)
}

// Navigate posts a route change.
func (h *Host) Navigate(route string) {
	h.post(navigatedMsg(route), true)
}

// Events returns the channel the model drains.
func (h *Host) Events() <-chan tea.Msg {
	return h.events
}

// Close stops delivery of queued route changes.
func (h *Host) Close() {
	h.once.Do(func() { close(h.done) })
}

func (h *Host) post(msg Msg, keep bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.overflow) == 0 {
		select {
		case h.events <- msg:
			return
		default:
		}
	}

	if !keep {
		h.logger.Warn("ui event dropped", "kind", msg.kind)
		return
	}

	h.overflow = append(h.overflow, msg)
	if !h.pumping {
		h.pumping = true
		go h.pump()
	}
}

// pump moves queued route changes into the event channel as the model drains it.
func (h *Host) pump() {
	for {
		h.mu.Lock()
		if len(h.overflow) == 0 {
			h.pumping = false
			h.mu.Unlock()
			return
		}
		msg := h.overflow[0]
		h.mu.Unlock()

		select {
		case h.events <- msg:
		case <-h.done:
			h.logger.Warn("ui host closed with queued events")
			return
		}

		h.mu.Lock()
		h.overflow = h.overflow[1:]
		h.mu.Unlock()
	}
}
