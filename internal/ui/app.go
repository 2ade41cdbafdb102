package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/user/virtualscroll/internal/components/performance"
	"github.com/user/virtualscroll/internal/core"
	"github.com/user/virtualscroll/internal/virtuallist"
)

// KeyMap defines the key bindings
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Grow     key.Binding
	Shrink   key.Binding
	Unload   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "bottom"),
		),
		Grow: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "append items"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "drop items"),
		),
		Unload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unload top chunk"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// flushMsg asks the model to push pending measurements into the index
type flushMsg struct{}

// App is the demo host: it scrolls a synthetic multi-million row feed
// through the size index, measuring rows as they become visible and
// feeding the measurements back in batches.
type App struct {
	list   *virtuallist.List
	state  *core.State
	config *core.Config
	keys   KeyMap

	width  int
	height int
	ready  bool

	pending  []virtuallist.SizeUpdate
	measured map[int]struct{}

	flushCh      chan struct{}
	debouncer    *performance.Debouncer
	flushLimiter *performance.RateLimiter
	monitor      *performance.Monitor

	err error

	statusStyle lipgloss.Style
	rowStyle    lipgloss.Style
	markStyle   lipgloss.Style
	helpStyle   lipgloss.Style
}

// NewApp creates the demo application model
func NewApp(state *core.State, config *core.Config) (*App, error) {
	orientation := virtuallist.Vertical
	if config.Horizontal {
		orientation = virtuallist.Horizontal
	}
	list, err := virtuallist.New(config.TotalItems, config.ChunkCapacity, config.EstimatedSize, orientation, virtuallist.Config{
		BufferItems:       config.BufferItems,
		OverscanItems:     config.OverscanItems,
		MaxResidentChunks: config.MaxResidentChunks,
	})
	if err != nil {
		return nil, fmt.Errorf("building size index: %w", err)
	}

	a := &App{
		list:         list,
		state:        state,
		config:       config,
		keys:         DefaultKeyMap(),
		measured:     make(map[int]struct{}),
		flushCh:      make(chan struct{}, 1),
		flushLimiter: performance.NewRateLimiter(50 * time.Millisecond),
		monitor:      performance.NewMonitor(),
		statusStyle:  lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")),
		rowStyle:     lipgloss.NewStyle(),
		markStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		helpStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
	a.debouncer = performance.NewDebouncer(120*time.Millisecond, a.requestFlush)
	return a, nil
}

// requestFlush nudges the model from the debouncer's timer goroutine; the
// actual mutation happens on the program goroutine via flushMsg.
func (a *App) requestFlush() {
	select {
	case a.flushCh <- struct{}{}:
	default:
	}
}

func (a *App) waitForFlush() tea.Msg {
	<-a.flushCh
	return flushMsg{}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.waitForFlush
}

// viewportPixels returns the pixel extent the terminal viewport represents
func (a *App) viewportPixels() float64 {
	rows := a.height - 2 // status bar and help line
	if rows < 1 {
		rows = 1
	}
	return float64(rows * a.config.RowPixels)
}

// measureItem is the synthetic stand-in for real row measurement: a
// deterministic pseudo-variable height per item.
func (a *App) measureItem(index int) float64 {
	h := uint64(index)*0x9E3779B97F4A7C15 + 0xD1B54A32D192ED03
	h ^= h >> 29
	return float64(16 + h%48)
}

// resolve recomputes the visible range for the current scroll position and
// queues measurements for newly visible items.
func (a *App) resolve() {
	var vr virtuallist.VisibleRange
	var err error
	a.monitor.Time("resolve", func() {
		vr, err = a.list.GetVisibleRange(a.state.Scroll(), a.viewportPixels())
	})
	if err != nil {
		a.err = err
		return
	}
	a.err = nil
	a.state.RecordRange(vr)

	for i := vr.Start; i < vr.End; i++ {
		if _, ok := a.measured[i]; ok {
			continue
		}
		a.measured[i] = struct{}{}
		a.pending = append(a.pending, virtuallist.SizeUpdate{Index: i, Size: a.measureItem(i)})
	}

	if len(a.pending) >= a.config.UpdateBatchSize && a.flushLimiter.Allow() {
		a.flushPending()
	} else if len(a.pending) > 0 {
		a.debouncer.Trigger()
	}
}

// flushPending pushes queued measurements into the index in batches
func (a *App) flushPending() {
	for len(a.pending) > 0 {
		n := a.config.UpdateBatchSize
		if n > len(a.pending) {
			n = len(a.pending)
		}
		batch := a.pending[:n]
		if err := a.list.BatchUpdateSizes(batch); err != nil {
			a.err = err
			return
		}
		a.state.RecordFlush(n)
		a.pending = a.pending[n:]
	}
	a.pending = nil
}

// scrollBy moves the viewport by a pixel delta, clamped to the scrollable extent
func (a *App) scrollBy(delta float64) {
	offset := a.state.Scroll() + delta
	if offset < 0 {
		offset = 0
	}
	max := a.list.TotalSize() - a.viewportPixels()
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	a.state.SetScroll(offset)
	a.resolve()
}

// setTotalItems resizes the feed, keeping the scroll position in range
func (a *App) setTotalItems(n int) {
	if n < 0 {
		n = 0
	}
	if err := a.list.SetTotalItems(n); err != nil {
		a.err = err
		return
	}
	// Dropped items must not linger in the measurement queue.
	kept := a.pending[:0]
	for _, u := range a.pending {
		if u.Index < n {
			kept = append(kept, u)
		}
	}
	a.pending = kept
	for i := range a.measured {
		if i >= n {
			delete(a.measured, i)
		}
	}
	a.scrollBy(0)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resolve()

	case flushMsg:
		a.flushPending()
		a.resolve()
		return a, a.waitForFlush

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.debouncer.Cancel()
			return a, tea.Quit
		case key.Matches(msg, a.keys.Up):
			a.scrollBy(-float64(a.config.RowPixels))
		case key.Matches(msg, a.keys.Down):
			a.scrollBy(float64(a.config.RowPixels))
		case key.Matches(msg, a.keys.PageUp):
			a.scrollBy(-a.viewportPixels())
		case key.Matches(msg, a.keys.PageDown):
			a.scrollBy(a.viewportPixels())
		case key.Matches(msg, a.keys.Home):
			a.state.SetScroll(0)
			a.resolve()
		case key.Matches(msg, a.keys.End):
			a.state.SetScroll(a.list.TotalSize())
			a.resolve()
		case key.Matches(msg, a.keys.Grow):
			a.setTotalItems(a.list.TotalItems() + 1000)
		case key.Matches(msg, a.keys.Shrink):
			a.setTotalItems(a.list.TotalItems() - 1000)
		case key.Matches(msg, a.keys.Unload):
			vr := a.state.Range()
			c := vr.Start / a.list.ChunkCapacity()
			a.list.UnloadChunk(c)
			for i := c * a.list.ChunkCapacity(); i < (c+1)*a.list.ChunkCapacity(); i++ {
				delete(a.measured, i)
			}
			a.resolve()
		}
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	if !a.ready {
		return "initializing..."
	}

	var b strings.Builder
	b.WriteString(a.statusLine())
	b.WriteByte('\n')

	vr := a.state.Range()
	rows := a.height - 2
	if rows < 1 {
		rows = 1
	}
	for line, i := 0, vr.Start; line < rows; line++ {
		if i >= vr.End {
			b.WriteString(a.helpStyle.Render("~"))
			b.WriteByte('\n')
			continue
		}
		b.WriteString(a.renderRow(i))
		b.WriteByte('\n')
		i++
	}

	b.WriteString(a.helpLine())
	return b.String()
}

func (a *App) renderRow(index int) string {
	offset, err := a.list.OffsetOfItem(index)
	if err != nil {
		return a.rowStyle.Render(fmt.Sprintf("%9d  <%v>", index, err))
	}
	size, err := a.list.ItemSize(index)
	if err != nil {
		return a.rowStyle.Render(fmt.Sprintf("%9d  <%v>", index, err))
	}
	bar := strings.Repeat("█", int(size)/8)
	line := fmt.Sprintf("%9d  %12.1fpx  %5.1fpx  %s", index, offset, size, a.markStyle.Render(bar))
	return truncate.String(a.rowStyle.Render(line), uint(a.width))
}

func (a *App) statusLine() string {
	items, batches := a.state.MeasureStats()
	vr := a.state.Range()
	status := fmt.Sprintf(" %s · %d items · %d chunks (%d resident) · %.0fpx total · range [%d,%d) · scroll %.0fpx · measured %d in %d batches",
		a.list.Orientation(),
		a.list.TotalItems(),
		a.list.NumChunks(),
		a.list.ResidentChunks(),
		a.list.TotalSize(),
		vr.Start, vr.End,
		a.state.Scroll(),
		items, batches,
	)
	if m := a.monitor.Get("resolve"); m != nil {
		status += fmt.Sprintf(" · resolve %s", m.AverageTime().Round(time.Microsecond))
	}
	if a.err != nil {
		status += fmt.Sprintf(" · ERR %v", a.err)
	}
	return a.statusStyle.Width(a.width).Render(truncate.String(status, uint(a.width)))
}

func (a *App) helpLine() string {
	entries := []key.Binding{
		a.keys.Quit, a.keys.Up, a.keys.Down, a.keys.PageDown, a.keys.Home,
		a.keys.End, a.keys.Grow, a.keys.Shrink, a.keys.Unload,
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s %s", e.Help().Key, e.Help().Desc))
	}
	return truncate.String(a.helpStyle.Render(" "+strings.Join(parts, " · ")), uint(a.width))
}
