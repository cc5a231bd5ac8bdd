package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/floatwin/internal/desktop"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/pointer"
	"github.com/1broseidon/floatwin/internal/window"
)

// chromeRows is the status line above the desktop plus the footer below it.
const chromeRows = 2

// refreshMsg asks for a redraw after something changed outside Update.
type refreshMsg struct{}

// actionDoneMsg reports a menu action that ran in the background.
type actionDoneMsg struct {
	id      int
	label   string
	applied bool
	err     error
}

type model struct {
	desk      *desktop.Desktop
	newWindow func(title string, width, height int) window.Config
	cellW     int
	cellH     int
	timeout   time.Duration

	keys  keyMap
	help  help.Model
	wheel *pointer.WheelLimiter

	finding bool
	find    textinput.Model
	matches []window.View

	menuOpen bool

	form   *huh.Form
	fields *formFields

	buttons int
	status  string

	width  int
	height int
}

func newModel(opts Options) model {
	opts = opts.withDefaults()

	ti := textinput.New()
	ti.Placeholder = "window title..."
	ti.CharLimit = 64
	ti.Width = 32
	ti.Prompt = "/ "

	return model{
		desk:      opts.Desktop,
		newWindow: opts.NewWindow,
		cellW:     opts.CellWidth,
		cellH:     opts.CellHeight,
		timeout:   opts.ActionTimeout,
		keys:      defaultKeyMap(),
		help:      help.New(),
		wheel:     pointer.NewWheelLimiter(opts.WheelInterval, opts.WheelStep*opts.CellHeight),
		find:      ti,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(ws.Width, ws.Height)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case refreshMsg:
		return m, nil
	case actionDoneMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("#%d %s: %v", msg.id, msg.label, msg.err)
		case !msg.applied:
			m.status = fmt.Sprintf("#%d %s: not allowed now", msg.id, msg.label)
		default:
			m.status = fmt.Sprintf("#%d %s", msg.id, msg.label)
		}
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		if m.finding {
			return m.updateFind(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	rows := max(height-chromeRows, 1)
	m.desk.SetViewport(geometry.Size{Width: width * m.cellW, Height: rows * m.cellH})
}

// toPage converts a terminal cell to document pixels, aiming at the cell
// center.
func (m model) toPage(col, row int) (int, int) {
	scroll := m.desk.Scroll()
	x := col*m.cellW + m.cellW/2 + scroll.X
	y := (row-1)*m.cellH + m.cellH/2 + scroll.Y
	return x, y
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown, tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		step := m.cellH * 8
		var dx, dy int
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			dy = -step
		case tea.MouseButtonWheelDown:
			dy = step
		case tea.MouseButtonWheelLeft:
			dx = -step
		case tea.MouseButtonWheelRight:
			dx = step
		}
		if dx, dy = m.wheel.Delta(dx, dy); dx != 0 || dy != 0 {
			m.desk.ScrollBy(dx, dy)
		}
		return
	}

	x, y := m.toPage(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Y < 1 || msg.Y >= m.height-1 {
			return
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.buttons = pointer.ButtonPrimary
			m.menuOpen = false
			m.desk.PointerDown(pointer.FromMouse(pointer.Down, x, y, m.buttons))
		case tea.MouseButtonRight:
			id, hit := m.desk.PointerDown(pointer.FromMouse(pointer.Down, x, y, pointer.ButtonSecondary))
			m.desk.PointerUp(pointer.FromMouse(pointer.Up, x, y, 0))
			m.menuOpen = hit && id != 0
		}
	case tea.MouseActionMotion:
		m.desk.PointerMove(pointer.FromMouse(pointer.Move, x, y, m.buttons))
	case tea.MouseActionRelease:
		m.buttons = 0
		m.desk.PointerUp(pointer.FromMouse(pointer.Up, x, y, 0))
	}
}

func (m model) selectedWindow() (*window.Window, bool) {
	id := m.desk.Selected()
	if id == 0 {
		return nil, false
	}
	w, err := m.desk.Window(id)
	return w, err == nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menuOpen {
		if n, err := strconv.Atoi(msg.String()); err == nil && n > 0 {
			return m, m.runMenuItem(n - 1)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Cancel):
		m.desk.KeyUp("Escape")
		m.menuOpen = false
		m.status = ""
	case key.Matches(msg, m.keys.New):
		cmd := m.startForm()
		return m, cmd
	case key.Matches(msg, m.keys.Find):
		m.finding = true
		m.menuOpen = false
		m.find.SetValue("")
		m.matches = m.desk.Find("")
		cmd := m.find.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Next):
		m.selectNext()
	case key.Matches(msg, m.keys.Menu):
		_, ok := m.selectedWindow()
		m.menuOpen = ok && !m.menuOpen
	default:
		m.handleWindowKey(msg)
	}
	return m, nil
}

// handleWindowKey applies geometry and stacking keys to the selected window.
func (m *model) handleWindowKey(msg tea.KeyMsg) {
	w, ok := m.selectedWindow()
	if !ok {
		return
	}
	r := w.Rect()
	move := func(dx, dy int) {
		if !w.View().CanMove {
			m.status = fmt.Sprintf("#%d cannot be moved", w.ID())
			return
		}
		w.SetXY(r.Left+dx, r.Top+dy)
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		if err := m.desk.Close(w.ID()); err != nil {
			m.status = err.Error()
			return
		}
		m.menuOpen = false
		m.status = fmt.Sprintf("#%d destroyed", w.ID())
	case key.Matches(msg, m.keys.Raise):
		if err := w.BringToFront(); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Lower):
		if err := w.SendToBack(); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Center):
		w.CenterWindow()
	case key.Matches(msg, m.keys.Left):
		move(-m.cellW, 0)
	case key.Matches(msg, m.keys.Right):
		move(m.cellW, 0)
	case key.Matches(msg, m.keys.Up):
		move(0, -m.cellH)
	case key.Matches(msg, m.keys.Down):
		move(0, m.cellH)
	case key.Matches(msg, m.keys.Narrow):
		w.SetWidth(r.Width() - m.cellW)
	case key.Matches(msg, m.keys.Widen):
		w.SetWidth(r.Width() + m.cellW)
	case key.Matches(msg, m.keys.Shorten):
		w.SetHeight(r.Height() - m.cellH)
	case key.Matches(msg, m.keys.Grow):
		w.SetHeight(r.Height() + m.cellH)
	}
}

// selectNext moves the selection to the next visible window below the current
// one, wrapping to the top.
func (m *model) selectNext() {
	var views []window.View
	for _, v := range m.desk.Views() {
		if v.States.Visible && !v.States.Embedded {
			views = append(views, v)
		}
	}
	if len(views) == 0 {
		return
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].ZIndex > views[j].ZIndex })

	next := views[0].ID
	cur := m.desk.Selected()
	for i, v := range views {
		if v.ID == cur {
			next = views[(i+1)%len(views)].ID
			break
		}
	}
	_ = m.desk.Select(next)
}

func (m model) runMenuItem(index int) tea.Cmd {
	id := m.desk.Selected()
	items, err := m.desk.Menu(id)
	if err != nil || index >= len(items) {
		return nil
	}
	item := items[index]
	label := item.Current().Label
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		applied, err := item.Toggle(ctx)
		return actionDoneMsg{id: id, label: label, applied: applied, err: err}
	}
}

func (m model) updateFind(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.finding = false
		m.find.Blur()
		return m, nil
	case "enter":
		m.finding = false
		m.find.Blur()
		if len(m.matches) == 0 {
			m.status = fmt.Sprintf("no window matches %q", m.find.Value())
			return m, nil
		}
		id := m.matches[0].ID
		if err := m.desk.Select(id); err == nil {
			_ = m.desk.BringToFront(id)
			m.status = fmt.Sprintf("#%d %s", id, m.matches[0].Title)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.find, cmd = m.find.Update(msg)
	m.matches = m.desk.Find(m.find.Value())
	return m, cmd
}
