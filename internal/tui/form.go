package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// formFields is bound into the huh inputs. It lives behind a pointer because
// the model itself is copied on every Update.
type formFields struct {
	title  string
	width  string
	height string
}

func validSize(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return errors.New("enter a positive number of pixels")
	}
	return nil
}

func (m *model) startForm() tea.Cmd {
	m.fields = &formFields{}
	m.menuOpen = false

	w := max(m.width-4, 40)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.fields.title),
			huh.NewInput().
				Key("width").
				Title("Width").
				Description("Pixels; blank for the configured default").
				Validate(validSize).
				Value(&m.fields.width),
			huh.NewInput().
				Key("height").
				Title("Height").
				Description("Pixels; blank for the configured default").
				Validate(validSize).
				Value(&m.fields.height),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)
	return m.form.Init()
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.form = nil
			m.status = "new window canceled"
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		m.openFromForm()
		return m, nil
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m *model) openFromForm() {
	f := m.fields
	if f == nil {
		f = &formFields{}
	}
	width, _ := strconv.Atoi(strings.TrimSpace(f.width))
	height, _ := strconv.Atoi(strings.TrimSpace(f.height))
	w, err := m.desk.Open(m.newWindow(strings.TrimSpace(f.title), width, height))
	if err != nil {
		m.status = fmt.Sprintf("open failed: %v", err)
		return
	}
	_ = m.desk.Select(w.ID())
	m.status = fmt.Sprintf("#%d opened", w.ID())
}
