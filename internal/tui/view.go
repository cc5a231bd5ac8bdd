package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatwin/internal/window"
)

var (
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	menuKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	menuDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	rows := max(m.height-chromeRows, 1)
	body := m.renderDesktop(m.width, rows)
	if m.help.ShowAll {
		body = lipgloss.NewStyle().Width(m.width).Height(rows).Padding(1, 2).Render(m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatus(),
		body,
		m.renderFooter(),
	)
}

func (m model) renderStatus() string {
	vp := m.desk.Viewport()
	scroll := m.desk.Scroll()
	parts := []string{
		fmt.Sprintf("floatwin  %d windows", m.desk.Len()),
		fmt.Sprintf("viewport %dx%d", vp.Width, vp.Height),
	}
	if scroll.X != 0 || scroll.Y != 0 {
		parts = append(parts, fmt.Sprintf("scroll %d,%d", scroll.X, scroll.Y))
	}
	if w, ok := m.selectedWindow(); ok {
		parts = append(parts, fmt.Sprintf("#%d %s", w.ID(), w.Title()))
	}
	if m.status != "" {
		parts = append(parts, messageStyle.Render(m.status))
	}
	return statusStyle.Width(m.width).MaxHeight(1).Render(strings.Join(parts, "  "))
}

// renderDesktop paints every window back to front in viewport cells.
func (m model) renderDesktop(cols, rows int) string {
	c := newCanvas(cols, rows)
	views := m.desk.Views()
	sort.SliceStable(views, func(i, j int) bool { return views[i].ZIndex < views[j].ZIndex })

	scroll := m.desk.Scroll()
	for _, v := range views {
		if !v.States.Visible {
			continue
		}
		r := v.Rendered.Translate(-scroll.X, -scroll.Y)
		cr := toCells(r, m.cellW, m.cellH)
		if v.Placement == window.PlacementTray.String() {
			cr.y1 = cr.y0
		}
		c.box(cr, windowLabel(v), borderFor(v))
	}
	return c.String()
}

func borderFor(v window.View) borderSet {
	switch {
	case v.States.Embedded:
		return inlineBorder
	case v.Selected:
		return selectedBorder
	}
	return plainBorder
}

// windowLabel is the title plus short state markers.
func windowLabel(v window.View) string {
	title := v.Title
	if title == "" {
		title = fmt.Sprintf("#%d", v.ID)
	}
	var marks []string
	if v.States.Pinned {
		marks = append(marks, "pinned")
	}
	if v.States.Maximized {
		marks = append(marks, "max")
	}
	if v.States.Fullscreen {
		marks = append(marks, "full")
	}
	if v.FullscreenPending {
		marks = append(marks, "...")
	}
	if len(marks) > 0 {
		title += " [" + strings.Join(marks, ",") + "]"
	}
	return title
}

func (m model) renderFooter() string {
	switch {
	case m.finding:
		line := m.find.View()
		for i, v := range m.matches {
			if i == 3 {
				break
			}
			line += fmt.Sprintf("  #%d %s", v.ID, v.Title)
		}
		return footerStyle.Width(m.width).MaxHeight(1).Render(line)
	case m.menuOpen:
		return footerStyle.Width(m.width).MaxHeight(1).Render(m.renderMenu())
	}
	return footerStyle.Width(m.width).MaxHeight(1).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m model) renderMenu() string {
	items, err := m.desk.Menu(m.desk.Selected())
	if err != nil {
		return err.Error()
	}
	if len(items) == 0 {
		return "no actions"
	}
	parts := make([]string, 0, len(items))
	for i, item := range items {
		label := item.Current().Label
		if item.Disabled {
			parts = append(parts, menuDisabledStyle.Render(fmt.Sprintf("%d %s", i+1, label)))
			continue
		}
		parts = append(parts, menuKeyStyle.Render(fmt.Sprintf(" %d ", i+1))+" "+label)
	}
	return strings.Join(parts, "  ")
}
