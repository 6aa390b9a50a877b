package cabinet

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/cabinetui/cabinet/dnd"
	"github.com/cabinetui/cabinet/engine"
	"github.com/cabinetui/cabinet/file"
	"github.com/cabinetui/cabinet/internal/hitmap"
)

// Styles collects every lipgloss style the widget renders with.
type Styles struct {
	Toolbar     lipgloss.Style
	Row         lipgloss.Style
	Cursor      lipgloss.Style
	Selected    lipgloss.Style
	Hidden      lipgloss.Style
	Placeholder lipgloss.Style
	DropTarget  lipgloss.Style
	Status      lipgloss.Style
	Prompt      lipgloss.Style
}

// DefaultStyles returns the stock color scheme.
func DefaultStyles() Styles {
	return Styles{
		Toolbar:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		Row:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Cursor:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("60")),
		Hidden:      lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		DropTarget:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

const gridCellWidth = 22

// View implements tea.Model. Rendering is a pure projection of the current
// snapshot and file collection; the hit map is rebuilt on every render so
// mouse events resolve against what is actually on screen.
func (b *Browser) View() string {
	if b.width <= 0 || b.height <= 0 {
		return ""
	}
	b.hits.Clear()

	var sb strings.Builder
	sb.WriteString(b.renderToolbar())
	sb.WriteByte('\n')

	bodyHeight := b.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	if b.snap.ViewMode == engine.GridView {
		sb.WriteString(b.renderGrid(bodyHeight))
	} else {
		sb.WriteString(b.renderList(bodyHeight))
	}
	sb.WriteByte('\n')
	sb.WriteString(b.renderFooter())
	return sb.String()
}

func (b *Browser) renderToolbar() string {
	folder := b.snap.FolderID
	if folder == "" {
		folder = "/"
	}
	dir := "↑"
	if b.snap.SortDir == file.Descending {
		dir = "↓"
	}
	hidden := ""
	if b.snap.ShowHidden {
		hidden = "  +hidden"
	}
	left := fmt.Sprintf(" %s  sort:%s%s  view:%s%s", folder, b.snap.SortKey, dir, b.snap.ViewMode, hidden)
	right := fmt.Sprintf("%d selected ", len(b.snap.Selection))

	pad := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	line := left + strings.Repeat(" ", pad) + right
	return b.styles.Toolbar.Render(ansi.Truncate(line, b.width, ""))
}

func (b *Browser) renderList(height int) string {
	rows := b.visible()
	b.clampScroll(len(rows), height)

	lines := make([]string, 0, height)
	for i := b.scroll; i < len(rows) && len(lines) < height; i++ {
		y := 1 + len(lines) // toolbar occupies row 0
		lines = append(lines, b.renderRow(rows[i], i, y))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (b *Browser) renderRow(rec *file.Record, idx, y int) string {
	cursor := " "
	if idx == b.cursor {
		cursor = b.styles.Cursor.Render(">")
	}

	if rec == nil {
		return cursor + b.styles.Placeholder.Render(" … loading")
	}
	b.hits.Add(rec.ID, hitmap.Rect{X: 0, Y: y, W: b.width, H: 1}, rec)

	name := rec.Name
	if rec.IsDir {
		name += "/"
	}
	meta := ""
	if !rec.IsDir {
		meta = humanSize(rec.Size)
	} else if rec.ChildCount > 0 {
		meta = fmt.Sprintf("%d items", rec.ChildCount)
	}
	if !rec.ModTime.IsZero() {
		meta += "  " + rec.ModTime.Format("Jan _2 15:04")
	}

	nameWidth := b.width - 4 - lipgloss.Width(meta) - 2
	if nameWidth < 8 {
		nameWidth = 8
	}
	line := fmt.Sprintf(" %s %s  %s", b.icon(rec), ansi.Truncate(name, nameWidth, "…"), meta)

	style := b.styles.Row
	switch {
	case b.drag.Target() != nil && b.drag.Target().ID == rec.ID:
		style = b.styles.DropTarget
	case b.snap.Selected(rec.ID):
		style = b.styles.Selected
	case rec.Hidden:
		style = b.styles.Hidden
	}
	if rec.Color != "" {
		style = style.Foreground(lipgloss.Color(rec.Color))
	}
	return cursor + style.Render(line)
}

func (b *Browser) renderGrid(height int) string {
	rows := b.visible()
	cols := b.width / gridCellWidth
	if cols < 1 {
		cols = 1
	}
	gridRows := (len(rows) + cols - 1) / cols
	b.clampScroll(gridRows, height)

	lines := make([]string, 0, height)
	for row := b.scroll; row < gridRows && len(lines) < height; row++ {
		y := 1 + len(lines)
		var cells []string
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if idx >= len(rows) {
				break
			}
			cells = append(cells, b.renderCell(rows[idx], idx, col, y))
		}
		lines = append(lines, strings.Join(cells, ""))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (b *Browser) renderCell(rec *file.Record, idx, col, y int) string {
	if rec == nil {
		return b.styles.Placeholder.Render(runewidth.FillRight("…", gridCellWidth))
	}
	b.hits.Add(rec.ID, hitmap.Rect{X: col * gridCellWidth, Y: y, W: gridCellWidth, H: 1}, rec)

	name := rec.Name
	if rec.IsDir {
		name += "/"
	}
	marker := " "
	if idx == b.cursor {
		marker = ">"
	}
	cell := marker + b.icon(rec) + " " + runewidth.Truncate(name, gridCellWidth-5, "…")
	cell = runewidth.FillRight(cell, gridCellWidth)

	style := b.styles.Row
	switch {
	case b.drag.Target() != nil && b.drag.Target().ID == rec.ID:
		style = b.styles.DropTarget
	case b.snap.Selected(rec.ID):
		style = b.styles.Selected
	case rec.Hidden:
		style = b.styles.Hidden
	}
	return style.Render(cell)
}

func (b *Browser) renderFooter() string {
	if b.naming {
		return b.styles.Prompt.Render(" new folder: " + b.folderInput.View())
	}
	if b.status != "" {
		return b.styles.Status.Render(ansi.Truncate(" "+b.status, b.width, "…"))
	}
	if b.drag.State() != dnd.Idle {
		n := len(b.drag.Sources())
		return b.styles.Prompt.Render(fmt.Sprintf(" dragging %d file(s)…", n))
	}
	return ""
}

func (b *Browser) icon(rec *file.Record) string {
	if b.opts.Icon != nil {
		return b.opts.Icon(rec)
	}
	switch {
	case rec.Icon != "":
		return rec.Icon
	case rec.IsDir:
		return "▸"
	case rec.Symlink:
		return "~"
	case rec.Encrypted:
		return "*"
	default:
		return "·"
	}
}

// ensureCursorVisible scrolls the viewport so the cursor row stays on
// screen.
func (b *Browser) ensureCursorVisible() {
	height := b.height - 2
	if height < 1 {
		height = 1
	}
	row := b.cursor
	if b.snap.ViewMode == engine.GridView {
		cols := b.width / gridCellWidth
		if cols < 1 {
			cols = 1
		}
		row = b.cursor / cols
	}
	if row < b.scroll {
		b.scroll = row
	}
	if row >= b.scroll+height {
		b.scroll = row - height + 1
	}
}

func (b *Browser) clampScroll(total, height int) {
	max := total - height
	if max < 0 {
		max = 0
	}
	if b.scroll > max {
		b.scroll = max
	}
	if b.scroll < 0 {
		b.scroll = 0
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
