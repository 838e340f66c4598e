package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/tui/layout"
)

// View renders the Model into a terminal frame. It reads state only.
func (m Model) View() string {
	if m.tooSmall {
		return m.renderTooSmall()
	}
	if m.activePane == HelpPane {
		return m.renderHelpOverlay()
	}

	paneHeight := layout.CalculatePaneHeight(m.height, m.layout.Pane)
	// lipgloss widths exclude the border; app padding is 2 on each side
	paneWidth := m.width - 6

	var body string
	switch m.activePane {
	case InputPane:
		inputBox := m.styles.PaneActive.Width(paneWidth).Render(m.input.View())
		listHeight := paneHeight - lipgloss.Height(inputBox)
		if listHeight < m.layout.Pane.MinHeight {
			listHeight = m.layout.Pane.MinHeight
		}
		body = lipgloss.JoinVertical(lipgloss.Left, inputBox, m.renderResultsPane(paneWidth, listHeight, false))
	case TagsListPane:
		body = m.renderTagsPane(paneWidth, paneHeight)
	default:
		body = m.renderResultsPane(paneWidth, paneHeight, true)
	}

	content := m.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderStatusBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
}

func (m Model) renderHeader() string {
	label := m.activePane.String()
	switch m.activePane {
	case ResultsListPane, InputPane:
		if m.resultsLabel != "" {
			label += " | " + m.resultsLabel
		}
	case TagsListPane:
		label += fmt.Sprintf(" | %d", len(m.tags.items))
	}
	return m.styles.Title.Render("bmm") + m.styles.Context.Render(label)
}

func (m Model) renderResultsPane(width, height int, active bool) string {
	var content strings.Builder

	visibleHeight := layout.CalculateVisibleHeight(height, 0)
	itemWidth := layout.CalculateItemWidth(m.width, m.layout.Pane)

	if len(m.results.items) == 0 {
		content.WriteString(m.styles.Empty.Render("(no bookmarks)"))
	} else {
		offset := layout.CalculateViewportOffset(m.results.selected, len(m.results.items), visibleHeight)
		end := min(offset+visibleHeight, len(m.results.items))

		for i := offset; i < end; i++ {
			isSelected := active && i == m.results.selected
			content.WriteString(m.renderBookmark(m.results.items[i], isSelected, itemWidth) + "\n")
		}
	}

	return m.paneStyle(active).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderBookmark renders one result row: the URI column, then the title
// and tags.
func (m Model) renderBookmark(b model.Bookmark, isSelected bool, maxWidth int) string {
	// Item styles pad one cell on the left
	rowWidth := maxWidth - 1
	uriWidth, titleWidth := layout.CalculateColumns(rowWidth, m.layout.Pane)

	detail := b.Title
	if len(b.Tags) > 0 {
		detail = strings.TrimSpace(detail + " [" + strings.Join(b.Tags, ",") + "]")
	}

	row := layout.Fit(b.URI, uriWidth, m.layout.Text) + " " + layout.Fit(detail, titleWidth, m.layout.Text)
	if isSelected {
		return m.styles.ItemSelected.Render(row)
	}
	return m.styles.Item.Render(row)
}

func (m Model) renderTagsPane(width, height int) string {
	var content strings.Builder

	visibleHeight := layout.CalculateVisibleHeight(height, 0)
	rowWidth := layout.CalculateItemWidth(m.width, m.layout.Pane) - 1

	switch {
	case len(m.tags.items) == 0 && !m.tagsLoaded:
		content.WriteString(m.styles.Empty.Render("(loading tags)"))
	case len(m.tags.items) == 0:
		content.WriteString(m.styles.Empty.Render("(no tags)"))
	default:
		offset := layout.CalculateViewportOffset(m.tags.selected, len(m.tags.items), visibleHeight)
		end := min(offset+visibleHeight, len(m.tags.items))

		for i := offset; i < end; i++ {
			t := m.tags.items[i]
			count := fmt.Sprintf("%6d", t.NumBookmarks)
			row := layout.Fit(t.Name, rowWidth-len(count), m.layout.Text) + count
			if i == m.tags.selected {
				content.WriteString(m.styles.ItemSelected.Render(row) + "\n")
			} else {
				content.WriteString(m.styles.Item.Render(row) + "\n")
			}
		}
	}

	return m.styles.PaneActive.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

func (m Model) paneStyle(active bool) lipgloss.Style {
	if active {
		return m.styles.PaneActive
	}
	return m.styles.Pane
}

// renderStatusBar renders the notice (or hints) and the debug line.
func (m Model) renderStatusBar() string {
	var lines []string

	switch {
	case m.notice.text != "" && m.notice.isErr:
		lines = append(lines, m.styles.NoticeError.Render(m.notice.text))
	case m.notice.text != "":
		lines = append(lines, m.styles.Notice.Render(m.notice.text))
	default:
		lines = append(lines, m.renderHints(m.contextualHints()))
	}

	if m.cfg.Debug {
		lines = append(lines, m.styles.Debug.Render(fmt.Sprintf(
			"pane=%s results=%d tags=%d events=%d renders=%d size=%dx%d",
			m.activePane, len(m.results.items), len(m.tags.items),
			m.events, m.renders, m.width, m.height,
		)))
	} else {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderHelpOverlay() string {
	width := layout.CalculateModalWidth(m.width, m.layout.Modal.DefaultWidthPercent, m.layout.Modal)
	keyCol := m.layout.Modal.HelpKeyColumnWidth

	var content strings.Builder
	content.WriteString(m.styles.Title.Render("keys") + "\n\n")
	for _, h := range m.helpEntries() {
		content.WriteString(layout.Fit(h.Key, keyCol, m.layout.Text) + h.Desc + "\n")
	}
	content.WriteString("\n" + m.renderHints(m.contextualHints()))

	modal := m.styles.PaneActive.Width(width).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) renderTooSmall() string {
	msg := fmt.Sprintf(
		"terminal too small: %dx%d\nneed at least %dx%d\n\nq to quit",
		m.width, m.height, m.layout.Min.Width, m.layout.Min.Height,
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.Empty.Render(msg))
}
