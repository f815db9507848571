package ui

import (
	"fmt"
	"strings"

	"github.com/ncruces/go-strftime"

	"github.com/pstuifzand/renderwatch/internal/emit"
	"github.com/pstuifzand/renderwatch/internal/model"
)

// DefaultTimeFormat is the strftime format of the time column
const DefaultTimeFormat = "%H:%M:%S"

// Status texts of the editor link in the detail pane
const (
	linkResolving = "resolving..."
	linkUnknown   = "source unknown"
)

// LogView is a scrollable list of entries with the selected entry's
// details below it
type LogView struct {
	entries    []emit.Entry
	selected   int
	offset     int
	follow     bool
	timeFormat string
	listHeight int
}

// NewLogView creates an empty view that follows new entries
func NewLogView(timeFormat string) *LogView {
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}
	return &LogView{follow: true, timeFormat: timeFormat}
}

// SetEntries replaces the listed entries. While following, the selection
// stays on the newest entry.
func (lv *LogView) SetEntries(entries []emit.Entry) {
	lv.entries = entries
	if lv.follow || lv.selected >= len(entries) {
		lv.selected = len(entries) - 1
	}
	if lv.selected < 0 {
		lv.selected = 0
	}
}

// Len returns the number of listed entries
func (lv *LogView) Len() int {
	return len(lv.entries)
}

// Selected returns the selected entry
func (lv *LogView) Selected() (emit.Entry, bool) {
	if lv.selected < 0 || lv.selected >= len(lv.entries) {
		return emit.Entry{}, false
	}
	return lv.entries[lv.selected], true
}

// SelectedIndex returns the index of the selected entry
func (lv *LogView) SelectedIndex() int {
	return lv.selected
}

// Following reports whether the selection tracks the newest entry
func (lv *LogView) Following() bool {
	return lv.follow
}

// Move moves the selection by delta rows
func (lv *LogView) Move(delta int) {
	lv.selectIndex(lv.selected + delta)
}

// Page moves the selection by a page
func (lv *LogView) Page(direction int) {
	page := lv.listHeight - 1
	if page < 1 {
		page = 1
	}
	lv.Move(direction * page)
}

// Home selects the first entry
func (lv *LogView) Home() {
	lv.selectIndex(0)
}

// End selects the newest entry and follows new ones
func (lv *LogView) End() {
	lv.selectIndex(len(lv.entries) - 1)
}

func (lv *LogView) selectIndex(i int) {
	if i >= len(lv.entries) {
		i = len(lv.entries) - 1
	}
	if i < 0 {
		i = 0
	}
	lv.selected = i
	lv.follow = i >= len(lv.entries)-1
}

// Render draws the list in rows y..y+height-1 and the detail pane in the
// rows below it up to y+height+detailHeight-1
func (lv *LogView) Render(screen *Screen, y, height, detailHeight int) {
	width, _ := screen.Size()
	lv.listHeight = height
	lv.scrollToSelection()

	for row := 0; row < height; row++ {
		i := lv.offset + row
		if i >= len(lv.entries) {
			break
		}
		lv.renderRow(screen, y+row, width, lv.entries[i], i == lv.selected)
	}

	if detailHeight <= 1 {
		return
	}
	sepY := y + height
	screen.DrawString(0, sepY, strings.Repeat("─", width), StyleDim())

	entry, ok := lv.Selected()
	if !ok {
		return
	}
	row := 0
	for _, line := range DetailLines(entry) {
		style := DefaultStyle()
		if strings.HasPrefix(line, "Editor: http") {
			style = screen.LinkStyle()
		}
		for _, part := range WrapToWidth(line, width-2) {
			if row >= detailHeight-1 {
				return
			}
			screen.DrawString(1, sepY+1+row, part, style)
			row++
		}
	}
}

func (lv *LogView) scrollToSelection() {
	if lv.listHeight <= 0 {
		return
	}
	if lv.selected < lv.offset {
		lv.offset = lv.selected
	}
	if lv.selected >= lv.offset+lv.listHeight {
		lv.offset = lv.selected - lv.listHeight + 1
	}
	if lv.offset < 0 {
		lv.offset = 0
	}
}

// renderRow draws "time LEVEL [title segments] message args"
func (lv *LogView) renderRow(screen *Screen, y, width int, e emit.Entry, selected bool) {
	if selected {
		screen.FillRow(y, screen.SelectedStyle())
	}
	base := DefaultStyle()
	if selected {
		base = screen.SelectedStyle()
	}

	x := screen.DrawString(0, y, strftime.Format(lv.timeFormat, e.Time)+" ", base)
	x = screen.DrawString(x, y, fmt.Sprintf("%-5s ", e.Level), screen.LevelStyle(e.Level))
	for _, seg := range e.Title.Segments {
		x = screen.DrawString(x, y, " "+seg.Text+" ", screen.SegmentStyle(seg))
	}
	screen.DrawString(x, y, TruncateToWidthWithEllipsis(" "+messageText(e), width-x), base)
}

func messageText(e emit.Entry) string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, arg := range e.Args {
		fmt.Fprintf(&b, " %v", arg)
	}
	return b.String()
}

// DetailLines describes an entry for the detail pane
func DetailLines(e emit.Entry) []string {
	lines := []string{
		fmt.Sprintf("%s  %s", e.Title.Text(), e.Change.Kind),
		"Editor: " + editorText(e.Payload),
	}

	switch e.Change.Kind {
	case model.ChangedValue:
		lines = append(lines,
			fmt.Sprintf("  %s: %v -> %v", e.Change.Path(), e.Change.OldValue, e.Change.NewValue))
	case model.NewKey:
		lines = append(lines, fmt.Sprintf("  %s: %v", e.Change.Path(), e.Change.Value))
	case model.DeletedKey:
		lines = append(lines, fmt.Sprintf("  %s removed", e.Change.Path()))
	case model.DeepChangeOnly:
		lines = append(lines, "Before:")
		lines = append(lines, prefixLines("  ", e.Change.SerializedOld)...)
		lines = append(lines, "After:")
		lines = append(lines, prefixLines("  ", e.Change.SerializedNew)...)
		return lines
	}

	if e.Payload != nil && e.Payload.Serialized != "" {
		lines = append(lines, "")
		lines = append(lines, strings.Split(strings.TrimRight(e.Payload.Serialized, "\n"), "\n")...)
	}
	return lines
}

func editorText(p *emit.Payload) string {
	if p == nil || !p.Resolved() {
		return linkResolving
	}
	if link := p.OpenInEditor(); link != "" {
		return link
	}
	return linkUnknown
}

func prefixLines(prefix, text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return lines
}
