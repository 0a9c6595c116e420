package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nconklindev/sheetpeek/internal/preview"
	"github.com/nconklindev/sheetpeek/internal/reader"
	"github.com/nconklindev/sheetpeek/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxColumnWidth = 24

type state int

const (
	stateFilePicker state = iota
	statePreview
	stateError
)

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Back: key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "pick another file")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type Model struct {
	state        state
	filepicker   filepicker.Model
	selectedFile string
	preview      *types.Table
	table        table.Model
	help         help.Model
	limit        int
	load         preview.LoadFunc
	err          error
	width        int
	height       int
}

type fileLoadedMsg struct {
	path string
	data *types.Table
	err  error
}

// InitialModel starts in the file picker at dir, or the working directory
// when dir is empty.
func InitialModel(dir string, limit int) Model {
	fp := filepicker.New()
	fp.AllowedTypes = reader.SupportedExtensions
	if dir == "" {
		dir, _ = os.Getwd()
	}
	fp.CurrentDirectory = dir

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB84D"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB84D"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	if limit <= 0 {
		limit = reader.DefaultRowLimit
	}

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
		help:       help.New(),
		limit:      limit,
		load:       reader.Load,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Leave room for title, subtitle and help text
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}

		case statePreview:
			switch {
			case key.Matches(msg, keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, keys.Back):
				m.state = stateFilePicker
				m.preview = nil
				return m, nil
			}
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd

		case stateError:
			switch {
			case key.Matches(msg, keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, keys.Back), msg.String() == "enter":
				m.state = stateFilePicker
				m.err = nil
				return m, nil
			}
			return m, nil
		}

	case fileLoadedMsg:
		if msg.path != m.selectedFile {
			// stale result from an earlier selection
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.preview = msg.data
		m.table = newPreviewTable(msg.data)
		m.state = statePreview
		return m, nil
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	load, limit := m.load, m.limit
	return func() tea.Msg {
		data, err := load(path, limit)
		return fileLoadedMsg{path: path, data: data, err: err}
	}
}

// newPreviewTable lays the preview window out as a bubbles table with the
// same index column and numbered headers as the printed preview.
func newPreviewTable(t *types.Table) table.Model {
	grid := t.Rectangular()

	columns := []table.Column{{Title: "#", Width: len(strconv.Itoa(len(grid))) + 1}}
	for col := 0; col < t.Width(); col++ {
		title := strconv.Itoa(col)
		width := lipgloss.Width(title)
		for _, row := range grid {
			if w := lipgloss.Width(row[col]); w > width {
				width = w
			}
		}
		columns = append(columns, table.Column{Title: title, Width: min(width, maxColumnWidth)})
	}

	rows := make([]table.Row, len(grid))
	for i, row := range grid {
		rows[i] = append(table.Row{strconv.Itoa(i)}, row...)
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(len(rows)+2, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(accent).
		Bold(false)
	tbl.SetStyles(s)

	return tbl
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case statePreview:
		return m.viewPreview()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("sheetpeek - find the header row"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Select a spreadsheet (%s) to preview its first %d rows",
		strings.Join(reader.SupportedExtensions, ", "), m.limit)))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render(fmt.Sprintf("First %d rows preview", m.limit)))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n")

	if m.preview == nil || len(m.preview.Rows) == 0 {
		s.WriteString("Empty sheet")
	} else {
		s.WriteString(m.table.View())
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render(m.help.View(keys)))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error reading " + filepath.Base(m.selectedFile)))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press esc to pick another file • q to quit"))

	return BoxStyle.Render(s.String())
}
