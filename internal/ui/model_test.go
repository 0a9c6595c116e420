package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/nconklindev/sheetpeek/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(load func(string, int) (*types.Table, error)) Model {
	m := InitialModel("/tmp", 4)
	m.load = load
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func TestLoadFileUsesLimit(t *testing.T) {
	var gotPath string
	var gotLimit int
	m := newTestModel(func(path string, limit int) (*types.Table, error) {
		gotPath, gotLimit = path, limit
		return &types.Table{}, nil
	})

	msg := m.loadFile("/tmp/a.xlsx")()
	loaded, ok := msg.(fileLoadedMsg)
	if !ok {
		t.Fatalf("loadFile produced %T", msg)
	}
	if gotPath != "/tmp/a.xlsx" || gotLimit != 4 {
		t.Errorf("loader called with (%q, %d)", gotPath, gotLimit)
	}
	if loaded.path != "/tmp/a.xlsx" || loaded.err != nil {
		t.Errorf("unexpected message %+v", loaded)
	}
}

func TestPreviewState(t *testing.T) {
	m := newTestModel(nil)
	m.selectedFile = "/tmp/precos.xlsx"

	data := &types.Table{Rows: [][]string{
		{"TABELA DE PREÇOS"},
		{"Código", "Descrição", "Preço"},
	}}
	m, _ = update(t, m, fileLoadedMsg{path: m.selectedFile, data: data})

	if m.state != statePreview {
		t.Fatalf("state = %v; want preview", m.state)
	}
	view := m.View()
	for _, want := range []string{"precos.xlsx", "Código", "Preço"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if cols := m.table.Columns(); len(cols) != 4 {
		t.Errorf("table has %d columns; want index + 3", len(cols))
	}
	if rows := m.table.Rows(); len(rows) != 2 {
		t.Errorf("table has %d rows; want 2", len(rows))
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateFilePicker {
		t.Errorf("esc left state %v; want file picker", m.state)
	}
}

func TestEmptyPreview(t *testing.T) {
	m := newTestModel(nil)
	m.selectedFile = "/tmp/empty.xlsx"

	m, _ = update(t, m, fileLoadedMsg{path: m.selectedFile, data: &types.Table{}})
	if !strings.Contains(m.View(), "Empty sheet") {
		t.Errorf("view does not report empty sheet:\n%s", m.View())
	}
}

func TestErrorState(t *testing.T) {
	m := newTestModel(nil)
	m.selectedFile = "/tmp/broken.xls"

	m, _ = update(t, m, fileLoadedMsg{path: m.selectedFile, err: errors.New("corrupt workbook")})
	if m.state != stateError {
		t.Fatalf("state = %v; want error", m.state)
	}
	if !strings.Contains(m.View(), "corrupt workbook") {
		t.Errorf("view missing error text")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateFilePicker || m.err != nil {
		t.Errorf("enter did not return to the picker")
	}
}

func TestStaleLoadIgnored(t *testing.T) {
	m := newTestModel(nil)
	m.selectedFile = "/tmp/second.xlsx"

	m, _ = update(t, m, fileLoadedMsg{path: "/tmp/first.xlsx", data: &types.Table{}})
	if m.state != stateFilePicker {
		t.Errorf("stale result changed state to %v", m.state)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(nil)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q did not quit")
	}
}
