package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/lockfile"
	"github.com/engkufizz/NetworkChanges-Tracker/internal/record"
)

// Tracker abstracts the persistence operations the form needs.
type Tracker interface {
	Append(sheet string, date time.Time, requestNumber, description string) error
	ReadRows(sheet string) ([]record.Record, error)
}

type formField int

const (
	fieldSheet formField = iota
	fieldDate
	fieldRequest
	fieldDescription
	fieldCount
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("30")).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	previewStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

// formModel is the interactive add-record form.
type formModel struct {
	tracker Tracker
	sheets  []string

	sheetIndex int
	focus      formField

	dateInput textinput.Model
	reqInput  textinput.Model
	descInput textarea.Model

	records []record.Record
	status  string
	errMsg  string
	width   int
}

func newFormModel(t Tracker, sheets []string) formModel {
	dateInput := textinput.New()
	dateInput.Placeholder = record.DateLayout
	dateInput.SetValue(time.Now().Format(record.DateLayout))
	dateInput.CharLimit = 10
	dateInput.Width = 12

	reqInput := textinput.New()
	reqInput.Placeholder = "e.g. CR/ENP/1234 or NC12345678"
	reqInput.Width = 32

	descInput := textarea.New()
	descInput.Placeholder = "Work description; multiple lines will be joined with commas"
	descInput.SetHeight(4)
	descInput.Focus()

	m := formModel{
		tracker:   t,
		sheets:    sheets,
		focus:     fieldDescription,
		dateInput: dateInput,
		reqInput:  reqInput,
		descInput: descInput,
	}
	m.refresh()
	return m
}

func (m formModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *formModel) sheet() string {
	return m.sheets[m.sheetIndex]
}

func (m *formModel) refresh() {
	records, err := m.tracker.ReadRows(m.sheet())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.records = records
}

func (m *formModel) setFocus(f formField) {
	m.focus = f
	m.dateInput.Blur()
	m.reqInput.Blur()
	m.descInput.Blur()
	switch f {
	case fieldDate:
		m.dateInput.Focus()
	case fieldRequest:
		m.reqInput.Focus()
	case fieldDescription:
		m.descInput.Focus()
	}
}

func (m *formModel) submit() {
	m.errMsg = ""
	m.status = ""

	desc := record.NormalizeDescription(m.descInput.Value())
	if desc == "" {
		m.errMsg = "please enter the description of work"
		return
	}
	date, err := record.ParseDate(m.dateInput.Value())
	if err != nil {
		m.errMsg = err.Error()
		return
	}

	if err := m.tracker.Append(m.sheet(), date, strings.TrimSpace(m.reqInput.Value()), desc); err != nil {
		// Entered text is kept so the user can retry after fixing the cause.
		if errors.Is(err, lockfile.ErrBusy) {
			m.errMsg = "cannot save: " + err.Error()
		} else {
			m.errMsg = err.Error()
		}
		return
	}

	m.status = fmt.Sprintf("Added to %s: %s", m.sheet(), date.Format(record.DateLayout))
	m.descInput.Reset()
	m.reqInput.Reset()
	m.setFocus(fieldDescription)
	m.refresh()
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.descInput.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "ctrl+s":
			m.submit()
			return m, nil
		case "ctrl+t":
			m.dateInput.SetValue(time.Now().Format(record.DateLayout))
			return m, nil
		case "ctrl+l":
			m.descInput.Reset()
			return m, nil
		case "ctrl+r":
			m.errMsg = ""
			m.refresh()
			return m, nil
		}

		if m.focus == fieldSheet {
			switch msg.String() {
			case "left", "right", " ":
				m.sheetIndex = (m.sheetIndex + 1) % len(m.sheets)
				m.refresh()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldDate:
		m.dateInput, cmd = m.dateInput.Update(msg)
	case fieldRequest:
		m.reqInput, cmd = m.reqInput.Update(msg)
	case fieldDescription:
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(bannerStyle.Render("Network Changes Tracker"))
	b.WriteString("\n\n")

	sheetLabel := labelStyle
	if m.focus == fieldSheet {
		sheetLabel = focusStyle
	}
	var tabs []string
	for i, s := range m.sheets {
		if i == m.sheetIndex {
			tabs = append(tabs, focusStyle.Render("["+s+"]"))
		} else {
			tabs = append(tabs, labelStyle.Render(" "+s+" "))
		}
	}
	fmt.Fprintf(&b, "%s %s\n", sheetLabel.Render("Tracker:"), strings.Join(tabs, " "))

	dateLabel := labelStyle
	if m.focus == fieldDate {
		dateLabel = focusStyle
	}
	fmt.Fprintf(&b, "%s %s\n", dateLabel.Render("Approval Date:"), m.dateInput.View())

	reqLabel := labelStyle
	if m.focus == fieldRequest {
		reqLabel = focusStyle
	}
	fmt.Fprintf(&b, "%s %s\n", reqLabel.Render("Request Number:"), m.reqInput.View())

	descLabel := labelStyle
	if m.focus == fieldDescription {
		descLabel = focusStyle
	}
	fmt.Fprintf(&b, "%s\n%s\n", descLabel.Render("Description of Work:"), m.descInput.View())

	preview := record.NormalizeDescription(m.descInput.Value())
	if preview == "" {
		preview = "(nothing yet)"
	}
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Preview:"), previewStyle.Render(preview))

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.recordTable())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field • ctrl+s: add • ctrl+t: today • ctrl+l: clear • ctrl+r: refresh • esc: quit"))
	return b.String()
}

// recordTable renders the most recent records, newest last.
func (m formModel) recordTable() string {
	const maxRows = 10
	var b strings.Builder
	fmt.Fprintf(&b, "%s records: %d\n", m.sheet(), len(m.records))
	start := 0
	if len(m.records) > maxRows {
		start = len(m.records) - maxRows
	}
	for _, r := range m.records[start:] {
		fmt.Fprintf(&b, "  %-10s  %-16s  %s\n", r.ApprovalDate, r.RequestNumber, r.Preview(60))
	}
	return b.String()
}

// RunForm starts the interactive add-record form.
func RunForm(t Tracker, sheets []string) error {
	p := tea.NewProgram(newFormModel(t, sheets), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
