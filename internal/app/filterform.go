package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/models"
	"delivery-insight-tui/internal/ui/styles"
)

// Field indexes in the filter form.
const (
	fieldStartDate = iota
	fieldEndDate
	fieldSourceOffice
	fieldDestOffice
	fieldCount
)

// FilterForm is the staged filter editor. Edits are local to the form and
// only become the active filter when the user confirms a valid state.
type FilterForm struct {
	startInput textinput.Model
	endInput   textinput.Model

	officeIDs   []string
	officeNames []string
	sourceIdx   int
	destIdx     int

	reportType models.ReportType
	focus      int
	errMsg     string
}

// NewFilterForm creates a form seeded from the active filter and the known
// office directory.
func NewFilterForm(f filter.State, dir *models.OfficeDirectory) *FilterForm {
	start := textinput.New()
	start.Placeholder = "YYYY-MM-DD"
	start.CharLimit = 20
	start.Width = 20
	start.SetValue(f.Range.From.UTC().Format("2006-01-02"))
	start.Focus()

	end := textinput.New()
	end.Placeholder = "YYYY-MM-DD"
	end.CharLimit = 20
	end.Width = 20
	end.SetValue(f.Range.To.UTC().Format("2006-01-02"))

	ids := []string{models.AllOffices}
	names := []string{"All offices"}
	if dir != nil {
		for _, o := range dir.Offices() {
			ids = append(ids, o.ID)
			names = append(names, o.Name)
		}
	}

	form := &FilterForm{
		startInput:  start,
		endInput:    end,
		officeIDs:   ids,
		officeNames: names,
		reportType:  f.ReportType,
	}
	form.sourceIdx = form.indexOf(f.SourceOfficeID)
	form.destIdx = form.indexOf(f.DestinationOfficeID)
	return form
}

func (f *FilterForm) indexOf(id string) int {
	for i, known := range f.officeIDs {
		if known == id {
			return i
		}
	}
	return 0
}

// Update handles key input while the form is open.
func (f *FilterForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateInputs(msg)
	}

	switch keyMsg.String() {
	case "esc":
		return func() tea.Msg { return ToggleFilterMsg{} }

	case "enter":
		state, err := f.Result()
		if err != nil {
			f.errMsg = err.Error()
			return nil
		}
		f.errMsg = ""
		return func() tea.Msg { return ApplyFilterMsg{Filter: state} }

	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return nil

	case "shift+tab", "up":
		f.setFocus((f.focus - 1 + fieldCount) % fieldCount)
		return nil

	case "left", "right":
		if f.focus == fieldSourceOffice || f.focus == fieldDestOffice {
			f.cycleOffice(keyMsg.String() == "right")
			return nil
		}
	}

	return f.updateInputs(msg)
}

func (f *FilterForm) setFocus(focus int) {
	f.focus = focus
	f.startInput.Blur()
	f.endInput.Blur()
	switch focus {
	case fieldStartDate:
		f.startInput.Focus()
	case fieldEndDate:
		f.endInput.Focus()
	}
}

// cycleOffice steps the focused office selection. A concrete office already
// selected on the other side is skipped; only "All offices" may repeat.
func (f *FilterForm) cycleOffice(forward bool) {
	step := 1
	if !forward {
		step = len(f.officeIDs) - 1
	}

	idx, other := &f.sourceIdx, f.destIdx
	if f.focus == fieldDestOffice {
		idx, other = &f.destIdx, f.sourceIdx
	}

	*idx = (*idx + step) % len(f.officeIDs)
	if *idx == other && f.officeIDs[*idx] != models.AllOffices {
		*idx = (*idx + step) % len(f.officeIDs)
	}
}

func (f *FilterForm) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	f.startInput, cmd = f.startInput.Update(msg)
	cmds = append(cmds, cmd)
	f.endInput, cmd = f.endInput.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// Result builds the filter the form currently describes. The end date is
// expanded to the end of its day so a single-day range stays valid.
func (f *FilterForm) Result() (filter.State, error) {
	from, err := filter.ParseDate(strings.TrimSpace(f.startInput.Value()), false)
	if err != nil {
		return filter.State{}, fmt.Errorf("start date: %w", err)
	}
	to, err := filter.ParseDate(strings.TrimSpace(f.endInput.Value()), true)
	if err != nil {
		return filter.State{}, fmt.Errorf("end date: %w", err)
	}

	state := filter.State{
		Range:               models.DateRange{From: from, To: to},
		SourceOfficeID:      f.officeIDs[f.sourceIdx],
		DestinationOfficeID: f.officeIDs[f.destIdx],
		ReportType:          f.reportType,
	}
	if err := state.Validate(); err != nil {
		return filter.State{}, err
	}
	return state, nil
}

// SetReportType keeps the staged report type in sync with the active tab.
func (f *FilterForm) SetReportType(t models.ReportType) {
	f.reportType = t
}

// View renders the filter form panel.
func (f *FilterForm) View() string {
	var lines []string

	lines = append(lines, styles.CardTitleStyle.Render("Filter"))
	lines = append(lines, f.renderField(fieldStartDate, "Start date", f.startInput.View()))
	lines = append(lines, f.renderField(fieldEndDate, "End date", f.endInput.View()))
	lines = append(lines, f.renderField(fieldSourceOffice, "From office", f.renderOffice(f.sourceIdx, f.focus == fieldSourceOffice)))
	lines = append(lines, f.renderField(fieldDestOffice, "To office", f.renderOffice(f.destIdx, f.focus == fieldDestOffice)))
	lines = append(lines, "")

	if f.errMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.Error).Render(f.errMsg))
	} else {
		lines = append(lines, styles.HelpStyle.Render("enter apply · esc cancel · ←/→ cycle office"))
	}

	return styles.FocusedBorderStyle.Render(strings.Join(lines, "\n"))
}

func (f *FilterForm) renderField(field int, label, value string) string {
	labelStyle := styles.BlurredStyle
	if f.focus == field {
		labelStyle = styles.FocusedStyle
	}
	return fmt.Sprintf("%s %s", labelStyle.Width(12).Render(label), value)
}

func (f *FilterForm) renderOffice(idx int, focused bool) string {
	name := f.officeNames[idx]
	if focused {
		return styles.FocusedStyle.Render("◂ " + name + " ▸")
	}
	return name
}
