package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"firedam/internal/adapters/tui/styles"
	"firedam/internal/domain"
	"firedam/internal/ports"
)

// DetailKeyMap defines key bindings for the detail view
type DetailKeyMap struct {
	Back     key.Binding
	CopyJSON key.Binding
	CopyURL  key.Binding
}

var DetailKeys = DetailKeyMap{
	Back: key.NewBinding(
		key.WithKeys("esc", "q", "h"),
		key.WithHelp("esc", "back"),
	),
	CopyJSON: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy json"),
	),
	CopyURL: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "copy url"),
	),
}

// DetailModel shows every field of one record
type DetailModel struct {
	ViewState
	registry  *domain.Registry
	clipboard ports.ClipboardWriter

	resource domain.ResourceDescriptor
	record   domain.ResultRecord
}

// NewDetailModel creates a new detail view model
func NewDetailModel(registry *domain.Registry, clip ports.ClipboardWriter) *DetailModel {
	return &DetailModel{registry: registry, clipboard: clip}
}

// SetRecord selects the record to show
func (m *DetailModel) SetRecord(resource string, rec domain.ResultRecord) {
	m.ClearMessage()
	m.record = rec
	desc, err := m.registry.Describe(resource)
	if err != nil {
		m.resource = domain.ResourceDescriptor{}
		m.SetMessage(err.Error(), true)
		return
	}
	m.resource = desc
}

// Init initializes the detail view
func (m *DetailModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case CopiedMsg:
		if msg.Err != nil {
			m.SetMessage("copy failed: "+msg.Err.Error(), true)
		} else {
			m.SetMessage("copied "+msg.What, false)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DetailKeys.Back):
			return m, func() tea.Msg { return SwitchToExplorerMsg{} }
		case key.Matches(msg, DetailKeys.CopyJSON):
			return m, copyRecord(m.clipboard, m.record)
		case key.Matches(msg, DetailKeys.CopyURL):
			return m, copyURL(m.clipboard, m.record)
		}
	}
	return m, nil
}

// View renders the detail view
func (m *DetailModel) View() string {
	vb := NewViewBuilder()
	if m.resource.IsZero() {
		return vb.Message(m.Message, true).Help(DetailKeys.Back).String()
	}

	vb.Title(m.resource.Name() + " " + FormatValue(m.record[m.resource.OutputFields()[0].Name]))
	for _, f := range m.resource.OutputFields() {
		v, ok := m.record[f.Name]
		if !ok {
			vb.Line("  " + styles.MutedText.Render(padRight(f.Name, 18)+"-"))
			continue
		}
		vb.Line("  " + RenderLabelValue(padRight(f.Name, 17), FormatValue(v)))
	}
	vb.BlankLine()

	vb.Message(m.Message, m.MessageErr)
	vb.Help(DetailKeys.Back, DetailKeys.CopyJSON, DetailKeys.CopyURL)
	return vb.String()
}
