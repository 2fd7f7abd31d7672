package views

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"firedam/internal/adapters/tui/styles"
	"firedam/internal/application"
	"firedam/internal/application/commands"
	"firedam/internal/domain"
	"firedam/internal/ports"
)

// DefaultSearchTimeout bounds one search started from the explorer
const DefaultSearchTimeout = 30 * time.Second

// chrome is the number of lines around the result list
const chrome = 11

// ExplorerKeyMap defines key bindings for the explorer view
type ExplorerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Filter   key.Binding
	Reload   key.Binding
	Open     key.Binding
	CopyJSON key.Binding
	CopyURL  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var ExplorerKeys = ExplorerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "pgdown"),
		key.WithHelp("n", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("p", "pgup"),
		key.WithHelp("p", "prev page"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next resource"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev resource"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "l"),
		key.WithHelp("enter", "open"),
	),
	CopyJSON: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy json"),
	),
	CopyURL: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "copy url"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ExplorerModel lists search results for one resource at a time
type ExplorerModel struct {
	ViewState
	backend   *application.Backend
	clipboard ports.ClipboardWriter
	timeout   time.Duration

	resources []domain.ResourceDescriptor
	active    int

	filter    textinput.Model
	filtering bool
	applied   string

	records   []domain.ResultRecord
	paginator *Paginator
	seq       int
	loading   bool
}

// NewExplorerModel creates the explorer. clip may be nil when no clipboard
// is available.
func NewExplorerModel(backend *application.Backend, clip ports.ClipboardWriter) *ExplorerModel {
	input := textinput.New()
	input.Placeholder = `category=image tags=["banner"] uploadedAt=>=2024-06-01`
	input.Prompt = "filter> "
	input.CharLimit = 512

	return &ExplorerModel{
		backend:   backend,
		clipboard: clip,
		timeout:   DefaultSearchTimeout,
		resources: backend.Registry.Resources(),
		filter:    input,
		paginator: NewPaginator(10),
	}
}

// SetTimeout overrides the per-search timeout
func (m *ExplorerModel) SetTimeout(d time.Duration) {
	if d > 0 {
		m.timeout = d
	}
}

// SetSize updates the view dimensions and the page size
func (m *ExplorerModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.filter.Width = max(width-16, 20)
	m.paginator.SetPageSize(max(height-chrome, 1))
}

// Resource returns the descriptor of the active tab
func (m *ExplorerModel) Resource() domain.ResourceDescriptor {
	return m.resources[m.active]
}

// Records returns the records of the last completed search
func (m *ExplorerModel) Records() []domain.ResultRecord {
	return m.records
}

// Selected returns the record under the cursor
func (m *ExplorerModel) Selected() (domain.ResultRecord, bool) {
	i := m.paginator.Cursor()
	if i < 0 || i >= len(m.records) {
		return nil, false
	}
	return m.records[i], true
}

// Init runs the first search over the active resource
func (m *ExplorerModel) Init() tea.Cmd {
	return m.Search()
}

// Search runs the current filter against the active resource. A filter that
// does not parse is reported without contacting the backend.
func (m *ExplorerModel) Search() tea.Cmd {
	filter, err := application.ParseFilterExpr(m.filter.Value())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}

	m.seq++
	m.loading = true
	m.applied = m.filter.Value()
	m.ClearMessage()

	seq, resource := m.seq, m.Resource().Name()
	backend, timeout := m.backend, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg := SearchResultMsg{Seq: seq, Resource: resource}
		result, err := commands.NewSearchCommand(backend, resource, filter).Execute(ctx)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.Records = result.Records
		return msg
	}
}

// Update handles messages for the explorer view
func (m *ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case SearchResultMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.records = nil
			m.paginator.Reset()
			m.SetMessage(msg.Err.Error(), true)
			return m, nil
		}
		m.records = msg.Records
		m.paginator.SetTotal(len(m.records))
		m.paginator.SetCursor(0)
		m.SetMessage(fmt.Sprintf("%d %s", len(m.records), msg.Resource), false)
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			m.SetMessage("copy failed: "+msg.Err.Error(), true)
		} else {
			m.SetMessage("copied "+msg.What, false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *ExplorerModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, m.Search()
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue(m.applied)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *ExplorerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ExplorerKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, ExplorerKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, ExplorerKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(msg, ExplorerKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(msg, ExplorerKeys.NextPage):
		m.paginator.NextPage()

	case key.Matches(msg, ExplorerKeys.PrevPage):
		m.paginator.PrevPage()

	case key.Matches(msg, ExplorerKeys.NextTab):
		return m, m.switchTab(1)

	case key.Matches(msg, ExplorerKeys.PrevTab):
		return m, m.switchTab(-1)

	case key.Matches(msg, ExplorerKeys.Filter):
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, ExplorerKeys.Reload):
		return m, m.Search()

	case key.Matches(msg, ExplorerKeys.Open):
		if rec, ok := m.Selected(); ok {
			resource := m.Resource().Name()
			return m, func() tea.Msg { return SwitchToDetailMsg{Resource: resource, Record: rec} }
		}

	case key.Matches(msg, ExplorerKeys.CopyJSON):
		if rec, ok := m.Selected(); ok {
			return m, copyRecord(m.clipboard, rec)
		}

	case key.Matches(msg, ExplorerKeys.CopyURL):
		if rec, ok := m.Selected(); ok {
			return m, copyURL(m.clipboard, rec)
		}
	}

	return m, nil
}

// switchTab moves to another resource. Filters do not carry over since each
// resource has its own attributes.
func (m *ExplorerModel) switchTab(step int) tea.Cmd {
	n := len(m.resources)
	m.active = (m.active + step + n) % n
	m.filter.SetValue("")
	m.records = nil
	m.paginator.Reset()
	return m.Search()
}

// View renders the explorer view
func (m *ExplorerModel) View() string {
	vb := NewViewBuilder()
	vb.Raw(m.renderTabs()).BlankLine().BlankLine()

	if m.filtering {
		vb.Line(styles.InputFocused.Render(m.filter.View()))
	} else {
		vb.Line(styles.InputField.Render(m.filterSummary()))
	}
	vb.BlankLine()

	switch {
	case m.loading:
		vb.Line(styles.Pending.Render("searching " + m.Resource().Name() + "..."))
	case len(m.records) == 0:
		vb.Muted("no records")
	default:
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			vb.Line(m.renderRow(i))
		}
		if m.paginator.TotalPages() > 1 {
			vb.Muted(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
		}
	}
	vb.BlankLine()

	vb.Message(m.Message, m.MessageErr)
	vb.Help(
		ExplorerKeys.NextTab,
		ExplorerKeys.Filter,
		ExplorerKeys.Open,
		ExplorerKeys.CopyJSON,
		ExplorerKeys.Help,
		ExplorerKeys.Quit,
	)
	return vb.String()
}

func (m *ExplorerModel) filterSummary() string {
	if m.applied == "" {
		return styles.MutedText.Render("no filter (press / to edit)")
	}
	return m.applied
}

func (m *ExplorerModel) renderTabs() string {
	tabs := make([]string, len(m.resources))
	for i, desc := range m.resources {
		if i == m.active {
			tabs[i] = styles.TabActive.Background(styles.ResourceColor(desc.Name())).Render(desc.Name())
		} else {
			tabs[i] = styles.Tab.Render(desc.Name())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *ExplorerModel) renderRow(i int) string {
	line := RowSummary(m.Resource(), m.records[i])
	if i == m.paginator.Cursor() {
		return styles.RowSelected.Render("> " + line)
	}
	return "  " + line
}

// RowSummary renders the key field of a record followed by the first two
// other fields it carries, in schema order.
func RowSummary(desc domain.ResourceDescriptor, rec domain.ResultRecord) string {
	fields := desc.OutputFields()
	if len(fields) == 0 {
		return ""
	}

	keyName := fields[0].Name
	parts := []string{styles.RowKey.Render(FormatValue(rec[keyName]))}
	for _, f := range fields[1:] {
		if len(parts) == 3 {
			break
		}
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		parts = append(parts, f.Name+"="+FormatValue(v))
	}
	return strings.Join(parts, "  ")
}

// FormatValue renders a normalized field value as short text
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

func copyRecord(clip ports.ClipboardWriter, rec domain.ResultRecord) tea.Cmd {
	return func() tea.Msg {
		if clip == nil {
			return CopiedMsg{What: "record", Err: errNoClipboard}
		}
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return CopiedMsg{What: "record", Err: err}
		}
		return CopiedMsg{What: "record", Err: clip.WriteAll(string(data))}
	}
}

func copyURL(clip ports.ClipboardWriter, rec domain.ResultRecord) tea.Cmd {
	return func() tea.Msg {
		url := recordURL(rec)
		if url == "" {
			return CopiedMsg{What: "url", Err: errNoURL}
		}
		if clip == nil {
			return CopiedMsg{What: "url", Err: errNoClipboard}
		}
		return CopiedMsg{What: "url", Err: clip.WriteAll(url)}
	}
}

// recordURL returns the download link of a storage object or the file link
// of a version.
func recordURL(rec domain.ResultRecord) string {
	for _, name := range []string{"downloadUrl", "fileUrl"} {
		if s, ok := rec[name].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
