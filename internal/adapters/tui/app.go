package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"firedam/internal/adapters/tui/views"
	"firedam/internal/application"
	"firedam/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewExplorer ViewState = iota
	ViewDetail
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state    ViewState
	explorer *views.ExplorerModel
	detail   *views.DetailModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. clip may be nil.
func NewApp(backend *application.Backend, clip ports.ClipboardWriter) *App {
	return &App{
		state:    ViewExplorer,
		explorer: views.NewExplorerModel(backend, clip),
		detail:   views.NewDetailModel(backend.Registry, clip),
		help:     views.NewHelpModel(),
	}
}

// Explorer exposes the explorer model, e.g. to tune its timeout
func (a *App) Explorer() *views.ExplorerModel {
	return a.explorer
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.explorer.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.explorer.SetSize(msg.Width, msg.Height)
		a.detail.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToDetailMsg:
		a.state = ViewDetail
		a.detail.SetRecord(msg.Resource, msg.Record)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToExplorerMsg:
		a.state = ViewExplorer
		return a, nil

	// Searches finish in the background, whatever view is showing
	case views.SearchResultMsg:
		_, cmd := a.explorer.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.state {
	case ViewExplorer:
		_, cmd = a.explorer.Update(msg)
	case ViewDetail:
		_, cmd = a.detail.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewDetail:
		return a.detail.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.explorer.View()
	}
}
