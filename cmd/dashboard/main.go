// Package main provides the interactive portfolio dashboard: two linked
// charts above an editable holdings table, updating as cells are edited.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/natefinch/lumberjack.v2"

	"folio/pkg/config"
	"folio/pkg/moneyfmt"
	"folio/pkg/signal"
	"folio/services/chart"
	"folio/services/holdings"
	"folio/services/market"
)

const folioLogo = `
   ______ ____   __     ____ ____
  / ____// __ \ / /    /  _// __ \
 / /_   / / / // /     / / / / / /
/ __/  / /_/ // /___ _/ / / /_/ /
/_/     \____//_____//___/ \____/

   E Q U I T Y   P O R T F O L I O
`

// Styles
var (
	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BB2649")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BB2649")).
			MarginTop(1)

	chartBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#404040")).
			Padding(0, 1)

	editStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BB2649")).
			Padding(0, 1)

	statusOkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5AD534"))

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#D94467"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)
)

// Column the textinput is currently editing, "" when not editing.
type editTarget string

const (
	editNone     editTarget = ""
	editQuantity editTarget = holdings.ColQuantity
	editNotes    editTarget = holdings.ColNotes
)

type model struct {
	cfg        *config.Config
	provider   *market.Provider
	store      *holdings.Store
	reconciler *holdings.Reconciler
	bus        *signal.Bus
	changes    <-chan struct{}

	history *market.History

	table table.Model
	input textinput.Model

	editing editTarget
	editRow int

	candleSpec chart.CandlestickSpec
	candleErr  error
	allocSpec  chart.AllocationSpec

	width  int
	height int
	ready  bool
	status string
}

type changeMsg struct{}

type dataMsg struct {
	history *market.History
	err     error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogFile)

	provider := market.NewProvider(market.NewFetcher(cfg.CSVURL), cfg.Tickers(), cfg.Period, cfg.CacheTTL)

	// The initial fetch is the one synchronous, blocking step; a failure here
	// is a load failure for the whole dashboard.
	history, err := provider.History(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load historical data: %v\n", err)
		log.Fatalf("Initial fetch failed: %v", err)
	}

	positions, err := buildPositions(cfg, history)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build portfolio: %v\n", err)
		log.Fatalf("Portfolio init failed: %v", err)
	}

	store := holdings.NewStore(positions)
	bus := signal.NewBus()
	reconciler := holdings.NewReconciler(store, bus, cfg.NotesMaxLen)

	p := tea.NewProgram(initialModel(cfg, provider, store, reconciler, bus, history), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(filename string) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(&lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
	})
}

// buildPositions seeds the holdings from the configured portfolio and the
// latest close prices.
func buildPositions(cfg *config.Config, history *market.History) ([]holdings.Position, error) {
	positions := make([]holdings.Position, 0, len(cfg.Equities))
	for _, eq := range cfg.Equities {
		price, err := history.LastClose(eq.Ticker)
		if err != nil {
			return nil, fmt.Errorf("last close for %s: %w", eq.Ticker, err)
		}
		positions = append(positions,
			holdings.NewPosition(eq.Ticker, eq.Company, eq.Quantity, price, holdings.Action(eq.Action)))
	}
	return positions, nil
}

func initialModel(cfg *config.Config, provider *market.Provider, store *holdings.Store,
	reconciler *holdings.Reconciler, bus *signal.Bus, history *market.History) model {

	columns := []table.Column{
		{Title: "Ticker", Width: 7},
		{Title: "Company", Width: 20},
		{Title: "Shares", Width: 7},
		{Title: "Last Close", Width: 11},
		{Title: "Value", Width: 12},
		{Title: "Action", Width: 7},
		{Title: "Notes", Width: 30},
	}

	holdingsTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(len(cfg.Equities)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#BB2649")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#BB2649")).
		Bold(false)
	holdingsTable.SetStyles(s)

	input := textinput.New()
	input.CharLimit = cfg.NotesMaxLen

	_, changes := bus.Subscribe()

	snapshot := store.Snapshot()
	holdingsTable.SetRows(rowsFromSnapshot(snapshot))

	// Before any selection the price chart shows the default ticker.
	candleSpec, candleErr := chart.Candlestick(chart.NoSelection, snapshot, history)

	return model{
		cfg:        cfg,
		provider:   provider,
		store:      store,
		reconciler: reconciler,
		bus:        bus,
		changes:    changes,
		history:    history,
		table:      holdingsTable,
		input:      input,
		candleSpec: candleSpec,
		candleErr:  candleErr,
		allocSpec:  chart.Allocation(snapshot),
	}
}

func rowsFromSnapshot(snapshot []holdings.Position) []table.Row {
	rows := make([]table.Row, len(snapshot))
	for i, pos := range snapshot {
		rows[i] = table.Row{
			pos.Ticker,
			pos.Company,
			strconv.Itoa(pos.Quantity),
			moneyfmt.Price(pos.Price),
			moneyfmt.Amount(pos.Value),
			string(pos.Action),
			pos.Notes,
		}
	}
	return rows
}

func (m model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange re-arms the bus subscription as a command; each notification
// becomes one changeMsg.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changeMsg{}
	}
}

func loadData(provider *market.Provider) tea.Cmd {
	return func() tea.Msg {
		history, err := provider.History(context.Background())
		return dataMsg{history: history, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "e":
			return m.startEdit(editQuantity), nil
		case "n":
			return m.startEdit(editNotes), nil
		case "a":
			m.cycleAction()
			return m, nil
		case "r":
			m.provider.Refresh()
			m.status = "Refreshing historical data..."
			return m, loadData(m.provider)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case changeMsg:
		// The revision signal fired: re-read the snapshot and recompute the
		// allocation projection.
		snapshot := m.store.Snapshot()
		m.allocSpec = chart.Allocation(snapshot)
		m.table.SetRows(rowsFromSnapshot(snapshot))
		return m, waitForChange(m.changes)

	case dataMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Refresh failed: %v", msg.err)
			log.Printf("Refresh failed: %v", msg.err)
			return m, nil
		}
		m.history = msg.history
		m.status = "Historical data refreshed"
		m.recomputeCandlestick()
		return m, nil
	}

	before := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != before {
		// Selection changed; the price chart depends on it.
		m.recomputeCandlestick()
	}

	return m, cmd
}

func (m *model) recomputeCandlestick() {
	m.candleSpec, m.candleErr = chart.Candlestick(m.table.Cursor(), m.store.Snapshot(), m.history)
	if m.candleErr != nil {
		log.Printf("Price chart recompute failed: %v", m.candleErr)
	}
}

// cycleAction advances the selected row's action through buy -> sell -> hold.
func (m *model) cycleAction() {
	row := m.table.Cursor()
	pos, err := m.store.Position(row)
	if err != nil {
		m.status = fmt.Sprintf("Edit rejected: %v", err)
		return
	}

	next := pos.Action.Next()
	if err := m.reconciler.Apply(holdings.EditEvent{Row: row, Column: holdings.ColAction, Value: next}); err != nil {
		m.status = fmt.Sprintf("Edit rejected: %v", err)
		return
	}

	m.table.SetRows(rowsFromSnapshot(m.store.Snapshot()))
	m.status = fmt.Sprintf("%s action set to %s", pos.Ticker, next)
}

func (m model) startEdit(target editTarget) model {
	row := m.table.Cursor()
	pos, err := m.store.Position(row)
	if err != nil {
		m.status = fmt.Sprintf("Edit rejected: %v", err)
		return m
	}

	m.editing = target
	m.editRow = row

	switch target {
	case editQuantity:
		m.input.CharLimit = 9
		m.input.Placeholder = "shares"
		m.input.SetValue(strconv.Itoa(pos.Quantity))
	case editNotes:
		m.input.CharLimit = m.cfg.NotesMaxLen
		m.input.Placeholder = "notes"
		m.input.SetValue(pos.Notes)
	}
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = editNone
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case "enter":
		return m.commitEdit(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitEdit turns the input text into an edit event for the reconciler.
// Type constraints are enforced here at the edit surface; range and policy
// constraints are enforced by the reconciler's validation.
func (m model) commitEdit() model {
	raw := m.input.Value()
	row := m.editRow
	target := m.editing
	m.editing = editNone
	m.input.Blur()

	var ev holdings.EditEvent
	switch target {
	case editQuantity:
		quantity, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			m.status = fmt.Sprintf("Edit rejected: %q is not an integer", raw)
			return m
		}
		ev = holdings.EditEvent{Row: row, Column: holdings.ColQuantity, Value: quantity}
	case editNotes:
		ev = holdings.EditEvent{Row: row, Column: holdings.ColNotes, Value: raw}
	default:
		return m
	}

	if err := m.reconciler.Apply(ev); err != nil {
		m.status = fmt.Sprintf("Edit rejected: %v", err)
		return m
	}

	m.table.SetRows(rowsFromSnapshot(m.store.Snapshot()))
	m.status = fmt.Sprintf("Row %d %s updated", row+1, target)
	return m
}

func (m model) View() string {
	if !m.ready {
		return "\n  Loading Folio..."
	}

	var b strings.Builder

	b.WriteString(logoStyle.Render(folioLogo) + "\n")

	b.WriteString(m.renderCharts() + "\n")

	b.WriteString(headerStyle.Render("Holdings") + "\n")
	b.WriteString(m.table.View() + "\n")

	if m.editing != editNone {
		label := "Shares"
		if m.editing == editNotes {
			label = "Notes"
		}
		b.WriteString(editStyle.Render(fmt.Sprintf("%s: %s", label, m.input.View())) + "\n")
	}

	b.WriteString(m.renderStatusBar())

	help := helpStyle.Render("↑/↓: Select row • e: Edit shares • a: Cycle action • n: Edit notes • r: Refresh data • q: Quit")
	b.WriteString("\n" + help)

	return b.String()
}

func (m model) renderCharts() string {
	chartWidth := m.width/2 - 4
	if chartWidth < 30 {
		chartWidth = 30
	}

	var price string
	if m.candleErr != nil {
		price = statusErrorStyle.Render(fmt.Sprintf("Price chart unavailable: %v", m.candleErr))
	} else {
		price = chart.RenderCandlestick(m.candleSpec, chartWidth, 10)
	}

	allocation := chart.RenderAllocation(m.allocSpec, chartWidth)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		chartBoxStyle.Render(price),
		chartBoxStyle.Render(allocation),
	)
}

func (m model) renderStatusBar() string {
	if m.status == "" {
		return statusOkStyle.Render(fmt.Sprintf("Data as of %s", m.history.FetchedAt().Format("15:04:05")))
	}
	if strings.HasPrefix(m.status, "Edit rejected") || strings.HasPrefix(m.status, "Refresh failed") {
		return statusErrorStyle.Render(m.status)
	}
	return statusOkStyle.Render(m.status)
}
