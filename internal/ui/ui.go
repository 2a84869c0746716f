package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/catalog"
	"github.com/desertthunder/moviex/internal/feed"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/operations"
	"github.com/desertthunder/moviex/internal/services"
)

// Mode is the current screen of the TUI.
type Mode int

const (
	ListView Mode = iota
	InputView
	ConfirmView
	DetailView
	ResultView
)

type inputPurpose int

const (
	nameFilterInput inputPurpose = iota
	taglineInput
)

// Options are the dependencies of a [Model].
type Options struct {
	Store   *catalog.Store
	Catalog services.Catalog
	// FeedStates, when set, drives the connection indicator.
	FeedStates <-chan feed.State
	Logger     *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	store      *catalog.Store
	catalog    services.Catalog
	gateway    *operations.Gateway
	updates    <-chan catalog.Snapshot
	feedStates <-chan feed.State

	mode      Mode
	purpose   inputPurpose
	snap      catalog.Snapshot
	feedState feed.State
	selected  *models.Movie
	result    operationResult
	width     int
	height    int

	table table.Model
	input textinput.Model
	help  help.Model
	keys  keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	t := table.New(
		table.WithColumns(tableColumns(opts.Store.View().Sort)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(styles.table)

	ti := textinput.New()
	ti.CharLimit = 168

	return &Model{
		ctx:        ctx,
		store:      opts.Store,
		catalog:    opts.Catalog,
		gateway:    operations.New(opts.Catalog, opts.Logger),
		updates:    opts.Store.Updates(),
		feedStates: opts.FeedStates,
		mode:       ListView,
		snap:       opts.Store.Snapshot(),
		table:      t,
		input:      ti,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init waits for store and feed updates and loads the first page.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), m.waitForFeedState(), m.storeCmd(m.store.Refresh))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-10, 3))
		m.help.Width = msg.Width
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgSnapshot:
			m.applySnapshot(msg.data.(catalog.Snapshot))
			return m, m.waitForSnapshot()
		case MsgFeedState:
			m.feedState = msg.data.(feed.State)
			return m, m.waitForFeedState()
		case MsgOperationDone:
			m.result = msg.data.(operationResult)
			m.mode = ResultView
			return m, nil
		}

	case tea.KeyMsg:
		switch m.mode {
		case ListView:
			return m.handleListKeys(msg)
		case InputView:
			return m.handleInputKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case DetailView, ResultView:
			return m.handleDismissKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) applySnapshot(s catalog.Snapshot) {
	m.snap = s
	m.table.SetColumns(tableColumns(s.View.Sort))
	m.table.SetRows(tableRows(s.Movies))
	if m.table.Cursor() >= len(s.Movies) {
		m.table.SetCursor(max(len(s.Movies)-1, 0))
	}
}

// selectedMovie is the movie under the cursor, if any.
func (m *Model) selectedMovie() *models.Movie {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.snap.Movies) {
		return nil
	}
	movie := m.snap.Movies[i]
	return &movie
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		return m, m.storeCmd(func(ctx context.Context) error {
			_, err := m.store.NextPage(ctx)
			return err
		})
	case key.Matches(msg, m.keys.prev):
		return m, m.storeCmd(func(ctx context.Context) error {
			_, err := m.store.PrevPage(ctx)
			return err
		})
	case key.Matches(msg, m.keys.sort):
		i := int(msg.String()[0] - '1')
		if i < 0 || i >= len(columns) {
			return m, nil
		}
		field := columns[i].field
		return m, m.storeCmd(func(ctx context.Context) error { return m.store.ToggleSort(ctx, field) })
	case key.Matches(msg, m.keys.filter):
		return m, m.openInput(nameFilterInput, "Name: ", m.snap.View.Filters["name"])
	case key.Matches(msg, m.keys.genre):
		next := nextGenre(m.snap.View.Filters["genre"])
		return m, m.storeCmd(func(ctx context.Context) error { return m.store.SetFilter(ctx, "genre", next) })
	case key.Matches(msg, m.keys.clear):
		return m, m.storeCmd(func(ctx context.Context) error {
			return m.store.SetViewState(ctx, catalog.ViewChange{ClearFilters: true})
		})
	case key.Matches(msg, m.keys.refresh):
		return m, m.storeCmd(m.store.Refresh)
	case key.Matches(msg, m.keys.details):
		if m.selected = m.selectedMovie(); m.selected != nil {
			m.mode = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if m.selected = m.selectedMovie(); m.selected != nil && m.selected.HasID() {
			m.mode = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.palms):
		return m, m.goldenPalmSum()
	case key.Matches(msg, m.keys.tagline):
		return m, m.openInput(taglineInput, "Tagline contains: ", "")
	case key.Matches(msg, m.keys.writers):
		return m, m.screenwriters()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) openInput(purpose inputPurpose, prompt, value string) tea.Cmd {
	m.mode = InputView
	m.purpose = purpose
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.mode = ListView
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		value := m.input.Value()
		m.input.Blur()
		m.mode = ListView
		if m.purpose == taglineInput {
			return m, m.taglineSearch(value)
		}
		return m, m.storeCmd(func(ctx context.Context) error {
			return m.store.SetFilter(ctx, "name", strings.TrimSpace(value))
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.mode = ListView
		return m, m.deleteMovie(*m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.mode = ListView
	}
	return m, nil
}

func (m *Model) handleDismissKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "enter", "q":
		m.mode = ListView
	}
	return m, nil
}

// storeCmd runs a store call off the UI loop. Results arrive as snapshots.
func (m *Model) storeCmd(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		_ = fn(m.ctx)
		return nil
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.updates:
			return snapshotMsg(s)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForFeedState() tea.Cmd {
	if m.feedStates == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case s, ok := <-m.feedStates:
			if !ok {
				return nil
			}
			return feedStateMsg(s)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) deleteMovie(movie models.Movie) tea.Cmd {
	return func() tea.Msg {
		err := m.catalog.DeleteMovie(m.ctx, *movie.ID)
		return operationDoneMsg("Delete", fmt.Sprintf("Deleted %q.", movie.Name), err)
	}
}

func (m *Model) goldenPalmSum() tea.Cmd {
	return func() tea.Msg {
		sum, err := m.gateway.GoldenPalmSum(m.ctx)
		return operationDoneMsg("Golden palms", fmt.Sprintf("Total Golden Palms: %d", sum), err)
	}
}

func (m *Model) taglineSearch(substring string) tea.Cmd {
	return func() tea.Msg {
		movies, err := m.gateway.FindByTagline(m.ctx, substring)
		names := operations.Names(movies, func(mv models.Movie) string { return mv.Name })
		return operationDoneMsg("Tagline search", "Movies found:\n"+names, err)
	}
}

func (m *Model) screenwriters() tea.Cmd {
	return func() tea.Msg {
		people, err := m.gateway.ScreenwritersWithoutOscars(m.ctx)
		names := operations.Names(people, func(p models.Person) string { return p.Name })
		return operationDoneMsg("Screenwriters", "Screenwriters with no Oscars:\n"+names, err)
	}
}

// nextGenre cycles through no filter and every genre.
func nextGenre(current string) string {
	if current == "" {
		return string(models.Genres[0])
	}
	for i, g := range models.Genres {
		if string(g) == current && i+1 < len(models.Genres) {
			return string(models.Genres[i+1])
		}
	}
	return ""
}

// View renders the UI based on the current mode.
func (m *Model) View() string {
	switch m.mode {
	case ConfirmView:
		return m.renderConfirm()
	case DetailView:
		return m.renderDetail()
	case ResultView:
		return m.renderResult()
	default:
		return m.renderList()
	}
}

func (m *Model) renderHeader() string {
	var status string
	switch m.feedState {
	case feed.Connected:
		status = styles.ok.Render("● live")
	case feed.Connecting:
		status = styles.warn.Render("◌ connecting")
	default:
		status = styles.warn.Render("○ offline")
	}
	if m.feedStates == nil {
		status = ""
	}

	header := styles.title.Render("Movie catalog") + "  " + status
	if m.snap.Loading {
		header += "  " + styles.help.Render("loading…")
	}
	return header
}

func (m *Model) renderFilters() string {
	filters := m.snap.View.Filters
	if len(filters) == 0 {
		return styles.help.Render("No filters")
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, filters[k])
	}
	return "Filters: " + strings.Join(parts, "  ")
}

func (m *Model) renderList() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.snap.PageLabel())
	if m.snap.Local {
		b.WriteString(styles.help.Render("  (paged locally)"))
	}
	b.WriteString("\n")

	if m.snap.Err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Refresh failed: %v (r to retry)", m.snap.Err)))
		b.WriteString("\n")
	}
	if m.mode == InputView {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			m.keys.back,
		}))
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Delete '%s'?", m.selected.Name))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s", title, helpView)
}

func (m *Model) renderDetail() string {
	mv := m.selected
	var b strings.Builder

	b.WriteString(styles.title.Render(mv.Name))
	b.WriteString("\n")
	if mv.Tagline != "" {
		b.WriteString(styles.help.Render(mv.Tagline))
		b.WriteString("\n\n")
	}

	row := func(label, value string) {
		fmt.Fprintf(&b, "%-18s %s\n", label, value)
	}
	row("ID", mv.IDString())
	row("Genre", mv.Genre.Label())
	row("MPAA", mv.MpaaRating.Label())
	row("Budget", fmt.Sprintf("%.2f", mv.Budget))
	row("Total box office", fmt.Sprintf("%d", mv.TotalBoxOffice))
	if mv.UsaBoxOffice != nil {
		row("USA box office", fmt.Sprintf("%d", *mv.UsaBoxOffice))
	}
	if mv.Length != nil {
		row("Length", fmt.Sprintf("%d min", *mv.Length))
	}
	if mv.OscarsCount != nil {
		row("Oscars", fmt.Sprintf("%d", *mv.OscarsCount))
	}
	row("Golden palms", fmt.Sprintf("%d", mv.GoldenPalmCount))
	row("Coordinates", fmt.Sprintf("(%g, %d)", mv.Coordinates.X, mv.Coordinates.Y))
	row("Director", personLine(mv.Director))
	if mv.Screenwriter != nil {
		row("Screenwriter", personLine(mv.Screenwriter))
	}
	row("Operator", personLine(mv.Operator))
	if mv.CreationDate != "" {
		row("Created", mv.CreationDate)
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.back}))
	return b.String()
}

func personLine(p *models.Person) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s eyes)", p.Name, strings.ToLower(string(p.EyeColor)))
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back})
	if m.result.err != nil {
		return fmt.Sprintf("%s\n%s\n\n%s",
			styles.err.Render(m.result.title+" failed"),
			m.result.err.Error(),
			helpView,
		)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", styles.ok.Render("✓ "+m.result.title), m.result.message, helpView)
}
