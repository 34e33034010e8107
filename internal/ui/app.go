package ui

import (
	"fmt"

	"github.com/abelbrown/cardscope/internal/browse"
	"github.com/abelbrown/cardscope/internal/card"
	"github.com/abelbrown/cardscope/internal/otel"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppConfig wires the App to its collaborators.
type AppConfig struct {
	// Search returns a command that runs one search for term and replies
	// with SearchCompleted carrying seq.
	Search func(seq uint64, term string) tea.Cmd

	Logger *otel.Logger     // nil discards events
	Ring   *otel.RingBuffer // backs the ctrl+d debug overlay; nil disables it

	InitialTerm string
	SortKey     card.SortKey
}

// App is the root Bubble Tea model. It hosts the search prompt and renders
// the browse controller; it never calls a Searcher itself, results arrive as
// SearchCompleted messages.
type App struct {
	search func(seq uint64, term string) tea.Cmd
	log    *otel.Logger
	ring   *otel.RingBuffer

	state   *browse.State
	pending *browse.Request // search issued by Init for InitialTerm

	prompt       textinput.Model
	prompting    bool
	spinner      spinner.Model
	overlay      viewport.Model
	debugVisible bool

	width  int
	height int
	ready  bool
}

// NewApp creates an App from cfg.
func NewApp(cfg AppConfig) App {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "card name"
	ti.PromptStyle = PromptStyle
	ti.CharLimit = 64

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	if cfg.Ring != nil {
		cfg.Logger.SetRingBuffer(cfg.Ring)
	}

	a := App{
		search:  cfg.Search,
		log:     cfg.Logger,
		ring:    cfg.Ring,
		state:   browse.New(cfg.SortKey),
		prompt:  ti,
		spinner: s,
		overlay: viewport.New(0, 0),
	}
	if req, ok := a.state.SetTerm(cfg.InitialTerm); ok {
		a.pending = &req
	}
	return a
}

// Init issues the search for the initial term, if any.
func (a App) Init() tea.Cmd {
	if a.pending == nil {
		return nil
	}
	return a.dispatch(*a.pending)
}

// dispatch logs a request and returns the command that runs it together with
// the spinner tick.
func (a App) dispatch(req browse.Request) tea.Cmd {
	a.log.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindSearchStart,
		Comp:    "ui",
		Seq:     req.Seq,
		Term:    req.Term,
		SortKey: string(req.SortKey),
	})
	if a.search == nil {
		return a.spinner.Tick
	}
	return tea.Batch(a.search(req.Seq, req.Term), a.spinner.Tick)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.log.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.prompt.Width = max(msg.Width-6, 10)
		if a.state.Selected != nil {
			a.resizeOverlay()
		}
		return a, nil

	case SearchCompleted:
		a.handleSearchCompleted(msg)
		return a, nil

	case spinner.TickMsg:
		// Let the tick loop die once nothing is loading.
		if !a.state.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.prompting {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleSearchCompleted(msg SearchCompleted) {
	ev := otel.Event{
		Comp:    "ui",
		Seq:     msg.Seq,
		Term:    msg.Term,
		SortKey: string(a.state.SortKey),
		Source:  msg.Source,
		Dur:     msg.Dur,
	}

	if a.state.Stale(msg.Seq) {
		ev.Level = otel.LevelWarn
		ev.Kind = otel.KindSearchStale
		ev.Msg = fmt.Sprintf("superseded by #%d", a.state.Seq())
		a.log.Emit(ev)
		return
	}

	if msg.Err != nil {
		a.state.FetchFailure(msg.Seq, msg.Err)
		ev.Level = otel.LevelError
		ev.Kind = otel.KindSearchError
		ev.Err = a.state.Err
		a.log.Emit(ev)
		return
	}

	out, _ := a.state.FetchSuccess(msg.Seq, msg.Result)
	ev.Level = otel.LevelInfo
	ev.Kind = otel.KindSearchComplete
	ev.Count = out.Count
	a.log.Emit(ev)

	if out.Collisions > 0 {
		a.log.Emit(otel.Event{
			Level: otel.LevelWarn,
			Kind:  otel.KindCardCollision,
			Comp:  "ui",
			Seq:   msg.Seq,
			Term:  msg.Term,
			Count: out.Collisions,
			Msg:   "duplicate set/number in result",
		})
	}
}

// handleKeyMsg processes keyboard input. The debug overlay, the prompt and
// the card overlay each capture keys while they are open.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.log.Debug(otel.KindKeyPress, "ui", msg.String())
	}
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	switch {
	case a.debugVisible:
		if key.Matches(msg, keys.Debug, keys.Cancel) {
			a.debugVisible = false
		}
		return a, nil
	case a.prompting:
		return a.handlePromptKey(msg)
	case a.state.View() == browse.ViewOverlay:
		return a.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Debug):
		a.debugVisible = a.ring != nil
		return a, nil

	case key.Matches(msg, keys.Search):
		a.prompting = true
		a.prompt.SetValue("")
		a.prompt.Focus()
		return a, textinput.Blink

	case key.Matches(msg, keys.Retry):
		if req, ok := a.state.Refetch(); ok {
			return a, a.dispatch(req)
		}
		return a, nil
	}

	// Sorting is allowed mid-fetch: the result is sorted by whatever key
	// is active when it lands.
	for _, sb := range sortBindings {
		if key.Matches(msg, sb.binding) {
			a.changeSort(sb.key)
			return a, nil
		}
	}

	if a.state.View() != browse.ViewList {
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Down):
		a.state.MoveDown()
	case key.Matches(msg, keys.Up):
		a.state.MoveUp()
	case key.Matches(msg, keys.Top):
		a.state.Top()
	case key.Matches(msg, keys.Bottom):
		a.state.Bottom()
	case key.Matches(msg, keys.Open):
		a.openOverlay()
	}
	return a, nil
}

func (a App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		a.prompting = false
		a.prompt.Blur()
		return a, nil

	case key.Matches(msg, keys.Submit):
		a.prompting = false
		a.prompt.Blur()
		req, ok := a.state.SetTerm(a.prompt.Value())
		if !ok {
			return a, nil
		}
		return a, a.dispatch(req)
	}

	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

func (a App) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Close) {
		a.state.OverlayClosed()
		a.log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindClose, Comp: "ui", CardID: a.state.Selected.ID})
		return a, nil
	}
	var cmd tea.Cmd
	a.overlay, cmd = a.overlay.Update(msg)
	return a, cmd
}

func (a *App) changeSort(k card.SortKey) {
	prev := a.state.SortKey
	a.state.SortChanged(k)
	if prev == k {
		return
	}
	a.log.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindSortChange,
		Comp:    "ui",
		SortKey: string(k),
		Count:   len(a.state.Cards),
	})
}

func (a *App) openOverlay() {
	if !a.state.SelectCursor() {
		return
	}
	a.resizeOverlay()
	a.overlay.GotoTop()
	a.log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSelect, Comp: "ui", CardID: a.state.Selected.ID})
}

func (a *App) resizeOverlay() {
	_, w, h := overlayDims(a.width, a.height)
	a.overlay.Width = w
	a.overlay.Height = h
	a.overlay.SetContent(detailContent(*a.state.Selected, w))
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.debugVisible {
		panel := debugOverlay(a.ring, a.width, a.height-1)
		return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, panel) +
			"\n" + debugStatusBar(a.width)
	}

	if a.state.View() == browse.ViewOverlay {
		return renderOverlay(a.overlay.View(), a.width, a.height)
	}

	// Prompt, sort bar and status bar take one line each.
	contentHeight := max(a.height-3, 1)

	var content string
	switch a.state.View() {
	case browse.ViewLoading:
		content = LoadingStyle.Render(fmt.Sprintf("%s Searching for %q...", a.spinner.View(), a.state.Term))
	case browse.ViewError:
		content = ErrorStyle.Width(a.width).Render("Error: "+a.state.Err) + "\n" +
			HelpStyle.Render("Press r to retry or / to search again.")
	case browse.ViewIdle:
		content = HelpStyle.Render("Press / to search for cards.")
	default:
		switch {
		case len(a.state.Cards) > 0:
			content = RenderList(a.state.Cards, a.state.Cursor, a.width, contentHeight)
		case a.state.Term == "":
			content = HelpStyle.Render("Press / to search for cards.")
		default:
			content = HelpStyle.Render(fmt.Sprintf("No cards match %q.", a.state.Term))
		}
	}
	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderPrompt(),
		RenderSortBar(a.state.SortKey),
		content,
		RenderStatusBar(a.state.Cursor, len(a.state.Cards), a.state.SortKey, a.width, a.state.Loading),
	)
}

func (a App) renderPrompt() string {
	if a.prompting {
		return PromptBar.Render(a.prompt.View())
	}
	if a.state.Term == "" {
		return PromptBar.Render(PromptStyle.Render("/ ") + StatusBarText.Render("search cards"))
	}
	return PromptBar.Render(PromptStyle.Render("/ ") + a.state.Term)
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.state.Cursor
}

// Cards returns the cards currently held, in display order (for testing).
func (a App) Cards() []card.Record {
	return a.state.Cards
}

// Prompting reports whether the search prompt has focus.
func (a App) Prompting() bool {
	return a.prompting
}
