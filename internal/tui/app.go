// Package tui provides the interactive Bubble Tea dashboard for budgetdash.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/export"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/source"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

// Options configures a new App.
type Options struct {
	Builder       *budget.Builder
	OutflowFields []string // nil means every category plus savings
	Period        model.PeriodKey
	SheetPath     string // imported in the background at startup when set
	ExportDir     string // where [w] writes CSV files
	ConfigPath    string
	NeedSetup     bool
}

// DataLoadedMsg is sent when the sheet import finishes.
type DataLoadedMsg struct {
	Result   *source.LoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports sheet parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

type clearStatusMsg struct{ seq int }

const (
	tabOverview = iota
	tabExpenses
	tabHistory
	tabLineItems
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	statusTTL = 4 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	builder    *budget.Builder
	outflow    []string
	sheetPath  string
	exportDir  string
	configPath string

	// Current period and everything derived from it
	period  model.PeriodKey
	record  model.InputRecord
	stored  bool
	summary model.Summary
	sumErr  error
	history []model.HistoryRow

	loaded     bool
	loadTime   time.Duration
	loadResult *source.LoadResult

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    components.StatusMessage
	statusSeq int

	// Per-tab state
	histCursor int
	items      itemsState
	settings   settingsState

	// Modal huh forms. Values live behind pointers so the form keeps
	// writing to the same memory as App is copied through Update.
	editForm  *huh.Form
	editVals  *editValues
	itemForm  *huh.Form
	itemVals  *lineItemValues
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Loading, fed by the import goroutine
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	period := opts.Period.Canonical()
	if period == "" {
		period = model.CurrentPeriod(time.Now())
	}

	return App{
		builder:    opts.Builder,
		outflow:    opts.OutflowFields,
		sheetPath:  opts.SheetPath,
		exportDir:  opts.ExportDir,
		configPath: opts.ConfigPath,
		period:     period,
		needSetup:  opts.NeedSetup,
		spinner:    sp,
		loadSub:    make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadSheetCmd(a.sheetPath, a.builder, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute refreshes the record, summary and history from the store.
func (a *App) recompute() {
	a.record, a.stored = a.builder.Store().Get(a.period)
	if !a.stored {
		a.record = a.builder.GetRecord(a.period)
	}
	a.summary, a.sumErr = budget.Summarize(a.record, a.outflowFields())
	a.history = budget.History(a.builder.Store())

	a.histCursor = clampCursor(a.histCursor, len(a.history))
	a.items.cursor = clampCursor(a.items.cursor, len(a.record.LineItems))
}

// outflowFields returns the configured outflow set, or every category
// plus savings when none is configured.
func (a App) outflowFields() []string {
	if a.outflow == nil {
		return budget.DefaultOutflowFields(a.builder.Schema())
	}
	return a.outflow
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// setPeriod switches the dashboard to p without creating a record.
func (a *App) setPeriod(p model.PeriodKey) {
	a.period = p.Canonical()
	a.items.cursor = 0
	a.recompute()
}

func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	a.statusSeq++
	a.status = components.StatusMessage{Text: text, Error: isErr}
	seq := a.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, f := range []*huh.Form{a.setupForm, a.editForm, a.itemForm} {
			if f != nil {
				f.WithWidth(min(msg.Width, 72)).WithHeight(msg.Height)
			}
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.activeForm() != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.activeForm() != nil {
			return a.updateForm(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadResult = msg.Result
		a.recompute()

		var cmd tea.Cmd
		switch {
		case msg.Err != nil:
			cmd = a.setStatus("import failed: "+msg.Err.Error(), true)
		case msg.Result != nil && len(msg.Result.Errors) > 0:
			cmd = a.setStatus(fmt.Sprintf("imported %d periods, %d values rejected",
				msg.Result.Periods, len(msg.Result.Errors)), true)
		case msg.Result != nil && msg.Result.TotalFiles > 0:
			cmd = a.setStatus(fmt.Sprintf("imported %d periods", msg.Result.Periods), false)
		}

		if a.needSetup {
			a.setupVals = newSetupValues()
			a.setupForm = newSetupForm(a.period, a.setupVals)
			a.sizeForm(a.setupForm)
			return a, tea.Batch(cmd, a.setupForm.Init())
		}
		return a, cmd

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = components.StatusMessage{}
		}
		return a, nil
	}

	// Forward cursor blinks and the like to an open form.
	if a.activeForm() != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabHistory:
		if m, cmd, ok := a.updateHistoryKey(key); ok {
			return m, cmd
		}
	case tabLineItems:
		if m, cmd, ok := a.updateLineItemsKey(key); ok {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, ok := a.updateSettingsKey(key); ok {
			return m, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "e":
		return a.startEdit()
	case "[":
		a.setPeriod(a.period.Shift(-1))
	case "]":
		a.setPeriod(a.period.Shift(1))
	case "t":
		a.setPeriod(model.CurrentPeriod(time.Now()))
	case "w":
		return a, a.writeCSV()
	case "c":
		return a, a.copyPreviousMonth()
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if idx := components.TabIdxByKey(key); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m, cmd, _ := a.scroll(-1)
		return m, cmd
	case tea.MouseButtonWheelDown:
		m, cmd, _ := a.scroll(1)
		return m, cmd
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// scroll moves the cursor of the active list tab by delta.
func (a App) scroll(delta int) (App, tea.Cmd, bool) {
	switch a.activeTab {
	case tabHistory:
		a.histCursor = clampCursor(a.histCursor+delta, len(a.history))
		return a, nil, true
	case tabLineItems:
		a.items.cursor = clampCursor(a.items.cursor+delta, len(a.record.LineItems))
		return a, nil, true
	case tabSettings:
		a.settings.cursor = clampCursor(a.settings.cursor+delta, settingsFieldCount)
		return a, nil, true
	}
	return a, nil, false
}

func (a App) updateHistoryKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		return a.scroll(1)
	case "k", "up":
		return a.scroll(-1)
	case "g":
		a.histCursor = 0
		return a, nil, true
	case "G":
		a.histCursor = clampCursor(len(a.history)-1, len(a.history))
		return a, nil, true
	case "enter":
		if len(a.history) == 0 {
			return a, nil, true
		}
		a.setPeriod(a.history[a.histCursor].Period)
		a.activeTab = tabOverview
		return a, nil, true
	}
	return a, nil, false
}

// copyPreviousMonth overwrites the current period with last month's figures.
func (a *App) copyPreviousMonth() tea.Cmd {
	src := a.period.Shift(-1)
	if _, err := a.builder.CopyPeriod(src, a.period); err != nil {
		return a.setStatus("copy failed: "+err.Error(), true)
	}
	a.recompute()
	return a.setStatus("copied "+src.String()+" into "+a.period.String(), false)
}

// writeCSV writes the current period's export into the export directory.
func (a *App) writeCSV() tea.Cmd {
	path := filepath.Join(a.exportDir, export.Filename(a.period))
	if err := writeExport(path, a.record); err != nil {
		return a.setStatus("export failed: "+err.Error(), true)
	}
	return a.setStatus("wrote "+path, false)
}

func writeExport(path string, rec model.InputRecord) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path) //nolint:gosec // path is the user's export dir
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.WriteCSV(f, rec)
}

func (a App) activeForm() *huh.Form {
	switch {
	case a.setupForm != nil:
		return a.setupForm
	case a.editForm != nil:
		return a.editForm
	case a.itemForm != nil:
		return a.itemForm
	}
	return nil
}

func (a App) sizeForm(f *huh.Form) {
	if a.width > 0 {
		f.WithWidth(min(a.width, 72)).WithHeight(a.height)
	}
}

// updateForm drives whichever modal form is open and applies it once
// the user completes it.
func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form := a.activeForm()
	next, cmd := form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		form = f
	}

	switch {
	case a.setupForm != nil:
		a.setupForm = form
	case a.editForm != nil:
		a.editForm = form
	default:
		a.itemForm = form
	}

	switch form.State {
	case huh.StateCompleted:
		return a.completeForm()
	case huh.StateAborted:
		a.setupForm, a.editForm, a.itemForm = nil, nil, nil
		a.needSetup = false
		return a, nil
	}
	return a, cmd
}

func (a App) completeForm() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case a.setupForm != nil:
		cmd = a.applySetup()
		a.setupForm = nil
		a.needSetup = false
	case a.editForm != nil:
		cmd = a.applyEdit()
		a.editForm = nil
	case a.itemForm != nil:
		cmd = a.applyLineItem()
		a.itemForm = nil
	}
	a.recompute()
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if f := a.activeForm(); f != nil {
		return a.viewForm(f)
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  budgetdash needs at least %d columns.\n",
		a.width, minTerminalWidth)
	h := max(a.height, 5)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ budgetdash"))
	b.WriteString(subtitleStyle.Render(" · Monthly Budget"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(40, max(20, a.width-30))
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Importing sheets\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Loading budget..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm(f *huh.Form) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(f.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o x h l s", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"[ ]", "Previous / Next month"},
			{"t", "Current month"},
			{"j k", "Move in lists"},
		}},
		{"Actions", [][2]string{
			{"e", "Edit this month"},
			{"c", "Copy last month's figures"},
			{"a", "Add line item"},
			{"d", "Delete line item"},
			{"Enter", "Open / Edit"},
			{"w", "Write CSV export"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.period.String(), a.stored, a.status)

	contentH := max(minContentHeight, a.height-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabExpenses:
		content = a.renderExpensesTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	case tabLineItems:
		content = a.renderLineItemsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// loadSheetCmd imports the sheet in a background goroutine, streaming
// ProgressMsg updates and a final DataLoadedMsg through sub. With no
// sheet configured it reports an empty load straight away.
func loadSheetCmd(path string, b *budget.Builder, sub chan tea.Msg) tea.Cmd {
	if path == "" {
		return func() tea.Msg { return DataLoadedMsg{} }
	}
	return func() tea.Msg {
		go func() {
			start := time.Now()
			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			result, err := source.Load(path, b, progressFn)
			sub <- DataLoadedMsg{Result: result, Err: err, LoadTime: time.Since(start)}
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// fieldLabel turns a canonical field name into a display label.
func fieldLabel(name string) string {
	switch name {
	case model.FieldNetWorth:
		return "Net Worth"
	case model.FieldIncome, model.FieldSavings, model.FieldInvestments, model.FieldDebt:
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background
// color so gaps between cards are filled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
