// Package statsui provides the Bubble Tea history browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/typerank/internal/history"
	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
	tabMethods
)

const (
	filterMethod = iota
	filterMode
	filterDifficulty
	filterLast
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Config selects which records the browser shows.
type Config struct {
	Filter history.Filter
	// Last limits the view to the newest N matching records; zero means all.
	Last        int
	TrendWindow int
}

// Model implements the Bubble Tea history browser.
type Model struct {
	repo *history.Repository
	cfg  Config
	now  func() time.Time

	all     []model.HistoryRecord
	records []model.HistoryRecord
	errMsg  string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	table       table.Model
	tableLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	detailMode bool
	detail     viewport.Model

	confirmDelete string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a history browser.
func NewModel(repo *history.Repository, cfg Config) *Model {
	if cfg.TrendWindow < 1 {
		cfg.TrendWindow = 1
	}
	m := &Model{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
		tabs: []string{"Overview", "Sessions", "Methods"},
	}
	m.initInputs()
	m.table = table.New(table.WithColumns(sessionColumns()), table.WithHeight(1))
	m.table.SetStyles(tableStyles())
	m.initViewports()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.detailMode {
			return m.updateDetail(msg)
		}
		if m.confirmDelete != "" {
			return m.updateConfirm(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.TrendWindow = nextTrendWindow(m.cfg.TrendWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.TrendWindow = prevTrendWindow(m.cfg.TrendWindow)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabSessions {
				m.openDetail()
			}
			return m, nil
		case "d", "delete":
			if rec, ok := m.selected(); ok && m.activeTab == tabSessions {
				m.confirmDelete = rec.ID
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabSessions {
				m.table.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSessions {
				m.table.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSessions {
				var cmd tea.Cmd
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.detailMode {
		return fitLines(m.renderModal("Session", m.detail.View(), "up/down: scroll  esc: close"), m.width, m.height)
	}
	if m.confirmDelete != "" {
		body := fmt.Sprintf("Delete session %s?", stats.ShortID(m.confirmDelete))
		return fitLines(m.renderModal("Confirm", body, "y: delete  n/esc: cancel"), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.detail = viewport.New(0, 0)
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Input method (all/keyboard/voice/other): "),
		newFilterInput("Mode (count/time, empty for any): "),
		newFilterInput("Difficulty (all/easy/medium/hard): "),
		newFilterInput("Last: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	f := m.cfg.Filter
	m.filterInputs[filterMethod].SetValue(string(f.InputMethod))
	m.filterInputs[filterMode].SetValue(string(f.Mode))
	m.filterInputs[filterDifficulty].SetValue(string(f.Difficulty))
	if m.cfg.Last > 0 {
		m.filterInputs[filterLast].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[filterLast].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.detail.Width = modalInnerWidth(m.width)
	m.detail.Height = max(3, m.height-8)
	m.setTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabSessions {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	f := m.cfg.Filter
	method := string(f.InputMethod)
	if method == "" {
		method = string(model.InputAll)
	}
	mode := string(f.Mode)
	if mode == "" {
		mode = "any"
	}
	difficulty := string(f.Difficulty)
	if difficulty == "" {
		difficulty = string(model.DifficultyAll)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filter: input=%s  mode=%s  difficulty=%s  last=%s  window=%d  (%d of %d sessions)",
		method, mode, difficulty, last, m.cfg.TrendWindow, len(m.records), len(m.all))
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Quit: q"
	if m.activeTab == tabSessions {
		help = "Nav: left/right  Select: up/down  Details: enter  Delete: d  Filter: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabSessions {
		if len(m.records) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.table.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderModal(title, body, help string) string {
	content := strings.Join([]string{cardValueStyle.Render(title), body, headerStyle.Render(help)}, "\n")
	box := modalStyle.Width(modalWidth(m.width)).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) refresh() {
	m.all = m.repo.All(context.Background())
	m.records = m.cfg.Filter.Apply(m.all)
	if m.cfg.Last > 0 && len(m.records) > m.cfg.Last {
		m.records = m.records[:m.cfg.Last]
	}
	m.table.SetRows(sessionRows(m.records, m.now()))
	m.tableLayout.rowCount = len(m.records)
	if m.table.Cursor() >= len(m.records) {
		m.table.SetCursor(max(0, len(m.records)-1))
	}
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.records, m.cfg.TrendWindow, width))
	m.viewports[tabMethods].SetContent(renderMethods(m.methodPool()))
}

// methodPool is every record matching the mode and difficulty filters,
// regardless of input method.
func (m *Model) methodPool() []model.HistoryRecord {
	f := m.cfg.Filter
	f.InputMethod = model.InputAll
	return f.Apply(m.all)
}

func renderOverview(records []model.HistoryRecord, window, width int) string {
	if len(records) == 0 {
		return "No sessions found."
	}
	summary := renderSummaryCards(history.Summarize(records), width)
	var buf bytes.Buffer
	if err := stats.RenderTrend(&buf, records, window, stats.ReportOptions{Width: width}); err != nil {
		return fmt.Sprintf("Failed to render trend: %v", err)
	}
	out := summary + "\n\n" + buf.String()
	if best, ok := history.Best(records, history.SortByScore); ok {
		out += fmt.Sprintf("Best: %s %d (%s) %s\n", best.RankEvaluation.Rank, best.Result.TotalScore, best.RankEvaluation.Title,
			humanize.Time(best.Timestamp))
	}
	return strings.TrimRight(out, "\n")
}

func renderSummaryCards(st history.Statistics, width int) string {
	cards := []string{
		metricCard("Sessions", strconv.Itoa(st.Count)),
		metricCard("Avg score", strconv.Itoa(st.AverageScore)),
		metricCard("Best score", strconv.Itoa(st.BestScore)),
		metricCard("Avg acc", fmt.Sprintf("%.2f%%", st.AverageAccuracy)),
		metricCard("Avg WPM", strconv.Itoa(st.AverageWPM)),
		metricCard("Play time", stats.FormatPlayTime(st.TotalPlayTime)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderMethods(records []model.HistoryRecord) string {
	var buf bytes.Buffer
	if err := stats.RenderComparisonStats(&buf, history.Compare(records)); err != nil {
		return fmt.Sprintf("Failed to render methods: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "Input", Width: 8},
		{Title: "Mode", Width: 9},
		{Title: "Difficulty", Width: 10},
		{Title: "Rank", Width: 4},
		{Title: "Score", Width: 6},
		{Title: "Acc", Width: 7},
		{Title: "WPM", Width: 4},
	}
}

func sessionRows(records []model.HistoryRecord, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			humanize.RelTime(rec.Timestamp, now, "ago", "from now"),
			string(rec.InputMethod),
			fmt.Sprintf("%s %d", rec.Mode, rec.ModeValue),
			string(rec.Difficulty),
			rec.RankEvaluation.Rank,
			strconv.Itoa(rec.Result.TotalScore),
			fmt.Sprintf("%.2f%%", rec.Result.AverageAccuracy),
			strconv.Itoa(rec.Result.TotalWPM),
		})
	}
	return rows
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.table.SetWidth(width)
	m.table.SetHeight(viewportHeight)
	viewportHeight = m.adjustTableHeight(height)
	if m.tableLayout.height != viewportHeight {
		m.tableLayout.height = viewportHeight
		m.table.SetHeight(viewportHeight)
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.table.Height()
	for iter := 0; iter < 2; iter++ {
		viewHeight := lipgloss.Height(m.table.View())
		if viewHeight == target {
			return height
		}
		height = max(1, height+target-viewHeight)
		m.table.SetHeight(height)
	}
	return height
}

func (m *Model) selected() (model.HistoryRecord, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return model.HistoryRecord{}, false
	}
	return m.records[idx], true
}

func (m *Model) openDetail() {
	rec, ok := m.selected()
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := stats.RenderRecord(&buf, rec, stats.ReportOptions{Now: m.now()}); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.detail.SetContent(strings.TrimRight(buf.String(), "\n"))
	m.detail.GotoTop()
	m.detailMode = true
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.detailMode = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmDelete
	m.confirmDelete = ""
	if msg.String() != "y" {
		return m, nil
	}
	ok, err := m.repo.Delete(context.Background(), id)
	switch {
	case err != nil:
		m.errMsg = err.Error()
	case !ok:
		m.errMsg = fmt.Sprintf("session %s not found", stats.ShortID(id))
	default:
		m.errMsg = ""
	}
	m.refresh()
	return m, nil
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	method, err := model.ParseInputMethod(m.filterInputs[filterMethod].Value())
	if err != nil {
		return err
	}
	var mode model.Mode
	if v := strings.TrimSpace(m.filterInputs[filterMode].Value()); v != "" {
		if mode, err = model.ParseMode(v); err != nil {
			return err
		}
	}
	difficulty, err := model.ParseDifficulty(m.filterInputs[filterDifficulty].Value())
	if err != nil {
		return err
	}
	last := 0
	if v := strings.TrimSpace(m.filterInputs[filterLast].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}
	m.cfg.Filter = history.Filter{InputMethod: method, Mode: mode, Difficulty: difficulty}
	m.cfg.Last = last
	return nil
}

func nextTrendWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevTrendWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	return max(10, w)
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
