package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coreapp "readsanalyzer/internal/core/app"
	"readsanalyzer/internal/data/history"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	sequenceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelLayout panelMode = iota
	panelHistory
)

type updateMsg struct {
	result coreapp.Result
	runs   []history.Run
}

type model struct {
	layoutList   list.Model
	historyList  list.Model
	mode         panelMode
	showSequence bool
	result       coreapp.Result
	runs         []history.Run
	updates      int
	lastUpdate   time.Time
	width        int
}

func initialModel() model {
	layoutList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	layoutList.Title = "Layout Path"
	layoutList.SetShowStatusBar(false)
	layoutList.SetFilteringEnabled(true)

	historyList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	historyList.Title = "Assembly History"
	historyList.SetShowStatusBar(false)
	historyList.SetFilteringEnabled(true)

	return model{
		layoutList:  layoutList,
		historyList: historyList,
		mode:        panelLayout,
		lastUpdate:  time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.width = msg.Width - h
		height := msg.Height - v - 8
		if height < 5 {
			height = 5
		}
		m.layoutList.SetSize(m.width, height)
		m.historyList.SetSize(m.width, height)
	case updateMsg:
		m.result = msg.result
		m.runs = msg.runs
		m.updates++
		m.lastUpdate = time.Now()

		layoutItems := make([]list.Item, 0, len(m.result.Path))
		for i, e := range m.result.Path {
			desc := "source: lowest in-degree"
			if i > 0 {
				desc = fmt.Sprintf("overlap %d with step %d", e.Overlap, i-1)
			}
			layoutItems = append(layoutItems, item{
				title: fmt.Sprintf("%d. %s", i, preview(e.Destination)),
				desc:  desc,
			})
		}
		m.layoutList.SetItems(layoutItems)

		historyItems := make([]list.Item, 0, len(m.runs))
		for i := len(m.runs) - 1; i >= 0; i-- {
			run := m.runs[i]
			historyItems = append(historyItems, item{
				title: fmt.Sprintf("%s  %d bp", run.Timestamp.Local().Format("2006-01-02 15:04:05"), run.AssemblyLength),
				desc:  fmt.Sprintf("k=%d m=%d reads=%d distinct=%d edges=%d", run.KmerSize, run.MinOverlap, run.Reads, run.DistinctReads, run.Edges),
			})
		}
		m.historyList.SetItems(historyItems)
	}

	var cmd tea.Cmd
	if m.mode == panelLayout {
		m.layoutList, cmd = m.layoutList.Update(msg)
	} else {
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d reads | %d distinct | %d edges | %d bp",
		m.lastUpdate.Format("15:04:05"), m.result.Reads, m.result.DistinctReads, m.result.Edges, len(m.result.Assembly)))

	header := fmt.Sprintf("%s\n%s\n", titleStyle("Reads Analyzer"), status)
	help := statusStyle.Render("tab: switch panel | s: toggle sequence | q: quit")

	body := m.layoutList.View()
	if m.mode == panelHistory {
		body = m.historyList.View()
	}
	if m.showSequence {
		seq := m.result.Assembly
		if seq == "" {
			seq = "(empty)"
		}
		width := m.width
		if width <= 0 {
			width = 80
		}
		body += "\n\n" + sequenceStyle.Width(width).Render(seq)
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelLayout {
			m.mode = panelHistory
		} else {
			m.mode = panelLayout
		}
		return m, nil
	case "s":
		m.showSequence = !m.showSequence
		return m, nil
	}

	var cmd tea.Cmd
	if m.mode == panelLayout {
		m.layoutList, cmd = m.layoutList.Update(msg)
	} else {
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}
