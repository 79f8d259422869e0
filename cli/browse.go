package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/ka2n/recview/api"
	"github.com/ka2n/recview/api/aggregate"
	"github.com/ka2n/recview/api/detail"
	"github.com/ka2n/recview/api/dispatch"
	"github.com/ka2n/recview/api/record"
	"github.com/ka2n/recview/log"
	"github.com/morikuni/failure/v2"
)

var statusErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	PaddingLeft(2)

type recordItem struct {
	index int
	rec   record.Record
}

func (i recordItem) Title() string {
	if i.rec.Title == "" {
		return "(untitled)"
	}
	return i.rec.Title
}

func (i recordItem) Description() string {
	return i.rec.Details
}

func (i recordItem) FilterValue() string {
	return i.rec.Title + " " + i.rec.Details
}

// dispatchMsg carries a function onto the bubbletea update loop.
type dispatchMsg func()

// browserModel lists records and shows the detail page of the selected one.
// Only one record loads at a time.
type browserModel struct {
	ctx        context.Context
	service    *api.Service
	dispatcher dispatch.Dispatcher
	style      string

	list    list.Model
	pager   *pagerModel
	loading *aggregate.Run
	status  string
	width   int
	height  int
}

func newBrowser(ctx context.Context, s *api.Service, records []record.Record, style string) *browserModel {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = recordItem{index: i, rec: r}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Records"

	return &browserModel{
		ctx:        ctx,
		service:    s,
		dispatcher: dispatch.Inline,
		style:      style,
		list:       l,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		if m.pager != nil {
			m.pager.Update(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.pager != nil {
			switch msg.String() {
			case "esc", "backspace", "left", "h":
				m.pager = nil
				return m, nil
			}
			_, cmd := m.pager.Update(msg)
			return m, cmd
		}

		if msg.String() == "enter" && m.list.FilterState() != list.Filtering {
			return m, m.open()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// open starts loading the selected record. The result comes back through
// m.dispatcher and is applied on the update loop.
func (m *browserModel) open() tea.Cmd {
	if m.loading != nil {
		return nil
	}
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return nil
	}

	m.status = ""
	m.loading = m.service.StartDetail(m.ctx, item.rec, m.dispatcher, func(d detail.Detail, err error) {
		m.loading = nil
		if err != nil {
			log.Debug("Record failed to open", "title", item.rec.Title, "error", err)
		}
		m.show(d, err)
	})
	return m.list.NewStatusMessage(fmt.Sprintf("Loading images of %q...", item.Title()))
}

func (m *browserModel) show(d detail.Detail, err error) {
	if err != nil {
		msg := err.Error()
		if fmsg := failure.MessageOf(err); fmsg != "" {
			msg = fmsg.String()
		}
		m.status = statusErrorStyle.Render("Error: " + msg + " (press enter to retry)")
		return
	}

	out, err := renderMarkdown(detail.Markdown(d), m.style, m.width)
	if err != nil {
		m.status = statusErrorStyle.Render("Error: " + err.Error())
		return
	}
	m.pager = NewPager(out)
	m.pager.help = "esc back • " + m.pager.help
	m.pager.setSize(m.width, m.height)
}

func (m *browserModel) View() string {
	if m.pager != nil {
		return m.pager.View()
	}
	return m.list.View() + "\n" + m.status
}

func renderMarkdown(md, style string, width int) (string, error) {
	if width <= 8 || width > 100 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-8),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

// RunBrowser starts the interactive record browser.
func RunBrowser(ctx context.Context, s *api.Service, records []record.Record) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Detect the background before bubbletea takes over the terminal.
	style := "light"
	if lipgloss.HasDarkBackground() {
		style = "dark"
	}

	// Log lines would corrupt the alt screen.
	if os.Getenv("RECVIEW_DEBUG") != "" {
		f, err := os.OpenFile("recview-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return failure.Wrap(err)
		}
		defer f.Close()
		log.SetOutput(f, slog.LevelDebug)
	} else {
		log.SetOutput(io.Discard, slog.LevelInfo)
	}

	m := newBrowser(ctx, s, records, style)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.dispatcher = dispatch.Func(func(fn func()) {
		p.Send(dispatchMsg(fn))
	})

	_, err := p.Run()
	return err
}
