package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"deniz.dev/gcs-tui/internal/gcs"
	"deniz.dev/gcs-tui/internal/gcs/bucket"
	"deniz.dev/gcs-tui/internal/tui/theme"
	"deniz.dev/gcs-tui/internal/utils"
)

// Messages
type objectsMsg struct{ objects []bucket.ObjectMetadata }
type errMsg struct{ err error }
type downloadedMsg struct{ path string }
type deletedMsg struct{ name string }

// entry is one row of the browser: either a pseudo-directory derived from a
// "/" segment or a real object.
type entry struct {
	name     string // display name relative to the current prefix
	isPrefix bool
	meta     bucket.ObjectMetadata
}

// Model holds the browser state.
type Model struct {
	client     *gcs.ServiceClient
	bucketName string
	email      string
	destDir    string // where downloads land

	objects []bucket.ObjectMetadata
	prefix  string // current pseudo-directory, "" at the root
	entries []entry

	err     error
	status  string // transient feedback line (downloaded, deleted, ...)
	confirm string // object pending delete confirmation, "" when inactive
	loading bool
	spinner spinner.Model
	table   table.Model
	width   int
	height  int
}

// NewModel creates a new browser model.
func NewModel(client *gcs.ServiceClient, destDir string) Model {
	t := table.New(
		table.WithColumns(browserColumns(80)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(14),
		table.WithWidth(80),
	)
	t.SetStyles(theme.DefaultTableStyles())

	m := Model{
		client:  client,
		destDir: destDir,
		loading: true,
		spinner: theme.NewSpinner(),
		table:   t,
		width:   80,
		height:  24,
	}
	if client != nil {
		m.bucketName = client.Bucket.Bucket()
		m.email = client.Email()
	}
	return m
}

func browserColumns(contentWidth int) []table.Column {
	nameWidth := contentWidth - 12 - 17 - 20 - 6
	if nameWidth < 24 {
		nameWidth = 24
	}
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Size", Width: 12},
		{Title: "Updated", Width: 17},
		{Title: "Content Type", Width: 20},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchObjects())
}

func (m Model) fetchObjects() tea.Cmd {
	return func() tea.Msg {
		objects, err := m.client.Bucket.ListObjects(context.Background(), "")
		if err != nil {
			return errMsg{err: err}
		}
		return objectsMsg{objects: objects}
	}
}

func (m Model) downloadObject(name string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.client.Bucket.DownloadFile(context.Background(), name, m.destDir)
		if err != nil {
			return errMsg{err: err}
		}
		return downloadedMsg{path: path}
	}
}

func (m Model) deleteObject(name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Bucket.DeleteObject(context.Background(), name); err != nil {
			return errMsg{err: err}
		}
		return deletedMsg{name: name}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		// A pending delete captures the keyboard until answered.
		if m.confirm != "" {
			switch msg.String() {
			case "y":
				name := m.confirm
				m.confirm = ""
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.deleteObject(name))
			default:
				m.confirm = ""
			}
			return m, nil
		}

		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.fetchObjects())
		case "enter":
			if e, ok := m.selected(); ok && e.isPrefix {
				m.prefix = m.prefix + e.name
				m = m.rebuildRows()
			}
			return m, nil
		case "esc", "backspace":
			if m.prefix != "" {
				m.prefix = utils.ParentPrefix(m.prefix)
				m = m.rebuildRows()
			}
			return m, nil
		case "d":
			if e, ok := m.selected(); ok && !e.isPrefix {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.downloadObject(e.meta.Name))
			}
			return m, nil
		case "x":
			if e, ok := m.selected(); ok && !e.isPrefix {
				m.confirm = e.meta.Name
			}
			return m, nil
		}

	case objectsMsg:
		m.objects = msg.objects
		m.loading = false
		m = m.rebuildRows()
		return m, nil

	case downloadedMsg:
		m.loading = false
		m.status = "Downloaded " + msg.path
		return m, nil

	case deletedMsg:
		m.loading = true
		m.status = "Deleted " + msg.name
		return m, tea.Batch(m.spinner.Tick, m.fetchObjects())

	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.resizeTable()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) selected() (entry, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return entry{}, false
	}
	return m.entries[idx], true
}

func (m Model) rebuildRows() Model {
	m.entries = childEntries(m.objects, m.prefix)
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		if e.isPrefix {
			rows[i] = table.Row{"📁 " + e.name, "—", "—", "—"}
			continue
		}
		rows[i] = table.Row{
			e.name,
			utils.Size(e.meta.Size),
			utils.TimeOrDash(e.meta.Updated, utils.DateTime),
			e.meta.ContentType,
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
	return m
}

// childEntries reduces a flat object listing to the direct children of
// prefix: pseudo-directories first, then objects, both alphabetical.
func childEntries(objects []bucket.ObjectMetadata, prefix string) []entry {
	dirs := make(map[string]bool)
	var files []entry

	for _, obj := range objects {
		if !strings.HasPrefix(obj.Name, prefix) || obj.Name == prefix {
			continue
		}
		rest := obj.Name[len(prefix):]
		if idx := strings.Index(rest, "/"); idx >= 0 {
			dirs[rest[:idx+1]] = true
			continue
		}
		files = append(files, entry{name: utils.BaseName(obj.Name), meta: obj})
	}

	entries := make([]entry, 0, len(dirs)+len(files))
	for name := range dirs {
		entries = append(entries, entry{name: name, isPrefix: true})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return append(entries, files...)
}

func (m Model) renderHeader() string {
	parts := []string{
		titleStyle.Render("Bucket Browser"),
		"   ",
		metricLabelStyle.Render("bucket: ") + bucketStyle.Render(m.bucketName),
	}
	if m.email != "" {
		parts = append(parts, "   ", metricLabelStyle.Render("account: ")+bucketStyle.Render(m.email))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderBreadcrumb() string {
	return breadcrumbStyle.Render("gs://"+m.bucketName+"/"+m.prefix) + "\n"
}

func (m Model) View() tea.View {
	header := m.renderHeader()

	var content string
	switch {
	case m.loading:
		content = browserStyle.Render(
			header + "\n\n" + m.spinner.View() + " Loading objects...\n",
		)
	case m.err != nil:
		content = browserStyle.Render(
			header + "\n\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n" + helpStyle.Render("Press r to retry • q to quit"),
		)
	default:
		body := headerStyle.Render(header) + "\n\n" +
			m.renderBreadcrumb() +
			m.table.View() + "\n"
		if m.confirm != "" {
			body += warningStyle.Render("Delete "+m.confirm+"? This cannot be undone. (y/N)") + "\n"
		} else if m.status != "" {
			body += statusStyle.Render(m.status) + "\n"
		}
		body += helpStyle.Render("Enter open • Esc up • d download • x delete • r refresh • q quit")
		content = browserStyle.Render(body)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (m Model) resizeTable() Model {
	contentWidth := m.width - 4 // browserStyle Padding(1,2)
	m.table.SetColumns(browserColumns(contentWidth))
	m.table.SetWidth(contentWidth)

	tableHeight := m.height - 10 // header+breadcrumb+status+help
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
	return m
}
