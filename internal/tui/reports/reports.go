// ABOUTME: Reports screen: choose filters and a format, then save the sales export
// ABOUTME: Save writes a downloaded report next to earlier ones without overwriting them

package reports

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/theme"
)

// RequestMsg asks the app to download a report.
type RequestMsg struct {
	Format string
	Filter client.Filter
	Dir    string
}

// CancelledMsg is sent on esc.
type CancelledMsg struct{}

const dateLayout = "2006-01-02"

func validDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

// Reports is the export form.
type Reports struct {
	branches []client.Branch
	agents   []client.StaffMember
	format   string
	branch   int64
	agent    int64
	from     string
	to       string
	dir      string
	errMsg   string
	saved    string
	recent   []string
	pending  bool
	form     *huh.Form
}

// New returns the form. dir is where reports are saved by default.
func New(branches []client.Branch, dir string) *Reports {
	r := &Reports{branches: branches, format: client.ReportFormats[0], dir: dir}
	r.form = r.build()
	return r
}

func (r *Reports) build() *huh.Form {
	formats := make([]huh.Option[string], 0, len(client.ReportFormats))
	for _, f := range client.ReportFormats {
		formats = append(formats, huh.NewOption(strings.ToUpper(f), f))
	}
	branches := []huh.Option[int64]{huh.NewOption("All branches", int64(0))}
	for _, b := range r.branches {
		branches = append(branches, huh.NewOption(b.Name, b.ID))
	}
	fields := []huh.Field{
		huh.NewSelect[string]().Title("Format").Options(formats...).Value(&r.format),
		huh.NewSelect[int64]().Title("Branch").Options(branches...).Value(&r.branch),
	}
	if len(r.agents) > 0 {
		agents := []huh.Option[int64]{huh.NewOption("All agents", int64(0))}
		for _, a := range r.agents {
			agents = append(agents, huh.NewOption(a.FullName, a.ID))
		}
		fields = append(fields, huh.NewSelect[int64]().Title("Sales agent").Options(agents...).Value(&r.agent))
	}
	fields = append(fields,
		huh.NewInput().Title("From date").Placeholder("YYYY-MM-DD").Value(&r.from).Validate(validDate),
		huh.NewInput().Title("To date").Placeholder("YYYY-MM-DD").Value(&r.to).Validate(validDate),
		huh.NewInput().Title("Save to").Value(&r.dir),
	)
	return huh.NewForm(huh.NewGroup(fields...).Title(icons.Report.String()+" Reports & Export")).
		WithTheme(theme.Form()).
		WithShowHelp(false)
}

// Request returns the download request for the current values.
func (r *Reports) Request() RequestMsg {
	return RequestMsg{
		Format: r.format,
		Filter: client.Filter{
			BranchID: r.branch,
			AgentID:  r.agent,
			FromDate: strings.TrimSpace(r.from),
			ToDate:   strings.TrimSpace(r.to),
		},
		Dir: strings.TrimSpace(r.dir),
	}
}

// SetResult reports the outcome of a download and reopens the form.
func (r *Reports) SetResult(path string, err error) tea.Cmd {
	r.pending = false
	r.saved, r.errMsg = "", ""
	if err != nil {
		r.errMsg = client.ErrorMessage(err, "Download failed")
	} else {
		r.saved = path
	}
	r.form = r.build()
	return r.form.Init()
}

// SetAgents offers an agent filter. An empty list hides it.
func (r *Reports) SetAgents(agents []client.StaffMember) tea.Cmd {
	r.agents = agents
	r.form = r.build()
	return r.form.Init()
}

// SetRecent sets the recently saved files listed under the form.
func (r *Reports) SetRecent(paths []string) {
	r.recent = paths
}

func (r *Reports) Init() tea.Cmd {
	return r.form.Init()
}

func (r *Reports) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if r.pending {
		return r, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return r, func() tea.Msg { return CancelledMsg{} }
	}
	model, cmd := r.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		r.form = f
	}
	if r.form.State == huh.StateCompleted {
		r.pending = true
		req := r.Request()
		return r, func() tea.Msg { return req }
	}
	return r, cmd
}

func (r *Reports) View() string {
	var sb strings.Builder
	if r.saved != "" {
		sb.WriteString(styles.SuccessText.Render(icons.CheckOK.String() + " Saved " + r.saved))
		sb.WriteString("\n\n")
	}
	if r.errMsg != "" {
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + r.errMsg))
		sb.WriteString("\n\n")
	}
	if r.pending {
		sb.WriteString(styles.HintText.Render("Downloading…"))
		return sb.String()
	}
	sb.WriteString(r.form.View())
	if len(r.recent) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(styles.Subtitle.Render("Recent downloads"))
		for _, p := range r.recent {
			sb.WriteString("\n  " + styles.HintText.Render(p))
		}
	}
	return sb.String()
}

// Save writes report into dir and returns the path. An existing file with
// the same name gets a numeric suffix instead of being replaced.
func Save(dir string, report *client.Report) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	ext := filepath.Ext(report.Filename)
	base := strings.TrimSuffix(report.Filename, ext)
	path := filepath.Join(dir, report.Filename)
	for i := 1; ; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, i, ext))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("saving report: %w", err)
		}
		if _, err := f.Write(report.Data); err != nil {
			f.Close()
			return "", fmt.Errorf("saving report: %w", err)
		}
		return path, f.Close()
	}
}
