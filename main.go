package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Protocol-Lattice/gemini-studio/pkg/config"
	"github.com/Protocol-Lattice/gemini-studio/pkg/dispatch"
	"github.com/Protocol-Lattice/gemini-studio/pkg/models"
	"github.com/Protocol-Lattice/gemini-studio/pkg/session"
)

const appTitle = "✨ Gemini Studio"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	activeTab   = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	userStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// ---------- messages ----------

type submitDoneMsg struct {
	started bool
}

// ---------- model ----------

type model struct {
	ta       textarea.Model
	vp       viewport.Model
	spin     spinner.Model
	thinking bool
	width    int
	height   int

	ctx        context.Context
	cancel     context.CancelFunc
	sess       *session.Session
	dispatcher *dispatch.Dispatcher
}

func newModel(sess *session.Session, dispatcher *dispatch.Dispatcher) model {
	ctx, cancel := context.WithCancel(context.Background())

	ta := textarea.New()
	ta.Placeholder = session.Describe(sess.Mode()).Placeholder
	ta.Focus()
	ta.Prompt = "› "
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(3)

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		ta:         ta,
		vp:         vp,
		spin:       sp,
		ctx:        ctx,
		cancel:     cancel,
		sess:       sess,
		dispatcher: dispatcher,
	}
	m.vp.SetContent(m.renderSession())
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ta.SetWidth(msg.Width - 4)
		m.vp.Width = msg.Width - 4
		m.vp.Height = max(5, msg.Height-m.ta.Height()-8)
		m.vp.SetContent(m.renderSession())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit

		case "tab":
			m.selectMode(+1)
			return m, nil
		case "shift+tab":
			m.selectMode(-1)
			return m, nil

		case "pgup":
			m.vp.LineUp(10)
			return m, nil
		case "pgdown":
			m.vp.LineDown(10)
			return m, nil

		case "enter":
			if !m.ta.Focused() || m.thinking {
				return m, nil
			}
			raw := strings.TrimSpace(m.ta.Value())
			m.ta.Reset()
			if path, ok := strings.CutPrefix(raw, "/attach "); ok {
				m.sess.Attach(strings.TrimSpace(path))
				m.vp.SetContent(m.renderSession())
				return m, nil
			}
			if raw == "" {
				return m, nil
			}
			m.sess.SetPrompt(raw)
			m.thinking = true
			m.vp.SetContent(m.renderSession())
			return m, tea.Batch(m.submit(), m.spin.Tick)
		}

	case submitDoneMsg:
		m.thinking = false
		m.vp.SetContent(m.renderSession())
		m.vp.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// submit runs the whole submission inside the command; the session's busy
// flag keeps a second Enter a no-op while it is in flight.
func (m model) submit() tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{started: d.Submit(ctx)}
	}
}

func (m *model) selectMode(step int) {
	if m.thinking {
		return
	}
	cur := 0
	for i, mode := range session.Modes {
		if mode == m.sess.Mode() {
			cur = i
			break
		}
	}
	next := session.Modes[(cur+step+len(session.Modes))%len(session.Modes)]
	m.sess.SelectMode(next)
	m.ta.Placeholder = session.Describe(next).Placeholder
	m.ta.Reset()
	m.vp.SetContent(m.renderSession())
}

// renderSession draws the session content: the transcript for chat modes,
// the single result slot otherwise.
func (m model) renderSession() string {
	var b strings.Builder

	if m.sess.Mode().Chat() {
		for _, entry := range m.sess.Transcript() {
			if entry.Role == session.RoleUser {
				b.WriteString(userStyle.Render("You: ") + entry.Content + "\n\n")
				continue
			}
			line := entry.Content
			if strings.HasPrefix(line, "Error: ") {
				line = errorStyle.Render(line)
			}
			b.WriteString("🤖 " + line + "\n\n")
		}
	} else if r := m.sess.Result(); r != nil {
		switch r.Kind {
		case session.ResultImage:
			b.WriteString(fmt.Sprintf("🖼  Image saved to %s\n", r.SavedPath))
		case session.ResultText:
			b.WriteString(r.Content + "\n")
		case session.ResultError:
			b.WriteString(errorStyle.Render("Error: "+r.Content) + "\n")
		}
	}

	if b.Len() == 0 {
		b.WriteString(faintStyle.Render("Type a prompt and press Enter."))
	}
	return b.String()
}

func (m model) View() string {
	status := ""
	if m.thinking {
		status = " " + m.spin.View() + " thinking…"
	}

	tabs := make([]string, 0, len(session.Modes))
	for _, mode := range session.Modes {
		if mode == m.sess.Mode() {
			tabs = append(tabs, activeTab.Render(mode.String()))
		} else {
			tabs = append(tabs, inactiveTab.Render(mode.String()))
		}
	}

	attachment := ""
	switch session.Describe(m.sess.Mode()).Attachment {
	case session.AttachmentImage:
		attachment = attachmentLine("image", m.sess.ImagePath())
	case session.AttachmentTextFile:
		attachment = attachmentLine("file", m.sess.TextFilePath())
	}

	help := faintStyle.Render("Enter = send • Tab = switch mode • /attach <path> = attach • PgUp/PgDn = scroll • Esc = quit")

	parts := []string{
		titleStyle.Render(appTitle) + status,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(m.vp.View()),
	}
	if attachment != "" {
		parts = append(parts, attachment)
	}
	parts = append(parts,
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(m.ta.View()),
		help,
	)
	return lipgloss.JoinVertical(lipgloss.Top, parts...)
}

func attachmentLine(kind, path string) string {
	if path == "" {
		return faintStyle.Render(fmt.Sprintf("No %s attached — use /attach <path>", kind))
	}
	return faintStyle.Render(fmt.Sprintf("Attached %s: %s", kind, path))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := models.NewGemini(ctx, models.Options{
		APIKey:             cfg.APIKey,
		ImageModel:         cfg.ImageModel,
		TextModel:          cfg.TextModel,
		PersonaModel:       cfg.PersonaModel,
		PersonaInstruction: cfg.PersonaInstruction,
	})
	if err != nil {
		log.Fatalf("failed to init gemini client: %v", err)
	}

	sess := session.New()
	dispatcher := dispatch.New(client, sess, cfg.OutputDir)

	p := tea.NewProgram(newModel(sess, dispatcher), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("studio exited with error: %v", err)
	}
}
