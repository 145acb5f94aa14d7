// Package tui provides a Bubble Tea terminal user interface for capture-studio.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/capture-studio/internal/app"
	"github.com/handiism/capture-studio/internal/blob"
	"github.com/handiism/capture-studio/internal/capture"
	"github.com/handiism/capture-studio/internal/config"
	"github.com/handiism/capture-studio/internal/download"
	ioutils "github.com/handiism/capture-studio/internal/io"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/model"
	"github.com/handiism/capture-studio/internal/notify"
	"github.com/pkg/browser"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	meterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 2)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(1, 3)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1A2E")).
			Background(lipgloss.Color("#4ECDC4")).
			Padding(0, 2)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC")).
			Padding(0, 2)

	recordingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
)

const (
	refreshInterval = 50 * time.Millisecond
	maxLogs         = 5
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	app    *app.App
	ctx    context.Context
	cancel context.CancelFunc

	notes  <-chan notify.Notification
	events <-chan download.ProgressEvent
	alerts []notify.Notification

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	peak    progress.Model
	images  *ioutils.ImageService

	state   app.State
	preview string
	busy    bool
	logs    []LogEntry

	width  int
	height int
}

// NewModel creates a new TUI model driving a.
//
// notes and events feed the alert modal and the activity log; either may
// be nil.
func NewModel(a *app.App, notes <-chan notify.Notification, events <-chan download.ProgressEvent) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	peak := progress.New(progress.WithGradient("#4ECDC4", "#FF6B6B"), progress.WithoutPercentage())
	peak.Width = 58

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		app:     a,
		ctx:     ctx,
		cancel:  cancel,
		notes:   notes,
		events:  events,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		peak:    peak,
		images:  ioutils.NewImageService(),
		state:   a.State(),
	}
}

// Message types
type (
	// NotificationMsg carries a notification raised by the application.
	NotificationMsg struct {
		Notification notify.Notification
	}

	// ProgressMsg is sent when a download reports progress.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// ActionDoneMsg is sent when a start, stop or capture action returns.
	// Failures have already been notified.
	ActionDoneMsg struct {
		Err error
	}

	// TickMsg refreshes the view from application state.
	TickMsg struct{}
)

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.tick(),
		waitForNotification(m.notes),
		waitForProgress(m.events),
	)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Notification: n}
	}
}

func waitForProgress(ch <-chan download.ProgressEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return ProgressMsg{Event: e}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.peak.Width = min(max(msg.Width-20, 20), 58)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case TickMsg:
		m.refresh()
		cmds = append(cmds, m.tick())

	case NotificationMsg:
		m.alerts = append(m.alerts, msg.Notification)
		cmds = append(cmds, waitForNotification(m.notes))

	case ProgressMsg:
		m.addLog(msg.Event.Message, msg.Event.Level)
		cmds = append(cmds, waitForProgress(m.events))

	case ActionDoneMsg:
		m.busy = false
		m.refresh()
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}

	// An alert blocks everything else until dismissed.
	if len(m.alerts) > 0 {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alerts = m.alerts[1:]
		}
		return m, nil
	}

	page := m.app.Page()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.navigate(page.Next())

	case key.Matches(msg, m.keys.Audio):
		m.navigate(model.PageAudio)

	case key.Matches(msg, m.keys.Photo):
		m.navigate(model.PagePhoto)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Toggle):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.toggle(page)

	case key.Matches(msg, m.keys.Capture):
		if page != model.PagePhoto || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.takePhoto()

	case key.Matches(msg, m.keys.Save):
		if res := m.result(page); res != nil {
			return m, m.save(res)
		}

	case key.Matches(msg, m.keys.Open):
		if res := m.result(page); res != nil {
			return m, m.open(res)
		}

	case key.Matches(msg, m.keys.Copy):
		if res := m.result(page); res != nil {
			return m, m.copyURL(res)
		}
	}

	return m, nil
}

func (m *Model) navigate(p model.Page) {
	m.app.Navigate(p)
	m.refresh()
}

// refresh pulls a fresh snapshot of the application.
func (m *Model) refresh() {
	m.state = m.app.State()

	m.preview = ""
	if m.state.Page == model.PagePhoto && m.state.Photo.CameraOn {
		if frame, ok := m.app.Photo.PreviewFrame(); ok {
			cols, rows := m.previewSize()
			m.preview = renderPreview(m.images, frame, cols, rows)
		}
	}
}

func (m Model) previewSize() (cols, rows int) {
	cols, rows = 64, 18
	if m.width > 0 {
		cols = min(cols, m.width-4)
	}
	if m.height > 0 {
		rows = min(rows, max(m.height-16, 4))
	}
	return cols, rows
}

func (m *Model) addLog(msg string, level download.ProgressLevel) {
	m.logs = append(m.logs, LogEntry{Message: msg, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) result(page model.Page) *model.Resource {
	if page == model.PagePhoto {
		return m.state.Photo.Photo
	}
	return m.state.Audio.Result
}

// toggle starts or stops the visible feature.
func (m Model) toggle(page model.Page) tea.Cmd {
	a, ctx := m.app, m.ctx
	recording := m.state.Audio.Recording
	cameraOn := m.state.Photo.CameraOn

	return func() tea.Msg {
		var err error
		switch {
		case page == model.PageAudio && recording:
			a.Audio.StopRecording()
		case page == model.PageAudio:
			err = a.Audio.StartRecording(ctx)
		case cameraOn:
			a.Photo.StopCamera()
		default:
			err = a.Photo.StartCamera(ctx)
		}
		return ActionDoneMsg{Err: err}
	}
}

func (m Model) takePhoto() tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		_, err := a.Photo.TakePhoto(ctx)
		return ActionDoneMsg{Err: err}
	}
}

func (m Model) save(res *model.Resource) tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		// The manager reports the outcome through its progress events.
		_, _ = a.Downloads.Save(ctx, res)
		return nil
	}
}

// open shows a resource in the default browser. Resources that are not
// served are written to a temporary file first.
func (m Model) open(res *model.Resource) tea.Cmd {
	store := m.app.Store
	return func() tea.Msg {
		target := res.URL
		var err error
		if strings.HasPrefix(target, "http") {
			err = browser.OpenURL(target)
		} else {
			target, err = writeTemp(store, res)
			if err == nil {
				err = browser.OpenFile(target)
			}
		}
		if err != nil {
			return ProgressMsg{Event: download.ProgressEvent{Message: fmt.Sprintf("Error opening %s: %v", res.FileName, err), Level: download.LevelError}}
		}
		return ProgressMsg{Event: download.ProgressEvent{Message: "Opened " + target, Level: download.LevelInfo}}
	}
}

func writeTemp(store *blob.Store, res *model.Resource) (string, error) {
	b, err := store.Get(blob.IDFromURL(res.URL))
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "capture-studio-")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, res.FileName)
	return path, os.WriteFile(path, b.Data, 0644)
}

func (m Model) copyURL(res *model.Resource) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(res.URL); err != nil {
			return ProgressMsg{Event: download.ProgressEvent{Message: fmt.Sprintf("Error copying URL: %v", err), Level: download.LevelError}}
		}
		return ProgressMsg{Event: download.ProgressEvent{Message: "Copied " + res.URL, Level: download.LevelSuccess}}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("● Capture Studio"))
	b.WriteString("  ")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	if len(m.alerts) > 0 {
		b.WriteString(m.viewAlert(m.alerts[0]))
		b.WriteString("\n")
		return b.String()
	}

	switch m.state.Page {
	case model.PagePhoto:
		b.WriteString(m.viewPhoto())
	default:
		b.WriteString(m.viewAudio())
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, p := range model.Pages {
		title := p.Title()
		if p == model.PageAudio && m.state.Audio.Recording && m.state.Page != p {
			title += " ●"
		}
		if p == model.PagePhoto && m.state.Photo.CameraOn && m.state.Page != p {
			title += " ●"
		}
		if p == m.state.Page {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, tabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewAudio() string {
	var b strings.Builder
	st := m.state.Audio

	switch {
	case m.busy || st.Starting:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Waiting for the microphone..."))
	case st.Recording:
		b.WriteString(recordingStyle.Render("● REC "))
		b.WriteString(infoStyle.Render(model.FormatElapsed(st.Elapsed)))
		b.WriteString(dimStyle.Render("   space: stop recording"))
	default:
		b.WriteString(subtitleStyle.Render("Start Recording"))
		b.WriteString(dimStyle.Render("   space: start"))
	}
	b.WriteString("\n\n")

	if st.Recording {
		b.WriteString(renderMeter(st.Levels))
		b.WriteString("\n")
		b.WriteString(m.peak.ViewAs(st.Levels.Max() / 100))
		b.WriteString("\n")
	}

	if st.Result != nil {
		b.WriteString("\n")
		b.WriteString(m.viewResult("Recording", st.Result))
	}

	return b.String()
}

func (m Model) viewPhoto() string {
	var b strings.Builder
	st := m.state.Photo

	switch {
	case m.busy || st.Starting:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Working with the camera..."))
	case st.CameraOn:
		b.WriteString(successStyle.Render("Camera on "))
		if st.Width > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%dx%d", st.Width, st.Height)))
		} else {
			b.WriteString(dimStyle.Render("waiting for video"))
		}
		b.WriteString(dimStyle.Render("   p: take photo • space: stop camera"))
	default:
		b.WriteString(subtitleStyle.Render("Start Camera"))
		b.WriteString(dimStyle.Render("   space: start"))
	}
	b.WriteString("\n\n")

	if m.preview != "" {
		b.WriteString(m.preview)
		b.WriteString("\n")
	}

	if st.Photo != nil {
		b.WriteString("\n")
		b.WriteString(m.viewResult("Photo", st.Photo))
	}

	return b.String()
}

func (m Model) viewResult(label string, res *model.Resource) string {
	body := fmt.Sprintf(
		"%s\n\n%s\n%s",
		successStyle.Render(label+": "+res.Describe()),
		infoStyle.Render(res.URL),
		dimStyle.Render(fmt.Sprintf("d: download %s • o: open • c: copy url", res.FileName)),
	)
	return boxStyle.Render(body)
}

func (m Model) viewAlert(n notify.Notification) string {
	body := errorStyle.Render(n.Title) + "\n\n" + n.Message + "\n\n" + dimStyle.Render("enter: OK")
	if more := len(m.alerts) - 1; more > 0 {
		body += dimStyle.Render(fmt.Sprintf(" (%d more)", more))
	}
	return alertStyle.Render(body)
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

// Options configures Run.
type Options struct {
	Settings *config.Settings
	Devices  media.Devices
	Logger   *slog.Logger
}

// Run starts the TUI application and releases every device on exit.
func Run(opts Options) error {
	if opts.Settings == nil {
		opts.Settings = config.DefaultSettings()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// The browser launcher writes to stdout, which the TUI owns.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	notes := make(chan notify.Notification, 16)
	events := make(chan download.ProgressEvent, 32)

	notifiers := notify.Multi{notify.Log{Logger: opts.Logger}, notify.Chan(notes)}
	if opts.Settings.DesktopNotifications {
		notifiers = append(notifiers, notify.Desktop{AppName: "Capture Studio", Logger: opts.Logger})
	}

	a := app.New(app.Options{
		Settings:  opts.Settings,
		Devices:   opts.Devices,
		Notifier:  notifiers,
		Scheduler: capture.TickerScheduler{},
		Logger:    opts.Logger,
		OnProgress: func(e download.ProgressEvent) {
			select {
			case events <- e:
			default:
			}
		},
	})

	p := tea.NewProgram(NewModel(a, notes, events), tea.WithAltScreen())
	_, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(runErr, a.Close(ctx))
}
