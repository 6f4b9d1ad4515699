package systray

import (
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
)

// Toggler is the agent surface the tray drives: pausing and resuming
// hotkey capture.
type Toggler interface {
	Enabled() bool
	SetEnabled(enabled bool)
	Hotkey() string
}

// SystrayManager manages the system tray icon and menu
type SystrayManager struct {
	webURL   string
	agent    Toggler
	iconData []byte
	quit     chan struct{}
}

// NewSystrayManager creates a new systray manager. webURL is empty when the
// dashboard is disabled.
func NewSystrayManager(webURL string, agent Toggler, iconData []byte) *SystrayManager {
	return &SystrayManager{
		webURL:   webURL,
		agent:    agent,
		iconData: iconData,
		quit:     make(chan struct{}),
	}
}

// Run starts the system tray (blocking call)
func (m *SystrayManager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *SystrayManager) Stop() {
	systray.Quit()
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *SystrayManager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// onReady is called when the systray is ready
func (m *SystrayManager) onReady() {
	// Set icon
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	// Set tooltip
	systray.SetTitle("Overtype")
	systray.SetTooltip("Overtype - " + m.agent.Hotkey() + " to capture")

	// Add menu items
	mPause := systray.AddMenuItemCheckbox("Pause capture", "Temporarily ignore the hotkey", !m.agent.Enabled())
	var mOpenWebUI *systray.MenuItem
	if m.webURL != "" {
		mOpenWebUI = systray.AddMenuItem("Open dashboard", "Open the Overtype dashboard")
	} else {
		// Placeholder so the select loop below stays uniform
		mOpenWebUI = systray.AddMenuItem("Dashboard disabled", "Enable it in the config file")
		mOpenWebUI.Disable()
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit Overtype")

	// Handle menu clicks
	go func() {
		for {
			select {
			case <-mPause.ClickedCh:
				enabled := !m.agent.Enabled()
				m.agent.SetEnabled(enabled)
				if enabled {
					mPause.Uncheck()
				} else {
					mPause.Check()
				}
			case <-mOpenWebUI.ClickedCh:
				m.openWebUI()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *SystrayManager) onExit() {
	slog.Info("System tray exited")
}

// openWebUI opens the dashboard in the default browser
func (m *SystrayManager) openWebUI() {
	slog.Info("Opening dashboard", "url", m.webURL)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", m.webURL)
	case "darwin":
		cmd = exec.Command("open", m.webURL)
	case "linux":
		cmd = exec.Command("xdg-open", m.webURL)
	default:
		slog.Error("Unsupported platform for opening browser", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open dashboard", "error", err)
	}
}
