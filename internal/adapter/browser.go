package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoBrowser is returned when no way to open a URL could be found
var ErrNoBrowser = errors.New("no browser found")

// Browser opens URLs outside the terminal
type Browser struct {
	command string   // configured browser command, empty for auto-detect
	args    []string // additional arguments before the URL
	logger  *slog.Logger

	// start runs a command without waiting; swapped in tests
	start func(name string, args ...string) error
	// lookPath reports whether a command is installed; swapped in tests
	lookPath func(name string) (string, error)
}

// launchPath is a single way to open a URL
type launchPath struct {
	path string   // Command path, or "open-a:AppName" on macOS
	args []string // Arguments placed before the URL
}

// candidateBrowsers lists launch paths to try in order, per platform, before
// falling back to the system handler
var candidateBrowsers = map[string][]launchPath{
	"darwin": {
		{path: "open-a:Firefox"},
		{path: "open-a:Google Chrome"},
	},
	"linux": {
		{path: "sensible-browser"},
		{path: "firefox", args: []string{"--new-tab"}},
		{path: "chromium"},
		{path: "google-chrome"},
	},
	"windows": {},
}

// NewBrowser creates a Browser. An empty command auto-detects.
func NewBrowser(command string, args []string, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		command:  command,
		args:     args,
		logger:   logger,
		start:    startCommand,
		lookPath: exec.LookPath,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // Start async, don't wait
}

// Open opens url in the configured browser, the first detected candidate,
// or the system default handler, in that order.
func (b *Browser) Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http url %q", url)
	}

	if b.command != "" {
		b.logger.Info("opening with configured browser", "command", b.command, "url", url)
		return b.start(b.command, append(append([]string{}, b.args...), url)...)
	}

	for _, lp := range candidateBrowsers[runtime.GOOS] {
		if err := b.tryLaunch(lp, url); err != nil {
			b.logger.Debug("launch path not available", "path", lp.path, "error", err)
			continue
		}
		b.logger.Info("opened with detected browser", "path", lp.path)
		return nil
	}

	b.logger.Info("no candidate browsers found, using system default")
	return b.openDefault(url)
}

// tryLaunch runs one launch path. "open-a:" paths go through macOS open,
// everything else must be on PATH.
func (b *Browser) tryLaunch(lp launchPath, url string) error {
	if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
		// open -a fails fast when the app is missing, so wait for it
		return exec.Command("open", "-a", app, url).Run()
	}
	if _, err := b.lookPath(lp.path); err != nil {
		return err
	}
	return b.start(lp.path, append(append([]string{}, lp.args...), url)...)
}

// openDefault opens the URL using the system default handler
func (b *Browser) openDefault(url string) error {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = b.start("open", url)
	case "windows":
		err = b.start("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		if _, lookErr := b.lookPath("xdg-open"); lookErr != nil {
			return ErrNoBrowser
		}
		err = b.start("xdg-open", url)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoBrowser, err)
	}
	return nil
}
