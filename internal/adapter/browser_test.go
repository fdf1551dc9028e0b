package adapter

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

type launchRecord struct {
	name string
	args []string
}

func fakeBrowser(command string, args []string, installed ...string) (*Browser, *[]launchRecord) {
	var launched []launchRecord
	b := NewBrowser(command, args, NullLogger())
	b.start = func(name string, args ...string) error {
		launched = append(launched, launchRecord{name, args})
		return nil
	}
	b.lookPath = func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + n, nil
			}
		}
		return "", exec.ErrNotFound
	}
	return b, &launched
}

func TestBrowser_Configured(t *testing.T) {
	b, launched := fakeBrowser("lynx", []string{"-accept_all_cookies"})
	require.NoError(t, b.Open("https://example.test/Spells/1"))
	require.Equal(t, []launchRecord{{"lynx", []string{"-accept_all_cookies", "https://example.test/Spells/1"}}}, *launched)
}

func TestBrowser_RejectsNonHTTP(t *testing.T) {
	b, launched := fakeBrowser("lynx", nil)
	require.Error(t, b.Open("file:///etc/passwd"))
	require.Empty(t, *launched)
}

func TestBrowser_DetectsOnLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("candidate list is platform specific")
	}

	b, launched := fakeBrowser("", nil, "firefox", "xdg-open")
	require.NoError(t, b.Open("https://example.test"))
	require.Equal(t, []launchRecord{{"firefox", []string{"--new-tab", "https://example.test"}}}, *launched)

	b, launched = fakeBrowser("", nil, "xdg-open")
	require.NoError(t, b.Open("https://example.test"))
	require.Equal(t, []launchRecord{{"xdg-open", []string{"https://example.test"}}}, *launched)

	b, _ = fakeBrowser("", nil)
	require.True(t, errors.Is(b.Open("https://example.test"), ErrNoBrowser))
}
