package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// command returns the platform command that opens uri in the default
// browser.
func command(goos, uri string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", uri), nil
	}
	return nil, fmt.Errorf("opening URIs is not supported on %s", goos)
}

// Open opens uri in the default browser. It returns once the opener has
// started.
func Open(uri string) error {
	cmd, err := command(runtime.GOOS, uri)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
