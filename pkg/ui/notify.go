package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Notify sends a desktop notification on platforms that support it.
// Failures are ignored, notifications are best effort.
func Notify(title, message string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("notify-send", title, message)
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		cmd = exec.Command("osascript", "-e", script)
	default:
		return
	}

	_ = cmd.Run()
}
