//go:build windows
// +build windows

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// Colored log output needs virtual terminal processing on Windows consoles.
func init() {
	enableVirtualTerminal(windows.Stdout)
	enableVirtualTerminal(windows.Stderr)
}

func enableVirtualTerminal(handle windows.Handle) {
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		// not a console, e.g. output redirected to a file
		return
	}
	if err := windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable colored console output: %v\n", err)
	}
}
