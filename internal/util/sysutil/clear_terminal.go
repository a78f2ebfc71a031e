package sysutil

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ClearTerminal clears the terminal screen. Unknown systems get the ANSI
// clear sequence instead of an external command.
func ClearTerminal() {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "cls")
	case "linux", "darwin", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("clear")
	default:
		fmt.Print("\033[H\033[2J")
		return
	}

	cmd.Stdout = os.Stdout
	if err := cmd.Run(); err != nil {
		fmt.Print("\033[H\033[2J")
	}
}
