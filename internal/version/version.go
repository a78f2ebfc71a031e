package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset     = "\033[0m"
	colorGreenBold = "\033[32;1m"
)

// asciiArtTpl returns the ASCII art of sqlabstract.
func asciiArtTpl() string {
	asciiArt := `
   _____ ____    __    ___    __         __                  __ 
  / ___// __ \  / /   /   |  / /_  _____/ /__________ ______/ /_
  \__ \/ / / / / /   / /| | / __ \/ ___/ __/ ___/ __ '/ ___/ __/
 ___/ / /_/ / / /___/ ___ |/ /_/ (__  ) /_/ /  / /_/ / /__/ /_  
/____/\___\_\/_____/_/  |_/_.___/____/\__/_/   \__,_/\___/\__/  
%s ` + Version

	asciiArt = asciiArt[1:] // drop the leading newline
	asciiArt = colorGreenBold + asciiArt + colorReset

	return asciiArt
}

// ShellVersion returns the banner of the interactive shell.
func ShellVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Shell")
}
