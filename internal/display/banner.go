package display

import (
	"fmt"
	"os"

	"github.com/inkfold/scanforge/internal/term"
)

// PrintBanner prints the ASCII art banner; bold cyan if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, "\033[1;96m")
	}
	fmt.Fprint(os.Stdout, ` ___  ___ __ _ _ __  / _| ___  _ __ __ _  ___
/ __|/ __/ _`+"`"+` | '_ \| |_ / _ \| '__/ _`+"`"+` |/ _ \
\__ \ (_| (_| | | | |  _| (_) | | | (_| |  __/
|___/\___\__,_|_| |_|_|  \___/|_|  \__, |\___|
                                   |___/
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
