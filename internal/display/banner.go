package display

import (
	"fmt"
	"io"

	"github.com/backmassage/sampleclean/internal/term"
)

const bannerArt = `┌─┐┌─┐┌┬┐┌─┐┬  ┌─┐┌─┐┬  ┌─┐┌─┐┌┐┌
└─┐├─┤│││├─┘│  ├┤ │  │  ├┤ ├─┤│││
└─┘┴ ┴┴ ┴┴  ┴─┘└─┘└─┘┴─┘└─┘┴ ┴┘└┘
`

// PrintBanner writes the ASCII art banner and version line to w, in
// magenta when colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Magenta, bannerArt, term.NC)
	if version != "" {
		fmt.Fprintf(w, "%sv%s%s\n", term.Cyan, version, term.NC)
	}
	fmt.Fprintln(w)
}
