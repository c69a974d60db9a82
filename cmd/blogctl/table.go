package main

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// printRows writes two aligned columns; widths are measured in terminal
// cells so emoji and CJK names line up.
func printRows(w io.Writer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		if n := runewidth.StringWidth(r[0]); n > width {
			width = n
		}
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(r[0], width), r[1])
	}
}
