//go:build headless

// preview_headless.go - console-only fallback preview backend
//
// Licensed under the GNU General Public License v3.0 or later.

package main

import (
	"fmt"

	"github.com/avs2lib/avs2dec"
)

// runEbitenPreview falls back to the console preview in headless
// builds (no display server, no Ebiten/clipboard/X11 dependencies
// linked in).
func runEbitenPreview(mgr *avs2dec.Manager, width, height int, pictures <-chan avs2dec.Picture) {
	fmt.Println("avs2play: headless build, ignoring -windowed")
	runConsolePreview(mgr, pictures)
}
