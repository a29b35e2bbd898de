//go:build !headless

// preview_ebiten.go - windowed picture preview backend
//
// Licensed under the GNU General Public License v3.0 or later.

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/avs2lib/avs2dec"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
	"golang.org/x/image/draw"
)

// displayScale enlarges small CIF/QCIF-class test pictures so they are
// actually visible in a window.
const displayScale = 2

// previewWindow is an ebiten.Game that displays the most recently
// delivered picture: a mutex-guarded frame buffer updated from a
// background goroutine and drawn on Ebiten's own callback, plus a
// clipboard-backed "copy current frame" shortcut.
type previewWindow struct {
	mgr    *avs2dec.Manager
	width  int
	height int

	mu    sync.RWMutex
	image *ebiten.Image
	poc   int

	clipboardOnce sync.Once
	clipboardOK   bool
}

func runEbitenPreview(mgr *avs2dec.Manager, width, height int, pictures <-chan avs2dec.Picture) {
	w := &previewWindow{
		mgr:    mgr,
		width:  width * displayScale,
		height: height * displayScale,
		image:  ebiten.NewImage(width*displayScale, height*displayScale),
	}

	go func() {
		for pic := range pictures {
			w.setFrame(pic)
			mgr.Unref(pic)
		}
	}()

	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle("avs2play")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(w); err != nil {
		fmt.Printf("avs2play: ebiten error: %v\n", err)
	}
}

// setFrame converts the picture's luma plane into a greyscale RGBA
// image, then upscales it with golang.org/x/image/draw's bilinear
// sampler to the window's display size — plain image/draw has no
// resampling filters of its own, only nearest-neighbor copies.
func (w *previewWindow) setFrame(pic avs2dec.Picture) {
	src := image.NewRGBA(image.Rect(0, 0, pic.Width, pic.Height))
	luma := pic.Planes[0]
	for y := 0; y < pic.Height; y++ {
		for x := 0; x < pic.Width; x++ {
			var v byte
			if idx := y*pic.Stride[0] + x; idx < len(luma) {
				v = luma[idx]
			}
			src.Set(x, y, color.RGBA{v, v, v, 0xff})
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, pic.Width*displayScale, pic.Height*displayScale))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	w.mu.Lock()
	w.image = ebiten.NewImageFromImage(dst)
	w.poc = pic.POC
	w.mu.Unlock()
}

// copyCurrentFrameToClipboard lazily initializes the clipboard
// integration on first use, then copies the displayed frame as PNG.
func (w *previewWindow) copyCurrentFrameToClipboard() {
	w.clipboardOnce.Do(func() {
		w.clipboardOK = clipboard.Init() == nil
	})
	if !w.clipboardOK {
		return
	}
	var buf bytes.Buffer
	w.mu.RLock()
	err := png.Encode(&buf, w.image)
	w.mu.RUnlock()
	if err != nil {
		return
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
}

func (w *previewWindow) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyC) {
		w.copyCurrentFrameToClipboard()
	}
	return nil
}

func (w *previewWindow) Draw(screen *ebiten.Image) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	screen.DrawImage(w.image, nil)
}

func (w *previewWindow) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}
