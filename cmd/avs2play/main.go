// Command avs2play drives an avs2dec.Manager against a synthetic
// bitstream and previews the decoded frames, either in a windowed
// Ebiten backend (-windowed) or, by default, as console lines whose
// progress bar is sized by a terminal width probe. It exists to give the control plane's output pictures an
// actual destination to land on.
//
// Licensed under the GNU General Public License v3.0 or later.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/avs2lib/avs2dec"
	"github.com/avs2lib/avs2dec/synth"
	"golang.org/x/term"
)

func main() {
	width := flag.Int("width", 352, "picture width")
	height := flag.Int("height", 288, "picture height")
	frames := flag.Int("frames", 30, "number of synthetic pictures to generate")
	threads := flag.Int("threads", 4, "decoder thread count")
	windowed := flag.Bool("windowed", false, "open an Ebiten preview window instead of printing stats")
	sockPath := flag.String("control-socket", "", "bind a diagnostics control socket at this path")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: avs2play [options]\n\nDrives avs2dec against a synthetic bitstream and previews the output.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if gpus, err := avs2dec.ProbeGPU(); err != nil {
		fmt.Fprintf(os.Stderr, "avs2play: gpu probe: %v\n", err)
	} else if len(gpus) == 0 {
		fmt.Println("avs2play: no Vulkan-capable GPU found, preview will run without GPU acceleration")
	} else {
		for _, g := range gpus {
			fmt.Printf("avs2play: found GPU %d: %s (graphics queue: %v)\n", g.Index, g.Name, g.HasGraphicsQueue)
		}
	}

	mgr, err := avs2dec.Open(
		avs2dec.WithThreads(*threads),
		avs2dec.WithParser(synth.NewParser()),
		avs2dec.WithReferenceBinder(synth.NewReferenceBinder()),
		avs2dec.WithReconstructor(synth.NewReconstructor(*width, *height, 8)),
		avs2dec.WithLogger(&consoleLogger{}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "avs2play: open: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	if *sockPath != "" {
		srv, err := avs2dec.NewControlServer(*sockPath, mgr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "avs2play: control server: %v\n", err)
			os.Exit(1)
		}
		srv.Start()
		defer srv.Stop()
	}

	pictures := make(chan avs2dec.Picture, *frames)
	go feedSyntheticStream(mgr, *frames, pictures)

	if *windowed {
		runEbitenPreview(mgr, *width, *height, pictures)
		return
	}
	runConsolePreview(mgr, pictures)
}

// feedSyntheticStream pushes one sequence header followed by frames
// I,P,P,P... pictures through Decode, forwarding every delivered
// Picture onto out, then closes out once the stream and flush drain
// are both finished.
func feedSyntheticStream(mgr *avs2dec.Manager, n int, out chan<- avs2dec.Picture) {
	defer close(out)

	hdr := avs2dec.SequenceHeader{Width: 352, Height: 288, BitDepth: 8, FrameRate: 25.0}
	if _, _, pic, err := mustDecode(mgr, synth.EncodeSequenceHeader(hdr)); err == nil && pic != nil {
		out <- *pic
	}

	prevPOC := -1
	for i := 0; i < n; i++ {
		typ := avs2dec.PictureP
		if i == 0 {
			typ = avs2dec.PictureI
		}
		_, _, pic, err := mustDecode(mgr, synth.EncodePicture(i, typ, prevPOC))
		if err != nil {
			fmt.Fprintf(os.Stderr, "avs2play: decode: %v\n", err)
			return
		}
		if pic != nil {
			out <- *pic
		}
		prevPOC = i
	}

	for {
		ret, _, pic, err := mgr.Flush()
		if err != nil {
			return
		}
		if pic != nil {
			out <- *pic
		}
		if ret == avs2dec.End {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func mustDecode(mgr *avs2dec.Manager, data []byte) (avs2dec.ReturnType, *avs2dec.SequenceHeader, *avs2dec.Picture, error) {
	return mgr.Decode(avs2dec.Packet{Data: data})
}

func runConsolePreview(mgr *avs2dec.Manager, pictures <-chan avs2dec.Picture) {
	barWidth := 60
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 10 {
		barWidth = w - 10
	}

	for pic := range pictures {
		fmt.Printf("poc=%-4d type=%v %dx%d %s\n", pic.POC, pic.Type, pic.Width, pic.Height, progressBar(barWidth, pic.POC))
		mgr.Unref(pic)
	}
	st := mgr.Stats()
	fmt.Printf("done: framesIn=%d framesOut=%d\n", st.FramesIn, st.FramesOut)
}

func progressBar(width, poc int) string {
	if width <= 0 {
		return ""
	}
	filled := poc % width
	b := make([]byte, width)
	for i := range b {
		if i <= filled {
			b[i] = '='
		} else {
			b[i] = ' '
		}
	}
	return string(b)
}

// consoleLogger forwards avs2dec's leveled log lines straight to
// stderr with plain fmt.Fprintf calls, one line per level.
type consoleLogger struct{}

func (consoleLogger) Debugf(format string, args ...any) { fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...) }
func (consoleLogger) Infof(format string, args ...any)  { fmt.Fprintf(os.Stderr, "[info] "+format+"\n", args...) }
func (consoleLogger) Warnf(format string, args ...any)  { fmt.Fprintf(os.Stderr, "[warn] "+format+"\n", args...) }
func (consoleLogger) Errorf(format string, args ...any) { fmt.Fprintf(os.Stderr, "[error] "+format+"\n", args...) }
