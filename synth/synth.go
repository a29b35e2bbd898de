// Package synth provides deterministic, allocation-cheap stand-ins for
// the avs2dec.Parser, avs2dec.ReferenceBinder and avs2dec.Reconstructor
// collaborators. It exists so the control plane can be exercised end to
// end — by its own tests and by cmd/avs2play — without linking a real
// AVS2 syntax parser or pixel reconstruction kernel: no actual decode,
// but a behaviorally faithful stand-in.
//
// Licensed under the GNU General Public License v3.0 or later.
package synth

import (
	"encoding/binary"
	"fmt"

	"github.com/avs2lib/avs2dec"
)

// The kind bytes below define the tiny fixed-layout "bitstream" this
// package speaks: byte 0 selects the unit kind, the rest is kind-specific. Real AVS2
// NAL framing is far richer; this is deliberately just enough to drive
// the control plane's three-way dispatch branch.
const (
	kindSequenceHeader byte = 0x01
	kindPicture        byte = 0x02
)

// EncodeSequenceHeader produces the synthetic bytes a Parser built by
// NewParser will decode back into the given SequenceHeader.
func EncodeSequenceHeader(h avs2dec.SequenceHeader) []byte {
	buf := make([]byte, 1+4+4+4+8)
	buf[0] = kindSequenceHeader
	binary.BigEndian.PutUint32(buf[1:], uint32(h.Width))
	binary.BigEndian.PutUint32(buf[5:], uint32(h.Height))
	binary.BigEndian.PutUint32(buf[9:], uint32(h.BitDepth))
	binary.BigEndian.PutUint64(buf[13:], uint64(int64(h.FrameRate*1000)))
	return buf
}

// EncodePicture produces the synthetic bytes a Parser built by
// NewParser will decode into a parsed picture with the given POC, type
// and one reference POC (ignored for I pictures).
func EncodePicture(poc int, typ avs2dec.PictureType, refPOC int) []byte {
	buf := make([]byte, 1+4+1+4)
	buf[0] = kindPicture
	binary.BigEndian.PutUint32(buf[1:], uint32(poc))
	buf[5] = byte(typ)
	binary.BigEndian.PutUint32(buf[6:], uint32(refPOC))
	return buf
}

// parsedPicture is the value stashed in TaskContext.Parsed between
// ParseHeader and Reconstruct.
type parsedPicture struct {
	poc    int
	typ    avs2dec.PictureType
	refPOC int
}

// Parser decodes the synthetic unit format above. Malformed input
// (wrong length, unknown kind byte) is reported through
// ParseResult.Kind rather than an error, matching avs2dec's own
// contract for bitstream-level problems.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

func (Parser) ParseHeader(ctx *avs2dec.TaskContext) (avs2dec.ParseResult, error) {
	data := ctx.ESData
	if len(data) == 0 {
		return avs2dec.ParseResult{Kind: avs2dec.ParseMalformed}, nil
	}
	switch data[0] {
	case kindSequenceHeader:
		if len(data) < 21 {
			return avs2dec.ParseResult{Kind: avs2dec.ParseMalformed}, nil
		}
		h := avs2dec.SequenceHeader{
			Width:     int(binary.BigEndian.Uint32(data[1:])),
			Height:    int(binary.BigEndian.Uint32(data[5:])),
			BitDepth:  int(binary.BigEndian.Uint32(data[9:])),
			FrameRate: float64(int64(binary.BigEndian.Uint64(data[13:]))) / 1000,
		}
		return avs2dec.ParseResult{Kind: avs2dec.ParseHeaderOnly, Header: h}, nil

	case kindPicture:
		if len(data) < 10 {
			return avs2dec.ParseResult{Kind: avs2dec.ParseMalformed}, nil
		}
		ctx.Parsed = parsedPicture{
			poc:    int(binary.BigEndian.Uint32(data[1:])),
			typ:    avs2dec.PictureType(data[5]),
			refPOC: int(binary.BigEndian.Uint32(data[6:])),
		}
		return avs2dec.ParseResult{Kind: avs2dec.ParsePictureAccepted}, nil

	default:
		return avs2dec.ParseResult{Kind: avs2dec.ParseMalformed}, nil
	}
}

// ReferenceBinder requires that a P/B picture's declared reference POC
// be present among the live frames; it records nothing on ctx beyond
// what ParseHeader already put there, since Reconstruct re-derives
// pixels from the POC values directly rather than truly compositing
// reference pixel data.
type ReferenceBinder struct{}

func NewReferenceBinder() *ReferenceBinder { return &ReferenceBinder{} }

func (ReferenceBinder) BindReferences(ctx *avs2dec.TaskContext, live []*avs2dec.Frame) error {
	pp, ok := ctx.Parsed.(parsedPicture)
	if !ok {
		return fmt.Errorf("synth: reference binder invoked without a parsed picture")
	}
	if pp.typ == avs2dec.PictureI {
		return nil
	}
	for _, f := range live {
		if f.POC == pp.refPOC {
			return nil
		}
	}
	return fmt.Errorf("synth: missing reference picture poc=%d for poc=%d", pp.refPOC, pp.poc)
}

// Reconstructor fabricates a Frame whose single luma plane is filled
// with a byte pattern derived from the POC, so tests can assert on
// frame identity and ordering without a real pixel kernel.
type Reconstructor struct {
	Width, Height, BitDepth int
}

func NewReconstructor(width, height, bitDepth int) *Reconstructor {
	return &Reconstructor{Width: width, Height: height, BitDepth: bitDepth}
}

func (r Reconstructor) Reconstruct(ctx *avs2dec.TaskContext) (*avs2dec.Frame, error) {
	pp, ok := ctx.Parsed.(parsedPicture)
	if !ok {
		return nil, fmt.Errorf("synth: reconstructor invoked without a parsed picture")
	}
	luma := make([]byte, r.Width*r.Height)
	for i := range luma {
		luma[i] = byte(pp.poc + i)
	}
	return &avs2dec.Frame{
		POC:      pp.poc,
		Type:     pp.typ,
		Width:    r.Width,
		Height:   r.Height,
		BitDepth: r.BitDepth,
		Planes:   [3][]byte{luma, nil, nil},
		Stride:   [3]int{r.Width, 0, 0},
	}, nil
}
