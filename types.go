// Package avs2dec implements the decoder control plane of an AVS2 /
// IEEE 1857.4 video decoder: bitstream framing, a bounded task-slot pool,
// worker dispatch, and in-order picture delivery. Syntax parsing,
// reconstruction kernels and PSNR/YUV I/O are external collaborators
// (see Parser, ReferenceBinder and Reconstructor) — this package only
// owns the scheduling and bookkeeping around them.
//
// Licensed under the GNU General Public License v3.0 or later.
package avs2dec

import (
	"sync/atomic"
	"time"
)

// MaxESFrameSize is the initial capacity given to every pre-allocated
// ES unit. Units that need more space are grown (see growESUnit, called
// from Manager.push).
const MaxESFrameSize = 2 << 20 // 2 MiB

// ThreadMax bounds the configured thread count (spec.md §4.7,
// AVS2_THREAD_MAX in the original davs2 C implementation).
const ThreadMax = 32

// DefaultMaxReorderBacklog is the default value of the constant named
// "8" throughout spec.md §4.6 — the maximum acceptable reorder backlog
// before the decoder gives up waiting for a missing POC and advances.
const DefaultMaxReorderBacklog = 8

// ReturnType mirrors davs2_ret_type_e: what a Decode/Flush call produced.
type ReturnType int

const (
	Default ReturnType = iota
	GotHeader
	GotFrame
	GotBoth
	End
)

func (r ReturnType) String() string {
	switch r {
	case Default:
		return "DEFAULT"
	case GotHeader:
		return "GOT_HEADER"
	case GotFrame:
		return "GOT_FRAME"
	case GotBoth:
		return "GOT_BOTH"
	case End:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Packet is one caller-supplied chunk of elementary-stream bytes, along
// with its timestamps. Marker asserts a frame boundary at the end of
// the chunk; this implementation accumulates into one ES unit per
// Decode call and relies on the parser to validate syntactic
// completeness (spec.md §4.4).
type Packet struct {
	Data   []byte
	PTS    int64
	DTS    int64
	Marker bool
}

// PictureType is the coded slice type of a picture, as reported by the
// parser collaborator.
type PictureType int

const (
	PictureI PictureType = iota
	PictureP
	PictureB
)

// Frame is a reference-counted reconstructed picture. Planes holds the
// luma and two chroma planes; Stride[i] is the row pitch of Planes[i]
// in bytes. Frame is shared between the DPB, reference lists of later
// pictures, and output records — refcount reaches zero only once every
// holder has released it.
type Frame struct {
	POC      int
	COI      int
	Type     PictureType
	QP       int
	Width    int
	Height   int
	BitDepth int
	Planes   [3][]byte
	Stride   [3]int

	refs int32
}

// Ref increments the frame's reference count. Atomic because a Frame is
// touched concurrently from the reconstruction pool's goroutines, the
// caller's Unref, and Close's drainAll.
func (f *Frame) Ref() { atomic.AddInt32(&f.refs, 1) }

// Unref decrements the frame's reference count and reports whether it
// reached zero (the caller is then responsible for recycling it).
func (f *Frame) Unref() bool {
	return atomic.AddInt32(&f.refs, -1) <= 0
}

// SequenceHeader is the captured sequence-header payload delivered with
// GotHeader/GotBoth (spec.md's davs2_seq_info_t).
type SequenceHeader struct {
	Width     int
	Height    int
	BitDepth  int
	FrameRate float64
}

// Picture is the caller-visible view of a delivered frame. Magic is the
// opaque output-record handle the caller must pass back to Unref.
type Picture struct {
	POC      int
	COI      int
	Type     PictureType
	QP       int
	Width    int
	Height   int
	BitDepth int
	Planes   [3][]byte
	Stride   [3]int
	Magic    *outputRecord
}

// ParseResultKind classifies what the parser collaborator did with one
// ES unit (spec.md §6.2).
type ParseResultKind int

const (
	ParseMalformed ParseResultKind = iota
	ParseHeaderOnly
	ParsePictureAccepted
)

// ParseResult is returned by Parser.ParseHeader.
type ParseResult struct {
	Kind   ParseResultKind
	Header SequenceHeader
}

// TaskContext is the per-slot decoder context handed to the parser,
// reference binder and reconstructor collaborators. It carries exactly
// the state those external components need and nothing about queue or
// slot bookkeeping, which stays inside this package.
type TaskContext struct {
	SlotID int
	PTS    int64
	DTS    int64
	ESData []byte

	// Parsed is populated by Parser.ParseHeader on ParsePictureAccepted
	// and consumed by ReferenceBinder / Reconstructor. Its shape is
	// collaborator-defined; the control plane never inspects it.
	Parsed any
}

// Stats is a point-in-time snapshot of manager counters, used by the
// diagnostics control channel (SPEC_FULL.md §4.10) and by tests.
type Stats struct {
	FramesIn       uint64
	FramesOut      uint64
	ReorderBacklog int
	SlotsBusy      int
	SlotsTotal     int
	Flushing       bool
	Timestamp      time.Time
}
