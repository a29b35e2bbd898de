package synth

import (
	"testing"

	"github.com/avs2lib/avs2dec"
)

func TestParser_RoundTripsSequenceHeader(t *testing.T) {
	p := NewParser()
	want := avs2dec.SequenceHeader{Width: 352, Height: 288, BitDepth: 8, FrameRate: 25.0}
	ctx := &avs2dec.TaskContext{ESData: EncodeSequenceHeader(want)}

	res, err := p.ParseHeader(ctx)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if res.Kind != avs2dec.ParseHeaderOnly {
		t.Fatalf("expected ParseHeaderOnly, got %v", res.Kind)
	}
	if res.Header != want {
		t.Fatalf("expected %+v, got %+v", want, res.Header)
	}
}

func TestParser_RoundTripsPicture(t *testing.T) {
	p := NewParser()
	ctx := &avs2dec.TaskContext{ESData: EncodePicture(7, avs2dec.PictureP, 6)}

	res, err := p.ParseHeader(ctx)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if res.Kind != avs2dec.ParsePictureAccepted {
		t.Fatalf("expected ParsePictureAccepted, got %v", res.Kind)
	}
	pp, ok := ctx.Parsed.(parsedPicture)
	if !ok {
		t.Fatalf("expected ctx.Parsed to be a parsedPicture, got %T", ctx.Parsed)
	}
	if pp.poc != 7 || pp.typ != avs2dec.PictureP || pp.refPOC != 6 {
		t.Fatalf("unexpected parsed picture: %+v", pp)
	}
}

func TestParser_MalformedInput(t *testing.T) {
	p := NewParser()
	cases := [][]byte{nil, {0xFF}, {kindPicture, 1, 2}}
	for _, data := range cases {
		ctx := &avs2dec.TaskContext{ESData: data}
		res, err := p.ParseHeader(ctx)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", data, err)
		}
		if res.Kind != avs2dec.ParseMalformed {
			t.Fatalf("expected ParseMalformed for %v, got %v", data, res.Kind)
		}
	}
}

func TestReferenceBinder_RequiresKnownReference(t *testing.T) {
	b := NewReferenceBinder()
	ctx := &avs2dec.TaskContext{Parsed: parsedPicture{poc: 1, typ: avs2dec.PictureP, refPOC: 0}}

	if err := b.BindReferences(ctx, nil); err == nil {
		t.Fatal("expected an error when the declared reference is not live")
	}

	live := []*avs2dec.Frame{{POC: 0}}
	if err := b.BindReferences(ctx, live); err != nil {
		t.Fatalf("expected success with the reference present, got %v", err)
	}
}

func TestReferenceBinder_IPicturesNeedNoReference(t *testing.T) {
	b := NewReferenceBinder()
	ctx := &avs2dec.TaskContext{Parsed: parsedPicture{poc: 0, typ: avs2dec.PictureI}}
	if err := b.BindReferences(ctx, nil); err != nil {
		t.Fatalf("expected I pictures to need no reference, got %v", err)
	}
}

func TestReconstructor_ProducesDistinctFramesPerPOC(t *testing.T) {
	r := NewReconstructor(4, 4, 8)
	ctx := &avs2dec.TaskContext{Parsed: parsedPicture{poc: 3, typ: avs2dec.PictureI}}

	f, err := r.Reconstruct(ctx)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if f.POC != 3 || f.Width != 4 || f.Height != 4 {
		t.Fatalf("unexpected frame: %+v", f)
	}
	if len(f.Planes[0]) != 16 {
		t.Fatalf("expected 16-byte luma plane, got %d", len(f.Planes[0]))
	}
}
