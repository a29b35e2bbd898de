// collaborators.go - Parser/ReferenceBinder/Reconstructor collaborator interfaces
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

// Parser turns the bytes of one emulation-prevention-free ES unit into
// either a sequence header or a decodable picture (spec.md §6's parse
// stage). Implementations are called from inside the dispatcher under
// the AEC mutex (spec.md §5), so a Parser itself needs no internal
// locking.
type Parser interface {
	// ParseHeader inspects the unit and reports which case applies. A
	// malformed unit is reported through ParseResult.Kind, not an
	// error return — spec.md §7 reserves Go errors for programmer
	// misuse (bad params, closed manager), not for malformed bitstream
	// content, which is a normal and expected outcome of decoding.
	ParseHeader(ctx *TaskContext) (ParseResult, error)
}

// ReferenceBinder resolves the reference pictures a just-parsed picture
// depends on before reconstruction can run (spec.md §6's reference
// binding stage, davs2.cc's task_get_references equivalent). It is
// called with the manager's list of still-referenced Frames and returns
// an error if a reference the new picture needs is not among them.
type ReferenceBinder interface {
	BindReferences(ctx *TaskContext, live []*Frame) error
}

// Reconstructor performs the actual pixel reconstruction for one
// picture (spec.md §6's reconstruction stage, C6). It runs inside a
// thread-pool job and must not touch Manager state directly — it
// receives exactly what it needs and returns exactly what it produced.
type Reconstructor interface {
	Reconstruct(ctx *TaskContext) (*Frame, error)
}
