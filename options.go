// options.go - functional-options configuration for Open
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

// Params configures a Manager at Open time (spec.md §6's external
// configuration surface, davs2.cc's davs2_param_t equivalent). Zero
// value is not valid on its own; use Open with Options to fill in the
// derived thread counts.
type Params struct {
	Threads           int
	SeparatedAEC      bool
	MaxReorderBacklog int
	Logger            Logger
	OutputReady       OutputReadyPolicy
	Parser            Parser
	Binder            ReferenceBinder
	Reconstructor     Reconstructor

	// derived, computed by resolveThreadCounts
	aecWorkers int
	recWorkers int
	taskSlots  int
	maxThreads int
}

// Option mutates Params before derived fields are computed.
type Option func(*Params)

func WithThreads(n int) Option {
	return func(p *Params) { p.Threads = n }
}

func WithSeparatedAEC(sep bool) Option {
	return func(p *Params) { p.SeparatedAEC = sep }
}

func WithMaxReorderBacklog(n int) Option {
	return func(p *Params) { p.MaxReorderBacklog = n }
}

func WithLogger(l Logger) Option {
	return func(p *Params) { p.Logger = l }
}

func WithOutputReadyPolicy(policy OutputReadyPolicy) Option {
	return func(p *Params) { p.OutputReady = policy }
}

func WithParser(parser Parser) Option {
	return func(p *Params) { p.Parser = parser }
}

func WithReferenceBinder(b ReferenceBinder) Option {
	return func(p *Params) { p.Binder = b }
}

func WithReconstructor(r Reconstructor) Option {
	return func(p *Params) { p.Reconstructor = r }
}

// defaultParams seeds the fields Open requires a non-nil value for,
// matching davs2.cc's compile-time defaults where spec.md doesn't
// override them.
func defaultParams() Params {
	return Params{
		Threads:           4,
		MaxReorderBacklog: DefaultMaxReorderBacklog,
		Logger:            &nopLogger{},
		OutputReady:       AlwaysReady{},
	}
}

// resolveThreadCounts applies spec.md §4.7's clamping and derivation
// formulas, carried over unchanged from davs2_decoder_open's thread
// math in davs2.cc:
//
//	max_threads     = ThreadMax if separated-AEC else ThreadMax/2
//	threads         = clamp(Threads, 1, max_threads)
//	num_aec_workers = threads>3 ? threads/2+1 : threads
//	num_rec_workers = threads - num_aec_workers (0 if negative)
//	num_task_slots  = threads + num_aec_workers + 2
func (p *Params) resolveThreadCounts() {
	p.maxThreads = ThreadMax
	if !p.SeparatedAEC {
		p.maxThreads = ThreadMax / 2
	}
	if p.Threads < 1 {
		p.Threads = 1
	}
	if p.Threads > p.maxThreads {
		p.Threads = p.maxThreads
	}

	if p.Threads > 3 {
		p.aecWorkers = p.Threads/2 + 1
	} else {
		p.aecWorkers = p.Threads
	}
	p.recWorkers = p.Threads - p.aecWorkers
	if p.recWorkers < 0 {
		p.recWorkers = 0
	}
	p.taskSlots = p.Threads + p.aecWorkers + 2
}
