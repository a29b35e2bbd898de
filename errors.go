// errors.go - sentinel errors returned by the control plane
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

import "errors"

// Error kinds per spec.md §7. ErrMalformedUnit is never returned across
// the public API — it is logged and absorbed at the dispatcher, listed
// here only so internal code and tests can compare against it.
var (
	ErrBadParams     = errors.New("avs2dec: invalid parameters")
	ErrAllocation    = errors.New("avs2dec: allocation failure")
	ErrMalformedUnit = errors.New("avs2dec: malformed ES unit")
	ErrClosed        = errors.New("avs2dec: decoder closed")
)
