// SPDX-License-Identifier: MIT

package transpose

// State is the progress of one worker through a run.
//
//	Uninitialized → Initialized → Exchanged → Transposed → VerifiedOK
//	                                                     ↘ VerifiedFailed
type State int

const (
	Uninitialized State = iota
	Initialized
	Exchanged
	Transposed
	VerifiedOK
	VerifiedFailed
)

var stateNames = [...]string{
	Uninitialized:  "Uninitialized",
	Initialized:    "Initialized",
	Exchanged:      "Exchanged",
	Transposed:     "Transposed",
	VerifiedOK:     "Verified:Ok",
	VerifiedFailed: "Verified:Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}

	return stateNames[s]
}

// Terminal reports whether no further step is possible.
func (s State) Terminal() bool { return s == VerifiedOK || s == VerifiedFailed }
