package domain

import (
	"fmt"
	"strings"
)

// SlotCount is the fixed size of the casillero mental.
const SlotCount = 100

// MentalSlot associates one integer of the casillero mental with its
// mnemonic label. Exactly one slot exists per index 1..100; slots are
// provisioned with defaults on first access and only change through an
// explicit user edit.
type MentalSlot struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Validate checks if the MentalSlot has valid data.
func (s *MentalSlot) Validate() error {
	if s.Index < 1 || s.Index > SlotCount {
		return fmt.Errorf("%w: got %d", ErrInvalidSlotIndex, s.Index)
	}
	if strings.TrimSpace(s.Label) == "" {
		return ErrEmptySlotLabel
	}
	return nil
}

// SessionKey is the fixed primary key of the singleton casillero session.
const SessionKey = "current"

// CasilleroSession is the rolling review state over the casillero mental:
// a full permutation of 1..100 and a cursor into it. Exactly one live
// session exists at a time; when the cursor is advanced past the last
// position the session is replaced wholesale by a fresh permutation that
// differs from the previous one.
type CasilleroSession struct {
	Permutation []int `json:"permutation"`
	Cursor      int   `json:"cursor"`
}

// Validate checks the permutation and cursor invariants.
func (s *CasilleroSession) Validate() error {
	if len(s.Permutation) != SlotCount {
		return fmt.Errorf("%w: got %d elements", ErrInvalidPermutation, len(s.Permutation))
	}
	var seen [SlotCount + 1]bool
	for _, n := range s.Permutation {
		if n < 1 || n > SlotCount || seen[n] {
			return fmt.Errorf("%w: unexpected element %d", ErrInvalidPermutation, n)
		}
		seen[n] = true
	}
	if s.Cursor < 0 || s.Cursor >= SlotCount {
		return fmt.Errorf("%w: got %d", ErrInvalidCursor, s.Cursor)
	}
	return nil
}

// CurrentNumber returns the casillero number under the cursor.
func (s *CasilleroSession) CurrentNumber() int {
	return s.Permutation[s.Cursor]
}

// Clone returns a deep copy of the session.
func (s *CasilleroSession) Clone() *CasilleroSession {
	out := *s
	out.Permutation = make([]int, len(s.Permutation))
	copy(out.Permutation, s.Permutation)
	return &out
}

// SamePermutation reports whether both sessions walk the identical
// permutation, element for element.
func (s *CasilleroSession) SamePermutation(other *CasilleroSession) bool {
	if other == nil || len(s.Permutation) != len(other.Permutation) {
		return false
	}
	for i, n := range s.Permutation {
		if other.Permutation[i] != n {
			return false
		}
	}
	return true
}
