package domain

import (
	"fmt"
	"time"
)

// Module identifies one of the three drill types.
type Module string

const (
	// ModuleNumbers drills random N-digit numbers, optionally paired with
	// an object label to anchor the association.
	ModuleNumbers Module = "numbers"

	// ModuleObjects drills ordered sequences of object words.
	ModuleObjects Module = "objects"

	// ModuleConcepts drills ordered sequences of abstract concept words.
	ModuleConcepts Module = "concepts"
)

// Modules lists every valid module, in presentation order.
var Modules = []Module{ModuleNumbers, ModuleObjects, ModuleConcepts}

// Valid reports whether m is one of the known modules.
func (m Module) Valid() bool {
	switch m {
	case ModuleNumbers, ModuleObjects, ModuleConcepts:
		return true
	}
	return false
}

// DateLayout is the canonical exercise date format.
const DateLayout = "2006-01-02"

// Today returns now formatted as a local YYYY-MM-DD exercise date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// ExerciseItem is a single element of an exercise sequence. For the numbers
// module Number holds the digits and Label an optional associated object;
// for the objects and concepts modules only Label is set.
type ExerciseItem struct {
	Number string `json:"number,omitempty"`
	Label  string `json:"label,omitempty"`
}

// Result is the aggregate outcome of the most recent test run.
type Result struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Exercise is one day's drill for a module: the memorized item sequence,
// the time spent memorizing it, and the outcome of the last test, if any.
// At most one exercise exists per (module, date) pair; the store enforces
// the constraint.
type Exercise struct {
	ID                  int64          `json:"id"`
	Module              Module         `json:"module"`
	Date                string         `json:"date"`
	Items               []ExerciseItem `json:"items"`
	TotalElapsedSeconds int            `json:"total_elapsed_seconds"`
	LastResult          *Result        `json:"last_result,omitempty"`
}

// NewExercise creates an exercise for the given module and date with the
// provided item sequence. The ID is assigned by the store on create.
// Returns an error if validation fails.
func NewExercise(module Module, date string, items []ExerciseItem) (*Exercise, error) {
	ex := &Exercise{
		Module: module,
		Date:   date,
		Items:  items,
	}
	if err := ex.Validate(); err != nil {
		return nil, err
	}
	return ex, nil
}

// Validate checks if the Exercise has valid data.
func (e *Exercise) Validate() error {
	if !e.Module.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidModule, e.Module)
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, e.Date)
	}
	if len(e.Items) == 0 {
		return ErrEmptyItems
	}
	if e.TotalElapsedSeconds < 0 {
		return fmt.Errorf("%w: elapsed seconds cannot be negative", ErrValidation)
	}
	return nil
}

// Clone returns a deep copy of the exercise. Consumers own their copies;
// entities are never shared by reference across components.
func (e *Exercise) Clone() *Exercise {
	out := *e
	out.Items = make([]ExerciseItem, len(e.Items))
	copy(out.Items, e.Items)
	if e.LastResult != nil {
		r := *e.LastResult
		out.LastResult = &r
	}
	return &out
}
