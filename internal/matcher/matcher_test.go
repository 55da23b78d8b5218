package matcher

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"  Hola  Mundo ", "hola mundo"},
		{"UNA\tcasa\n grande", "una casa grande"},
		{"", ""},
		{"   ", ""},
		{"Ya", "ya"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDistance(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"elephant", "elephant", 0},
		{"elephant", "elephan", 1},
		{"elephant", "elephnt", 1},
		{"casa", "caza", 1},
		{"flaw", "lawn", 2},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		// The cost structure is symmetric.
		if got := Distance(tc.b, tc.a); got != tc.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestIsCorrectReflexive(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"elefante", "  Dos   Palabras ", "1234", "x"} {
		if !IsCorrect(s, s, false) {
			t.Errorf("IsCorrect(%q, %q, false) = false, want true", s, s)
		}
	}
}

func TestIsCorrectEmptyAnswer(t *testing.T) {
	t.Parallel()

	if IsCorrect("", "elefante", false) {
		t.Error("Empty answer should never be correct in text mode")
	}
	if IsCorrect("   ", "1234", true) {
		t.Error("Whitespace-only answer should never be correct in numeric mode")
	}
}

func TestIsCorrectNumeric(t *testing.T) {
	t.Parallel()

	cases := []struct {
		user, expected string
		want           bool
	}{
		{"1234", "1234", true},
		{"1 234", "1234", true}, // internal whitespace is not a digit error
		{"1234", "1235", false}, // no tolerance for digit typos
		{"123", "1234", false},
		{"12345", "1234", false},
	}
	for _, tc := range cases {
		if got := IsCorrect(tc.user, tc.expected, true); got != tc.want {
			t.Errorf("IsCorrect(%q, %q, true) = %v, want %v", tc.user, tc.expected, got, tc.want)
		}
	}
}

func TestIsCorrectTextTolerance(t *testing.T) {
	t.Parallel()

	// "elephant" has length 8, so the threshold is max(1, floor(8*0.2)) = 1.
	if !IsCorrect("elephan", "elephant", false) {
		t.Error("One missing letter should be tolerated")
	}
	if !IsCorrect("elephnt", "elephant", false) {
		t.Error("Distance-1 variant should be tolerated")
	}
	if IsCorrect("elphnt", "elephant", false) {
		t.Error("Distance-2 variant should not be tolerated at threshold 1")
	}

	// Short expected strings still tolerate a single edit.
	if !IsCorrect("spl", "sol", false) {
		t.Error("Threshold floors at 1 even for short strings")
	}

	// Longer expected strings scale the threshold with length.
	// "gato con botas" normalizes to length 14, threshold 2.
	if !IsCorrect("gato con bota", "gato  con Botas", false) {
		t.Error("Edits within threshold 2 should be tolerated")
	}
	if IsCorrect("gato sin bota", "gato con botas", false) {
		t.Error("Three edits should not be tolerated at threshold 2")
	}
}

func TestIsCorrectThresholdCountsCharacters(t *testing.T) {
	t.Parallel()

	// "melocotón" is 9 characters but 10 bytes; its threshold is 1, not
	// a byte-inflated 2.
	if !IsCorrect("melocotán", "melocotón", false) {
		t.Error("One edit against a 9-character word should be tolerated")
	}
	if IsCorrect("melacotan", "melocotón", false) {
		t.Error("Two edits against a 9-character word should not be tolerated")
	}
}
