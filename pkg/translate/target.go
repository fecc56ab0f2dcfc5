package translate

import (
	"strconv"
	"strings"

	"github.com/matzehuels/orngkit/pkg/errors"
)

// Mode selects the encoder for discrete attributes.
type Mode int

const (
	// ModeDummy always uses [Dummy].
	ModeDummy Mode = iota
	// ModeBinarize always uses [Binarizer].
	ModeBinarize
	// ModeAuto uses [Binarizer] for attributes with more than two values
	// and [Dummy] otherwise.
	ModeAuto
)

var modeNames = []string{"dummy", "binarize", "auto"}

// String returns the mode name.
func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m >= ModeDummy && m <= ModeAuto }

// ParseMode accepts a mode name or its number.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Mode(n).Valid() {
		return Mode(n), nil
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: dummy, binarize, auto)", s)
}

// Target is the learner a translation is prepared for.
type Target int

const (
	// TargetNone means the translation has not been prepared.
	TargetNone Target = iota
	// TargetLR prepares rows for logistic regression.
	TargetLR
	// TargetSVM prepares rows for support vector machines.
	TargetSVM
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetLR:
		return "lr"
	case TargetSVM:
		return "svm"
	default:
		return "none"
	}
}

// ParseTarget resolves "lr" or "svm".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lr":
		return TargetLR, nil
	case "svm":
		return TargetSVM, nil
	}
	return TargetNone, errors.New(errors.ErrCodeInvalidTarget, "invalid target: %q (must be lr or svm)", s)
}
