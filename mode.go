package composite

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrUnknownMode is returned by ParseMode for names that match no mode.
var ErrUnknownMode = errors.New("composite: unknown blend mode")

// Mode selects how a layer sample is combined with the sample below it.
//
// Mode is a closed enumeration: every value maps to exactly one operator.
// Values outside the enumeration are treated as ModeNormal wherever a mode is
// resolved, so a compositing graph always stays renderable.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDissolve
	ModeBehind
	ModeMultiply
	ModeScreen
	ModeOverlay
	ModeDifference
	ModeAddition
	ModeSubtract
	ModeDarkenOnly
	ModeLightenOnly
	ModeHue
	ModeSaturation
	ModeColor
	ModeValue
	ModeDivide
	ModeDodge
	ModeBurn
	ModeHardLight
	ModeSoftLight
	ModeGrainExtract
	ModeGrainMerge
	ModeColorErase
	ModeErase
	ModeReplace
	ModeAntiErase

	modeCount
)

// OperationPrefix prefixes the graph operation name of every layer mode.
const OperationPrefix = "layer-mode:"

var modeNames = [modeCount]string{
	ModeNormal:       "normal",
	ModeDissolve:     "dissolve",
	ModeBehind:       "behind",
	ModeMultiply:     "multiply",
	ModeScreen:       "screen",
	ModeOverlay:      "overlay",
	ModeDifference:   "difference",
	ModeAddition:     "addition",
	ModeSubtract:     "subtract",
	ModeDarkenOnly:   "darken-only",
	ModeLightenOnly:  "lighten-only",
	ModeHue:          "hue",
	ModeSaturation:   "saturation",
	ModeColor:        "color",
	ModeValue:        "value",
	ModeDivide:       "divide",
	ModeDodge:        "dodge",
	ModeBurn:         "burn",
	ModeHardLight:    "hardlight",
	ModeSoftLight:    "softlight",
	ModeGrainExtract: "grain-extract",
	ModeGrainMerge:   "grain-merge",
	ModeColorErase:   "color-erase",
	ModeErase:        "erase",
	ModeReplace:      "replace",
	ModeAntiErase:    "anti-erase",
}

// modeAliases maps alternative spellings to modes.
var modeAliases = map[string]Mode{
	"darken":       ModeDarkenOnly,
	"lighten":      ModeLightenOnly,
	"hard-light":   ModeHardLight,
	"soft-light":   ModeSoftLight,
	"add":          ModeAddition,
	"colour":       ModeColor,
	"colour-erase": ModeColorErase,
}

// Modes returns every mode in enumeration order.
func Modes() []Mode {
	modes := make([]Mode, modeCount)
	for i := range modes {
		modes[i] = Mode(i)
	}
	return modes
}

// Valid reports whether m is a member of the enumeration.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Resolve returns m, or ModeNormal when m is not a member of the enumeration.
func (m Mode) Resolve() Mode {
	if !m.Valid() {
		return ModeNormal
	}
	return m
}

// String returns the kebab-case mode name, e.g. "darken-only".
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// OperationName returns the name of the graph operation implementing m,
// e.g. "layer-mode:multiply". Invalid modes resolve to Normal.
func (m Mode) OperationName() string {
	return OperationPrefix + modeNames[m.Resolve()]
}

// ParseMode returns the mode with the given name. Matching ignores case
// (Unicode case folding), accepts '_' and ' ' in place of '-', and tolerates
// an OperationPrefix. On failure it returns ModeNormal and ErrUnknownMode.
func ParseMode(name string) (Mode, error) {
	key := cases.Fold().String(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, OperationPrefix)
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)

	for i, n := range modeNames {
		if n == key {
			return Mode(i), nil
		}
	}
	if m, ok := modeAliases[key]; ok {
		return m, nil
	}
	return ModeNormal, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// ModeFromOperation returns the mode whose OperationName is op.
func ModeFromOperation(op string) (Mode, bool) {
	name, ok := strings.CutPrefix(op, OperationPrefix)
	if !ok {
		return ModeNormal, false
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return ModeNormal, false
}
