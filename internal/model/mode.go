package model

import "fmt"

// Mode selects whether values are shown in nominal or real (deflated) terms.
type Mode string

const (
	ModeNominal Mode = "nominal"
	ModeReal    Mode = "real"
)

// ParseMode accepts "nominal" or "real".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNominal, ModeReal:
		return Mode(s), nil
	case "":
		return ModeNominal, nil
	}
	return "", fmt.Errorf("unknown mode %q (want nominal or real)", s)
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeReal {
		return ModeNominal
	}
	return ModeReal
}

// Label is the display name of the mode.
func (m Mode) Label() string {
	if m == ModeReal {
		return "Real"
	}
	return "Nominal"
}
