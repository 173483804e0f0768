package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ErrNoSynthesizer is returned when no speech command is available.
var ErrNoSynthesizer = errors.New("no speech synthesizer found (install espeak-ng or set [speech] command)")

// Synth describes an external text-to-speech command.
type Synth struct {
	Command string
	Voice   string
	Rate    int
}

// knownSynths are probed in order when no command is configured.
var knownSynths = []string{"espeak-ng", "espeak", "say", "spd-say"}

// Detect fills in Command from PATH when it is empty.
func Detect(s Synth, lookPath func(string) (string, error)) (Synth, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if s.Command != "" {
		if _, err := lookPath(s.Command); err != nil {
			return s, fmt.Errorf("speech command %q: %w", s.Command, ErrNoSynthesizer)
		}
		return s, nil
	}
	for _, name := range knownSynths {
		if _, err := lookPath(name); err == nil {
			s.Command = name
			return s, nil
		}
	}
	return s, ErrNoSynthesizer
}

// Args builds the command line for text, preferring a Mexican Spanish voice.
func (s Synth) Args(text string) []string {
	base := s.Command
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}

	var args []string
	switch base {
	case "say":
		voice := s.Voice
		if voice == "" {
			voice = "Paulina"
		}
		args = append(args, "-v", voice)
		if s.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(s.Rate))
		}
	case "spd-say":
		args = append(args, "-w", "-l", "es")
		if s.Voice != "" {
			args = append(args, "-y", s.Voice)
		}
	default: // espeak family
		voice := s.Voice
		if voice == "" {
			voice = "es-419"
		}
		args = append(args, "-v", voice)
		if s.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(s.Rate))
		}
	}
	return append(args, text)
}

// Runner returns a Runner that executes the synthesizer. Cancelling the
// context kills the process.
func (s Synth) Runner() Runner {
	return func(ctx context.Context, text string) error {
		cmd := exec.CommandContext(ctx, s.Command, s.Args(text)...)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("running %s: %w", s.Command, err)
		}
		return nil
	}
}

var glyphWords = strings.NewReplacer(
	"▲", " sube ",
	"▼", " baja ",
	"%", " por ciento",
	"│", " ", "─", " ", "█", "", "░", "",
	"▾", "", "▸", "", "•", "",
)

// Prepare turns rendered terminal text into something a synthesizer can read:
// ANSI sequences and drawing glyphs are removed and whitespace is collapsed.
func Prepare(text string) string {
	plain := glyphWords.Replace(ansi.Strip(text))
	return strings.Join(strings.Fields(plain), " ")
}
