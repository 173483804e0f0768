package speech

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

// blockingRunner records each utterance and blocks until cancelled or released.
type blockingRunner struct {
	mu      sync.Mutex
	started []string
	release chan struct{}
}

func (b *blockingRunner) run(ctx context.Context, text string) error {
	b.mu.Lock()
	b.started = append(b.started, text)
	b.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.release:
		return nil
	}
}

func waitResult(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for announcement")
		return nil
	}
}

func TestAnnouncer_RetriggerCancelsPrevious(t *testing.T) {
	br := &blockingRunner{release: make(chan struct{})}
	a := NewAnnouncer(br.run)

	first := a.Speak(context.Background(), "uno")
	second := a.Speak(context.Background(), "dos")

	// Speak returns only after the first utterance has stopped.
	if err := waitResult(t, first); !errors.Is(err, context.Canceled) {
		t.Errorf("first result = %v, want context.Canceled", err)
	}
	if !a.Speaking() {
		t.Error("second announcement should be active")
	}

	close(br.release)
	if err := waitResult(t, second); err != nil {
		t.Errorf("second result = %v, want nil", err)
	}

	br.mu.Lock()
	defer br.mu.Unlock()
	if !reflect.DeepEqual(br.started, []string{"uno", "dos"}) {
		t.Errorf("started = %v", br.started)
	}
}

func TestAnnouncer_Stop(t *testing.T) {
	br := &blockingRunner{release: make(chan struct{})}
	a := NewAnnouncer(br.run)

	a.Stop() // no-op when idle
	ch := a.Speak(context.Background(), "hola")
	a.Stop()

	if a.Speaking() {
		t.Error("Speaking() after Stop")
	}
	if err := waitResult(t, ch); !errors.Is(err, context.Canceled) {
		t.Errorf("result = %v, want context.Canceled", err)
	}
}

func TestAnnouncer_RunnerError(t *testing.T) {
	boom := errors.New("boom")
	a := NewAnnouncer(func(context.Context, string) error { return boom })
	if err := waitResult(t, a.Speak(context.Background(), "x")); !errors.Is(err, boom) {
		t.Errorf("result = %v, want boom", err)
	}
}

func TestDetect(t *testing.T) {
	only := func(name string) func(string) (string, error) {
		return func(n string) (string, error) {
			if n == name {
				return "/usr/bin/" + n, nil
			}
			return "", errors.New("not found")
		}
	}

	s, err := Detect(Synth{}, only("say"))
	if err != nil || s.Command != "say" {
		t.Errorf("Detect = %+v, %v; want say", s, err)
	}
	if _, err := Detect(Synth{}, only("none")); !errors.Is(err, ErrNoSynthesizer) {
		t.Errorf("Detect(nothing) = %v, want ErrNoSynthesizer", err)
	}
	if _, err := Detect(Synth{Command: "festival"}, only("say")); !errors.Is(err, ErrNoSynthesizer) {
		t.Errorf("Detect(missing command) = %v", err)
	}
}

func TestSynthArgs(t *testing.T) {
	got := Synth{Command: "/usr/bin/espeak-ng", Rate: 160}.Args("hola")
	if !reflect.DeepEqual(got, []string{"-v", "es-419", "-s", "160", "hola"}) {
		t.Errorf("espeak args = %v", got)
	}
	got = Synth{Command: "say"}.Args("hola")
	if !reflect.DeepEqual(got, []string{"-v", "Paulina", "hola"}) {
		t.Errorf("say args = %v", got)
	}
}

func TestPrepare(t *testing.T) {
	in := "\x1b[1mTotal\x1b[0m  │ 1,000.0 ▲ 5.0%\n"
	if got := Prepare(in); got != "Total 1,000.0 sube 5.0 por ciento" {
		t.Errorf("Prepare = %q", got)
	}
}
