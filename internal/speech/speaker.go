// Package speech reads text aloud through a platform text-to-speech command.
package speech

import (
	"context"
	"log"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// DefaultLang is used when Speak is called without a language.
const DefaultLang = "th-TH"

// normal speaking speed of espeak and say, in words per minute
const baseWordsPerMinute = 175

// Speaker plays one utterance at a time; starting a new one cancels the previous.
type Speaker struct {
	command  string
	rate     float64
	lookPath func(string) (string, error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a speaker that runs command. rate scales the normal speed (0.9 = slightly slower).
func New(command string, rate float64) *Speaker {
	if rate <= 0 {
		rate = 1
	}
	return &Speaker{command: command, rate: rate, lookPath: exec.LookPath}
}

// Speak starts reading text and returns immediately. If no speech command is available
// it logs a warning and does nothing.
func (s *Speaker) Speak(ctx context.Context, text, lang string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if lang == "" {
		lang = DefaultLang
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	path, err := s.lookPath(s.command)
	if err != nil {
		log.Printf("text-to-speech not supported: %v", err)
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, path, s.args(text, lang)...)
	if err := cmd.Start(); err != nil {
		cancel()
		log.Printf("speak: %v", err)
		return
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = cmd.Wait()
	}()
	s.cancel = cancel
	s.done = done
}

// Stop cancels the in-flight utterance, if any.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Wait blocks until the current utterance finishes.
func (s *Speaker) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Speaker) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Speaker) args(text, lang string) []string {
	wpm := strconv.Itoa(int(baseWordsPerMinute * s.rate))
	switch name := filepath.Base(s.command); {
	case strings.HasPrefix(name, "espeak"):
		return []string{"-v", voice(lang), "-s", wpm, text}
	case name == "say":
		return []string{"-r", wpm, text}
	default:
		return []string{text}
	}
}

// voice maps a BCP 47 tag such as "th-TH" to an espeak voice name.
func voice(lang string) string {
	base, _, _ := strings.Cut(lang, "-")
	return strings.ToLower(base)
}
