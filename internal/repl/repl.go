package repl

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

const PROMPT = "> "

// Runner executes one line of input.
type Runner interface {
	Run(src string) int
}

// History persists entered lines between sessions.
type History interface {
	Append(ctx context.Context, line string) error
	Recent(ctx context.Context, n int) ([]string, error)
}

type Session struct {
	Runner      Runner
	History     History // may be nil
	HistorySize int
}

// Start reads lines from in until EOF. A terminal gets line editing and a
// prompt; anything else is read plainly without a prompt.
func (s *Session) Start(ctx context.Context, in io.Reader) error {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return s.interactive(ctx)
	}
	return s.plain(ctx, in)
}

func (s *Session) interactive(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	s.preload(ctx, line)

	for {
		input, err := line.Prompt(PROMPT)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		s.eval(ctx, input)
	}
}

func (s *Session) plain(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		input := scanner.Text()
		if strings.TrimSpace(input) == "" {
			continue
		}
		s.eval(ctx, input)
	}
	return scanner.Err()
}

func (s *Session) eval(ctx context.Context, input string) {
	if s.History != nil {
		if err := s.History.Append(ctx, input); err != nil {
			slog.Warn("failed to save history", slog.Any("error", err))
		}
	}
	code := s.Runner.Run(input)
	slog.Debug("repl line evaluated", slog.Int("status", code))
}

func (s *Session) preload(ctx context.Context, line *liner.State) {
	if s.History == nil || s.HistorySize <= 0 {
		return
	}
	lines, err := s.History.Recent(ctx, s.HistorySize)
	if err != nil {
		slog.Warn("failed to load history", slog.Any("error", err))
		return
	}
	for _, l := range lines {
		line.AppendHistory(l)
	}
}
