package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	appLog "holidaytracker/internal/log"
	"holidaytracker/internal/model"
	"holidaytracker/internal/query"
)

// Shell is the numbered-menu loop over a query.Engine.
type Shell struct {
	engine *query.Engine
	in     *bufio.Reader
	out    io.Writer
	echo   bool

	lines chan lineResult
}

type lineResult struct {
	text string
	err  error
}

// Option configures a Shell.
type Option func(*Shell)

// WithEcho repeats every line read after its prompt. Useful when input is
// piped and would otherwise not appear in the transcript.
func WithEcho(echo bool) Option {
	return func(s *Shell) {
		s.echo = echo
	}
}

// New constructs a Shell reading from in and writing to out.
func New(engine *query.Engine, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		engine: engine,
		in:     bufio.NewReader(in),
		out:    out,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run shows the menu until the user exits, input ends, or ctx is cancelled.
// End of input is a normal exit and returns nil. Call Run once per Shell.
func (s *Shell) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	s.lines = s.startReader(done)

	for {
		fmt.Fprint(s.out, menuText)

		choice, err := s.prompt(ctx, promptChoice)
		if err != nil {
			return ignoreEOF(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = s.showByYear(ctx)
		case "2":
			err = s.searchByDate(ctx)
		case "3":
			err = s.searchByName(ctx)
		case "4":
			s.showAll()
		case "5":
			appLog.Debug("shell exit requested")
			return nil
		default:
			fmt.Fprintln(s.out, msgInvalidChoice)
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func (s *Shell) showByYear(ctx context.Context) error {
	input, err := s.prompt(ctx, promptYear)
	if err != nil {
		return err
	}

	year, err := query.ParseYear(input)
	if err != nil {
		fmt.Fprintln(s.out, msgInvalidYear)
		return nil
	}

	holidays, err := s.engine.ListByYear(year)
	if errors.Is(err, query.ErrYearNotFound) {
		fmt.Fprintln(s.out, msgInvalidYear)
		return nil
	}
	if len(holidays) == 0 {
		fmt.Fprintln(s.out, msgYearEmpty)
		return nil
	}

	fmt.Fprintf(s.out, headerYear, year)
	s.printAll(holidays)
	return nil
}

func (s *Shell) searchByDate(ctx context.Context) error {
	input, err := s.prompt(ctx, promptDate)
	if err != nil {
		return err
	}

	day, month, err := query.ParseDayMonth(input)
	if err != nil {
		fmt.Fprintln(s.out, msgBadDate)
		return nil
	}

	results := s.engine.FilterByDayMonth(day, month)
	if len(results) == 0 {
		fmt.Fprintln(s.out, msgNoDateMatch)
		return nil
	}

	fmt.Fprintf(s.out, headerDate, input)
	s.printAll(results)
	return nil
}

func (s *Shell) searchByName(ctx context.Context) error {
	input, err := s.prompt(ctx, promptName)
	if err != nil {
		return err
	}

	results, err := s.engine.FilterByNameSubstring(input)
	if errors.Is(err, query.ErrEmptyTerm) {
		fmt.Fprintln(s.out, msgEmptyTerm)
		return nil
	}
	if len(results) == 0 {
		fmt.Fprintln(s.out, msgNoNameMatch)
		return nil
	}

	fmt.Fprintf(s.out, headerSearch, input)
	s.printAll(results)
	return nil
}

func (s *Shell) showAll() {
	fmt.Fprint(s.out, headerAll)

	all := s.engine.ListAll()
	if len(all) == 0 {
		fmt.Fprintln(s.out, msgNothingLoaded)
		return
	}
	s.printAll(all)
}

func (s *Shell) printAll(holidays []model.Holiday) {
	for _, h := range holidays {
		fmt.Fprintln(s.out, query.FormatLine(h))
	}
}

// prompt writes label and waits for one line of input.
func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)

	line, err := s.readLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Finish the dangling prompt line.
			fmt.Fprintln(s.out)
		}
		return "", err
	}
	if s.echo {
		fmt.Fprintln(s.out, line)
	}
	return line, nil
}

// startReader reads input on its own goroutine so a blocked read does not
// keep Run from noticing ctx cancellation. Lines have no length limit.
// The goroutine stops at end of input or once done is closed.
func (s *Shell) startReader(done <-chan struct{}) chan lineResult {
	lines := make(chan lineResult)
	send := func(res lineResult) bool {
		select {
		case lines <- res:
			return true
		case <-done:
			return false
		}
	}

	go func() {
		defer close(lines)
		for {
			text, err := s.in.ReadString('\n')
			if text != "" && !send(lineResult{text: strings.TrimRight(text, "\r\n")}) {
				return
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					send(lineResult{err: err})
				}
				return
			}
		}
	}()
	return lines
}

func (s *Shell) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
