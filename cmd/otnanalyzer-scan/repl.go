package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"otnanalyzer/internal/core/mockgen"
	"otnanalyzer/internal/services/api/scan/domain"
	scansvc "otnanalyzer/internal/services/api/scan/service"

	"github.com/ergochat/readline"
)

const (
	hiOpen  = "\033[1;32m"
	hiClose = "\033[0m"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),

	readline.PcItem("scan"),
	readline.PcItem("mock"),
	readline.PcItem("chart"),
	readline.PcItem("gaps"),

	readline.PcItem("marker"),
	readline.PcItem("period"),
	readline.PcItem("tolerance"),
	readline.PcItem("mode", readline.PcItem("strict"), readline.PcItem("lenient")),
	readline.PcItem("matcher", readline.PcItem("automaton"), readline.PcItem("naive")),
	readline.PcItem("params"),

	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

const replHelp = `scan <hex>             scan a stream with the current settings
mock [frames] [jitter] generate a framed stream and scan it
gaps                   list the gaps of the last scan
chart <file.png>       write the last scan's gap chart
marker <hex>           set the marker ("" resets)
period <bytes>         set the expected period
tolerance <bytes>      set the tolerance
mode strict|lenient    set the sanitation policy
matcher automaton|naive
params                 show the current settings
exit                   leave`

func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

// REPL keeps scan settings and the last result between lines
type REPL struct {
	svc  *scansvc.Svc
	out  io.Writer
	gen  *mockgen.Generator
	in   domain.ScanInput
	last *domain.ScanResult

	// open and close wrap markers in previews
	open, close string
}

// NewREPL returns a prompt over svc writing to out
func NewREPL(svc *scansvc.Svc, out io.Writer, seed uint64) *REPL {
	no := false
	return &REPL{
		svc:  svc,
		out:  out,
		gen:  mockgen.New(seed),
		in:   domain.ScanInput{Persist: &no},
		open: "[", close: "]",
	}
}

// errQuit ends the loop without an error exit
var errQuit = errors.New("quit")

// Exec runs one command line
func (r *REPL) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
	case "exit", "quit":
		return errQuit
	case "scan":
		return r.scan(ctx, arg)
	case "mock":
		return r.mock(ctx, arg)
	case "gaps":
		return r.gaps()
	case "chart":
		return r.chart(arg)
	case "marker":
		r.in.Marker = strings.Trim(arg, `"`)
	case "period":
		v, err := parseBytes("period", arg)
		if err != nil {
			return err
		}
		r.in.ExpectedPeriodBytes = &v
	case "tolerance":
		v, err := parseBytes("tolerance", arg)
		if err != nil {
			return err
		}
		r.in.ToleranceBytes = &v
	case "mode":
		r.in.Mode = arg
	case "matcher":
		r.in.Matcher = arg
	case "params":
		r.params()
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func parseBytes(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s wants a number of bytes, got %q", name, s)
	}
	return v, nil
}

func (r *REPL) scan(ctx context.Context, stream string) error {
	in := r.in
	in.Stream = stream
	res, err := r.svc.Scan(ctx, in)
	if err != nil {
		return err
	}
	r.last = &res
	printResult(r.out, res, r.open, r.close)
	return nil
}

// mock builds a framed stream with the current marker and period, then scans it
func (r *REPL) mock(ctx context.Context, arg string) error {
	info := r.svc.Info()
	fs := mockgen.DefaultFrameSpec(4)
	fs.Marker = info.Params.Marker
	if r.in.Marker != "" {
		fs.Marker = strings.ToLower(r.in.Marker)
	}
	fs.PeriodBytes = int(info.Params.ExpectedPeriodBytes)
	if r.in.ExpectedPeriodBytes != nil {
		fs.PeriodBytes = int(*r.in.ExpectedPeriodBytes)
	}

	fields := strings.Fields(arg)
	if len(fields) > 0 {
		n, err := strconv.Atoi(fields[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("frames wants a positive count, got %q", fields[0])
		}
		fs.Frames = n
	}
	if len(fields) > 1 {
		p, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || p < 0 || p > 1 {
			return fmt.Errorf("jitter wants a probability in [0, 1], got %q", fields[1])
		}
		fs.JitterProb = p
		fs.JitterMaxBytes = max(fs.PeriodBytes/40, 1)
	}
	return r.scan(ctx, r.gen.FramedStream(fs))
}

func (r *REPL) gaps() error {
	if r.last == nil {
		return errors.New("nothing scanned yet")
	}
	if len(r.last.Gaps) == 0 {
		fmt.Fprintln(r.out, "no gaps")
		return nil
	}
	for _, g := range r.last.Gaps {
		fmt.Fprintf(r.out, "#%d %d -> %d  %.1f bytes  expected=%t\n",
			g.Sequence, g.PrevIndex, g.Index, g.RawByteDistance, g.Expected)
	}
	return nil
}

func (r *REPL) chart(path string) error {
	if r.last == nil {
		return errors.New("nothing scanned yet")
	}
	if path == "" {
		return errors.New("chart wants an output path")
	}
	if err := writeChart(path, *r.last); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "wrote %s\n", path)
	return nil
}

func (r *REPL) params() {
	info := r.svc.Info()
	marker, period, tol := info.Params.Marker, info.Params.ExpectedPeriodBytes, info.Params.ToleranceBytes
	if r.in.Marker != "" {
		marker = r.in.Marker
	}
	if r.in.ExpectedPeriodBytes != nil {
		period = *r.in.ExpectedPeriodBytes
	}
	if r.in.ToleranceBytes != nil {
		tol = *r.in.ToleranceBytes
	}
	mode, matcher := info.Mode, info.Matcher
	if r.in.Mode != "" {
		mode = r.in.Mode
	}
	if r.in.Matcher != "" {
		matcher = r.in.Matcher
	}
	fmt.Fprintf(r.out, "marker=%s period=%g tolerance=%g mode=%s matcher=%s\n", marker, period, tol, mode, matcher)
}

// Loop reads lines until exit, EOF or ctx is done
func (r *REPL) Loop(ctx context.Context, rl *readline.Instance) error {
	for ctx.Err() == nil {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		if err := r.Exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(r.out, "error:", err)
		}
	}
	return nil
}

func runREPL(ctx context.Context, stdout io.Writer) int {
	svc, err := newService()
	if err != nil {
		fmt.Fprintln(stdout, err)
		return exitErr
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "otn> ",
		HistoryFile:     ".otnanalyzer_history",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		fmt.Fprintln(stdout, err)
		return exitErr
	}
	defer rl.Close()

	repl := NewREPL(svc, stdout, 1)
	repl.open, repl.close = hiOpen, hiClose
	fmt.Fprintln(repl.out, "type help for commands")
	if err := repl.Loop(ctx, rl); err != nil {
		fmt.Fprintln(stdout, err)
		return exitErr
	}
	return exitOK
}
