package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"otnanalyzer/internal/adapters/gapchart"
	"otnanalyzer/internal/adapters/hexio"
	"otnanalyzer/internal/core/version"
	"otnanalyzer/internal/platform/config"
	"otnanalyzer/internal/platform/logger"
	"otnanalyzer/internal/services/api/scan/domain"
	scansvc "otnanalyzer/internal/services/api/scan/service"
)

const (
	exitOK    = 0
	exitErr   = 1
	exitUsage = 2
)

// newService builds an in memory scan service from CORE_SCAN_*; nothing is persisted
func newService() (*scansvc.Svc, error) {
	cfg, err := scansvc.ConfigFromEnv(config.New().Prefix("CORE_SCAN_"))
	if err != nil {
		return nil, err
	}
	cfg.Persist = false
	cfg.MemoryCap = 1
	return scansvc.New(cfg, nil, nil)
}

type scanFlags struct {
	marker    string
	period    float64
	tolerance float64
	matcher   string
	lenient   bool
	s2        bool
	gzip      bool
	asJSON    bool
	chart     string
	preview   int
	maxBytes  int64
	version   bool
}

func parseScanFlags(args []string, stderr io.Writer) (scanFlags, *flag.FlagSet, error) {
	var f scanFlags
	fs := flag.NewFlagSet("otnanalyzer-scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.marker, "marker", "", "marker hex, default from CORE_SCAN_MARKER")
	fs.Float64Var(&f.period, "period", 0, "expected period in bytes")
	fs.Float64Var(&f.tolerance, "tolerance", 0, "tolerance in bytes, strict")
	fs.StringVar(&f.matcher, "matcher", "", "automaton or naive")
	fs.BoolVar(&f.lenient, "lenient", false, "drop non hex characters instead of failing")
	fs.BoolVar(&f.s2, "s2", false, "input is s2 (snappy framed) compressed")
	fs.BoolVar(&f.gzip, "gzip", false, "input is gzip compressed")
	fs.BoolVar(&f.asJSON, "json", false, "print the full result as JSON")
	fs.StringVar(&f.chart, "chart", "", "write a PNG gap chart to this path")
	fs.IntVar(&f.preview, "preview", 0, "preview digits")
	fs.Int64Var(&f.maxBytes, "max-bytes", 64<<20, "max decoded input bytes, 0 for no limit")
	fs.BoolVar(&f.version, "version", false, "print the build stamp and exit")
	err := fs.Parse(args)
	return f, fs, err
}

// input converts flags into a scan request; thresholds are only sent when given
func (f scanFlags) input(fs *flag.FlagSet, stream string) domain.ScanInput {
	no := false
	in := domain.ScanInput{
		Stream:        stream,
		Marker:        f.marker,
		Matcher:       f.matcher,
		Persist:       &no,
		PreviewDigits: f.preview,
	}
	if f.lenient {
		in.Mode = "lenient"
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "period":
			in.ExpectedPeriodBytes = &f.period
		case "tolerance":
			in.ToleranceBytes = &f.tolerance
		}
	})
	return in
}

func (f scanFlags) encoding(path string) hexio.Encoding {
	switch {
	case f.s2:
		return hexio.S2
	case f.gzip:
		return hexio.Gzip
	}
	return hexio.FromPath(path)
}

func runScan(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, fs, err := parseScanFlags(args, stderr)
	if err != nil {
		return exitUsage
	}
	if f.version {
		fmt.Fprintln(stdout, version.Info("otnanalyzer-scan").String())
		return exitOK
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "at most one input file")
		return exitUsage
	}

	path := fs.Arg(0)
	r := stdin
	if path != "" && path != "-" {
		file, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitErr
		}
		defer file.Close()
		r = file
	}

	text, err := hexio.ReadAll(r, f.encoding(path), f.maxBytes)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitErr
	}

	svc, err := newService()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitErr
	}
	res, err := svc.Scan(ctx, f.input(fs, text))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitErr
	}

	if f.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintln(stderr, err)
			return exitErr
		}
	} else {
		printResult(stdout, res, "[", "]")
	}

	if f.chart != "" {
		if err := writeChart(f.chart, res); err != nil {
			fmt.Fprintln(stderr, err)
			return exitErr
		}
		logger.Named("scan-cli").Info().Str("path", f.chart).Int("gaps", len(res.Gaps)).Msg("chart written")
	}
	return exitOK
}

func writeChart(path string, res domain.ScanResult) error {
	png, err := gapchart.PNG(res.Gaps, gapchart.Options{
		Title:       fmt.Sprintf("gaps for %s", res.Params.Marker),
		PeriodBytes: res.Params.ExpectedPeriodBytes,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}

// printResult writes the human report; open and close wrap markers in the preview
func printResult(w io.Writer, res domain.ScanResult, open, close string) {
	p := res.Params
	fmt.Fprintf(w, "marker %s  period %g bytes  tolerance %g bytes  matcher %s  mode %s\n",
		p.Marker, p.ExpectedPeriodBytes, p.ToleranceBytes, res.Matcher, res.Mode)
	fmt.Fprintf(w, "stream %d digits, %d occurrences, %d gaps\n",
		res.StreamDigits, res.Occurrences, len(res.Gaps))
	for _, g := range res.Gaps {
		verdict := "expected"
		if !g.Expected {
			verdict = "UNEXPECTED"
		}
		fmt.Fprintf(w, "  #%-4d at %-10d %8d bytes  %s\n", g.Sequence, g.Index, g.ByteDistance, verdict)
	}
	s := res.Summary
	if s.Gaps > 0 {
		fmt.Fprintf(w, "summary: %d expected, %d unexpected, mean %.1f bytes, min %d, max %d, %.1f%% on period\n",
			s.Expected, s.Unexpected, s.MeanByteDistance, s.MinByteDistance, s.MaxByteDistance, 100*s.ExpectedRatio)
	}
	for m, gaps := range res.Extra {
		fmt.Fprintf(w, "extra marker %s: %d gaps\n", m, len(gaps))
	}
	fmt.Fprintf(w, "frame: %s (run %d, transitions %d)\n", res.Frame.State, res.Frame.Run, res.Frame.Transitions)
	if res.StreamDigits > 0 {
		fmt.Fprintf(w, "preview: %s\n", res.Preview.String(open, close))
	}
}
