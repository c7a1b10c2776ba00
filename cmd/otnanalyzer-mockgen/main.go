// Command otnanalyzer-mockgen writes a seeded test stream or gap list
//
//	otnanalyzer-mockgen -kind framed -frames 64 -jitter-prob 0.1 -jitter-max 200 -out capture.hex.s2
//	otnanalyzer-mockgen -gaps 50 -seed 9
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"otnanalyzer/internal/adapters/hexio"
	"otnanalyzer/internal/platform/config"
	"otnanalyzer/internal/platform/logger"
	mocksvc "otnanalyzer/internal/services/api/mock/service"
)

func main() {
	lo := logger.FromEnv()
	lo.Writer = os.Stderr
	lo.Component = "mockgen"
	logger.Init(lo)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("otnanalyzer-mockgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		fSeed    = fs.Uint64("seed", 0, "generator seed, 0 picks one (echoed on stderr)")
		fKind    = fs.String("kind", mocksvc.KindRandom, "random or framed")
		fMarker  = fs.String("marker", "", "marker hex, default f6f6f62828")
		fDigits  = fs.Int("digits", 1000, "digits for a random stream")
		fProb    = fs.Float64("insert-prob", 0.01, "marker insert probability for a random stream")
		fFrames  = fs.Int("frames", 8, "markers in a framed stream")
		fPeriod  = fs.Int("period", 16320, "frame period in bytes")
		fJProb   = fs.Float64("jitter-prob", 0, "chance a framed gap is off period")
		fJMax    = fs.Int("jitter-max", 0, "max jitter in bytes")
		fGaps    = fs.Int("gaps", 0, "write n mock gaps as JSON instead of a stream")
		fOut     = fs.String("out", "-", "output path, - for stdout; .gz and .s2 compress")
		fS2      = fs.Bool("s2", false, "s2 compress regardless of the output name")
		fNewline = fs.Bool("newline", true, "end a plain stream with a newline")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	svc := mocksvc.New(mocksvc.ConfigFromEnv(config.New().Prefix("CORE_MOCK_")))
	log := logger.Named("mockgen")

	w, closeOut, err := output(*fOut, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closeOut()

	if *fGaps > 0 {
		list, err := svc.Gaps(*fSeed, *fGaps, *fPeriod)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		log.Info().Uint64("seed", list.Seed).Int("gaps", len(list.Gaps)).Msg("gaps written")
		return 0
	}

	st, err := svc.Stream(mocksvc.StreamInput{
		Seed:           *fSeed,
		Kind:           *fKind,
		Marker:         *fMarker,
		Digits:         *fDigits,
		InsertProb:     *fProb,
		Frames:         *fFrames,
		PeriodBytes:    *fPeriod,
		JitterProb:     *fJProb,
		JitterMaxBytes: *fJMax,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	enc := hexio.FromPath(*fOut)
	if *fS2 {
		enc = hexio.S2
	}
	ew := hexio.NewWriter(w, enc)
	text := st.Stream
	if *fNewline && enc == hexio.Plain {
		text += "\n"
	}
	if _, err := io.WriteString(ew, text); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := ew.Close(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log.Info().
		Uint64("seed", st.Seed).
		Str("kind", st.Kind).
		Int("digits", st.Digits).
		Str("encoding", enc.String()).
		Msg("stream written")
	return 0
}

func output(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
