// Package ferat drives a full verification run: opening the QBF and
// expansion inputs, parsing both, and running the checker over the
// expansion clause stream.
package ferat

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ferat-verify/ferat/checker"
	"github.com/ferat-verify/ferat/expansion"
	"github.com/ferat-verify/ferat/qbf"
	"github.com/ferat-verify/ferat/reporter"
	"github.com/ferat-verify/ferat/scan"
)

// Options configures a verification run. The zero value is a reasonable
// default: a standard logger, origin maps honored, no scan limit.
type Options struct {
	// Silent suppresses all warning diagnostics.
	Silent bool
	// Logger receives structured warning output. Nil defaults to
	// logrus.StandardLogger().
	Logger logrus.FieldLogger
	// DisableOriginMap forces iterative candidate selection even when the
	// expansion file supplies a c o map.
	DisableOriginMap bool
	// MaxMatrixScan caps how many candidate QBF clauses iterative mode will
	// try per expansion clause before giving up; zero means unbounded.
	MaxMatrixScan int
}

// Verdict is the final, textual outcome of a verification run.
type Verdict string

const (
	Verified    Verdict = "VERIFIED"
	NotVerified Verdict = "NOT_VERIFIED"
)

// Verify parses qbfPath and expPath and checks the expansion against the
// QBF, returning the per-clause failure aggregator and the overall verdict.
// A non-nil error is a *reporter.FatalError, or ctx.Err() when ctx is
// cancelled during checking; the verdict and result are meaningful only
// when err is nil.
func Verify(ctx context.Context, qbfPath, expPath string, opts Options) (*checker.Result, Verdict, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := reporter.NewHandler(logger, opts.Silent)

	qbfFile, err := os.Open(qbfPath)
	if err != nil {
		return nil, "", reporter.Fatal(reporter.KindIO, scan.Position{}, fmt.Errorf("opening QBF file: %w", err))
	}
	defer qbfFile.Close()

	qbfReader, err := scan.NewReader(qbfFile)
	if err != nil {
		return nil, "", reporter.Fatal(reporter.KindIO, scan.Position{}, fmt.Errorf("reading QBF file: %w", err))
	}
	defer qbfReader.Close()

	qf, err := qbf.Parse(qbfReader, h)
	if err != nil {
		return nil, "", err
	}

	expFile, err := os.Open(expPath)
	if err != nil {
		return nil, "", reporter.Fatal(reporter.KindIO, scan.Position{}, fmt.Errorf("opening expansion file: %w", err))
	}
	defer expFile.Close()

	expReader, err := scan.NewReader(expFile)
	if err != nil {
		return nil, "", reporter.Fatal(reporter.KindIO, scan.Position{}, fmt.Errorf("reading expansion file: %w", err))
	}
	defer expReader.Close()

	exp, err := expansion.ParsePreamble(expReader, h)
	if err != nil {
		return nil, "", err
	}
	if opts.DisableOriginMap {
		exp.DropOrigins()
	}

	result, err := checker.Check(ctx, qf, exp, h, checker.Options{MaxMatrixScan: opts.MaxMatrixScan})
	if err != nil {
		return nil, "", err
	}

	verdict := Verified
	if !result.Valid() {
		verdict = NotVerified
	}
	return result, verdict, nil
}
