package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ferat-verify/ferat"
	"github.com/ferat-verify/ferat/reporter"
)

// exitCode is set by runVerify and read by main after Execute returns, so a
// clean VERIFIED/NOT VERIFIED outcome can carry its spec-mandated exit code
// without cobra treating it as a command error.
var exitCode int

func runVerify(cmd *cobra.Command, args []string) error {
	qbfPath, expPath := args[0], args[1]
	logger := logrus.StandardLogger()
	if silent {
		logger.SetLevel(logrus.ErrorLevel)
	}

	start := time.Now()
	if !jsonOutput {
		fmt.Printf("c checking %s against %s\n", expPath, qbfPath)
	}

	opts := ferat.Options{
		Silent:           silent,
		Logger:           logger,
		DisableOriginMap: noOriginMap,
		MaxMatrixScan:    maxScan,
	}

	result, verdict, err := ferat.Verify(context.Background(), qbfPath, expPath, opts)
	if err != nil {
		cmd.SilenceErrors = true
		var fe *reporter.FatalError
		if errors.As(err, &fe) {
			fmt.Printf("c fatal: %s\n", fe)
			exitCode = exitCodeForKind(fe.Kind())
			return nil
		}
		fmt.Printf("c fatal: %s\n", err)
		exitCode = 1
		return nil
	}

	if !jsonOutput {
		fmt.Printf("c checked in %s\n", time.Since(start))
	}

	if jsonOutput {
		b, merr := result.MarshalJSON()
		if merr != nil {
			exitCode = 1
			return merr
		}
		fmt.Println(string(b))
	} else if werr := result.WriteText(os.Stdout); werr != nil {
		exitCode = 1
		return werr
	}

	if verdict == ferat.Verified {
		exitCode = 10
	} else {
		exitCode = 20
	}
	return nil
}

func exitCodeForKind(k reporter.Kind) int {
	switch k {
	case reporter.KindIO:
		return 1
	case reporter.KindSyntax, reporter.KindOriginBounds:
		return 80
	default:
		return 1
	}
}
