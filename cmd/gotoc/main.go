// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gotoc/internal/driver"
	"gotoc/internal/errors"
	"gotoc/internal/gotoprog"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// verbosity counts repeated -v flags.
type verbosity int

func (v *verbosity) String() string { return strconv.Itoa(int(*v)) }

func (v *verbosity) Set(string) error {
	*v++
	return nil
}

func (v *verbosity) IsBoolFlag() bool { return true }

func main() {
	var verbose verbosity
	flag.Var(&verbose, "v", "Increase log verbosity (repeatable)")
	logPath := flag.String("log", "", "Write the log to this file instead of stderr")
	entry := flag.String("entry", "", "Comma-separated functions to start collection from")
	noContracts := flag.Bool("no-contracts", false, "Leave contract clauses out of the output")
	symtab := flag.Bool("symtab", false, "Print the symbol summary instead of function bodies")
	recursionLimit := flag.Int("recursion-limit", driver.DefaultRecursionLimit, "Maximum nesting of one generic function's instances")
	typeLengthLimit := flag.Int("type-length-limit", driver.DefaultTypeLengthLimit, "Maximum size of an instance's type arguments")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("gotoc version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gotoc [options] <file.mir>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *logPath != "" {
		commonlog.Configure(int(verbose), logPath)
	} else {
		commonlog.Configure(int(verbose), nil)
	}

	startTime := time.Now()
	path := args[0]

	crate, source, errs := driver.LoadFile(path)
	errorReporter := errors.NewErrorReporter(path, source)
	if len(errs) > 0 {
		fail(errorReporter, errs, startTime)
	}

	opts := driver.Options{
		SkipContracts:   *noContracts,
		RecursionLimit:  *recursionLimit,
		TypeLengthLimit: *typeLengthLimit,
	}
	if *entry != "" {
		opts.Entry = strings.Split(*entry, ",")
	}

	result, err := driver.Compile(crate, opts)
	if err != nil {
		if list, ok := err.(errors.List); ok {
			fail(errorReporter, list, startTime)
		}
		fmt.Fprintf(os.Stderr, "compilation failed: %v\n", err)
		os.Exit(1)
	}

	if *symtab {
		fmt.Print(gotoprog.PrintSymbols(result.SymbolTable))
	} else {
		fmt.Print(gotoprog.Print(result.SymbolTable))
	}

	color.Green("Successfully translated %d functions of %s in %s", len(result.Instances), path, formatDuration(time.Since(startTime)))
}

func fail(reporter *errors.ErrorReporter, errs errors.List, startTime time.Time) {
	fmt.Print(reporter.FormatErrors(errs))
	color.Red("Compilation failed after %s", formatDuration(time.Since(startTime)))
	os.Exit(1)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
