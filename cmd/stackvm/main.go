// Command stackvm loads one or more program files, concatenates them in
// argument order, and either runs them to completion or drops into the
// single-step debugger. Recovers from otherwise-fatal panics and reports
// the interpreter's own error rather than a Go stack trace.
package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/ktstephano/rendezvm/vm"
)

var (
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "enter single-step debug mode instead of running to completion",
	}
	traceFlag = cli.BoolFlag{
		Name:  "trace",
		Usage: "emit a per-instruction trace to stderr",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "stackvm"
	app.Usage = "assemble and run stack-machine programs"
	app.ArgsUsage = "<file 1> [file 2] ... [file N]"
	app.Flags = []cli.Flag{debugFlag, traceFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	files := ctx.Args()
	if len(files) == 0 {
		return cli.NewExitError("usage: stackvm [--debug] [--trace] <file 1> [file 2] ... [file N]", 1)
	}

	source, err := readAll(files)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	var opts []vm.Option
	if ctx.Bool("trace") {
		opts = append(opts, vm.WithTrace(os.Stderr))
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "panic:", r)
			os.Exit(1)
		}
	}()

	if ctx.Bool("debug") {
		return runDebug(source, opts)
	}

	result, err := vm.Interpret(source, opts...)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(result)
	return nil
}

func runDebug(source string, opts []vm.Option) error {
	program, errs := vm.Load(source)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return cli.NewExitError(strings.Join(msgs, "\n"), 1)
	}

	root := vm.NewRootWorker(program, os.Stdout)
	for _, opt := range opts {
		opt(root)
	}

	if err := root.DebugRun(os.Stdin, os.Stdout); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	if v, ok := root.ReturnValue(); ok {
		fmt.Println(v)
	}
	return nil
}

func readAll(paths []string) (string, error) {
	var b strings.Builder
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("could not read %s: %w", path, err)
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
