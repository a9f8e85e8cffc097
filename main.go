package main

import (
	"fmt"
	"os"

	"github.com/edelbluth/taskmill/cmd/cli"
	"github.com/edelbluth/taskmill/internal/taskrun"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the taskmill command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(taskrun.ExitCode(executionError))
	}
}
