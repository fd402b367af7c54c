package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/kbukum/reststack/errors"
	"github.com/kbukum/reststack/rest"
)

// report prints the status line to stderr and the body to stdout, then maps
// the envelope to an exit code.
func report(cmd *cobra.Command, f *flags, res rest.Result, body string) error {
	printStatus(cmd.ErrOrStderr(), res, f.noColor)

	if res.Success && body != "" {
		out := body
		if f.query != "" {
			if !gjson.Valid(body) {
				return usageError(fmt.Errorf("--query needs a JSON response body"))
			}
			out = gjson.Get(body, f.query).String()
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
	}

	if code := exitCode(res); code != exitSuccess {
		return &exitError{code: code, err: res.Err}
	}
	return nil
}

func printStatus(w io.Writer, res rest.Result, noColor bool) {
	c := color.New(color.FgGreen, color.Bold)
	switch {
	case res.Success:
	case errors.IsProtocol(res.Err):
		c = color.New(color.FgRed, color.Bold)
	default:
		c = color.New(color.FgYellow, color.Bold)
	}
	if noColor {
		c.DisableColor()
	}
	_, _ = c.Fprintln(w, res.String())
}

func exitCode(res rest.Result) int {
	switch {
	case res.Success:
		return exitSuccess
	case errors.IsProtocol(res.Err):
		return exitProtocolFailure
	default:
		return exitTransportFailure
	}
}
