package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/reststack/validation"
)

// Payload formats.
const (
	formatJSON = "json"
	formatXML  = "xml"
	formatYAML = "yaml"
	formatRaw  = "raw"
)

var formats = []string{formatJSON, formatXML, formatYAML, formatRaw}

// headerName matches an RFC 9110 field name token.
const headerName = "^[!#$%&'*+.^_`|~0-9A-Za-z-]+$"

// flags are shared by every request command.
type flags struct {
	endpoint   string
	configFile string
	format     string
	headers    []string
	timeout    time.Duration
	query      string
	noColor    bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "reststack",
		Short: "Call REST endpoints and print the response envelope",
		Long: `reststack sends one REST call and prints the outcome: the status line on
stderr and the decoded body on stdout.

Relative URIs resolve against --endpoint (or client.endpoint in the config
file). Absolute URIs may be used without an endpoint.

Examples:
  reststack get posts/1 --endpoint https://jsonplaceholder.typicode.com/
  reststack get https://jsonplaceholder.typicode.com/posts --query 0.title
  reststack post posts -d '{"title":"hello"}' --endpoint https://api.example.com/
  reststack get feed.xml --format xml --endpoint https://example.com/

Exit codes: 0 success, 1 non-2xx status, 2 usage, 3 configuration,
4 transport failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFlags(f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.endpoint, "endpoint", "e", "", "Base URI relative targets resolve against (env: RESTSTACK_CLIENT_ENDPOINT)")
	pf.StringVarP(&f.configFile, "config", "c", "", "Path to config file")
	pf.StringVarP(&f.format, "format", "f", formatJSON, "Payload format: json, xml, yaml, raw")
	pf.StringArrayVarP(&f.headers, "header", "H", nil, "Request header as key=value (repeatable)")
	pf.DurationVar(&f.timeout, "timeout", 0, "Per-call timeout (default 30s)")
	pf.StringVarP(&f.query, "query", "q", "", "gjson path applied to a JSON response body")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Log calls at debug level")

	root.AddCommand(
		newFetchCmd(f, http.MethodGet, "Fetch a resource and print its body"),
		newSendCmd(f, http.MethodPut, "Replace a resource with --data"),
		newSendCmd(f, http.MethodPost, "Submit --data to a resource"),
		newFetchCmd(f, http.MethodDelete, "Delete a resource"),
		newVersionCmd(),
	)
	return root
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}

	var ee *exitError
	if !stderrors.As(err, &ee) {
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsageError
	}
	// The envelope was already printed for call failures.
	if ee.code != exitProtocolFailure && ee.code != exitTransportFailure && ee.err != nil {
		fmt.Fprintln(stderr, "Error:", ee.err)
	}
	return ee.code
}

// checkFlags validates the flags shared by every request command.
func checkFlags(f *flags) error {
	v := validation.New().
		OneOf("format", f.format, formats).
		Custom(f.timeout >= 0, "timeout", "must not be negative")
	if f.endpoint != "" {
		v.AbsoluteURL("endpoint", f.endpoint)
	}
	if appErr := v.Validate(); appErr != nil {
		return usageError(appErr)
	}
	return nil
}

func usageError(err error) error {
	return &exitError{code: exitUsageError, err: err}
}

// parseHeader accepts "Key=Value" and "Key: Value".
func parseHeader(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if colon := strings.Index(s, ":"); colon >= 0 && (!ok || colon < len(k)) {
		k, v, ok = s[:colon], s[colon+1:], true
	}
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("invalid --header %q (want key=value)", s)
	}
	if appErr := validation.New().Pattern("header", k, headerName).Validate(); appErr != nil {
		return "", "", appErr
	}
	return k, strings.TrimSpace(v), nil
}
