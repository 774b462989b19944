package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/restfire/packages/assertions"
	"github.com/abdul-hamid-achik/restfire/packages/fire"
	"github.com/abdul-hamid-achik/restfire/packages/match"
	"github.com/abdul-hamid-achik/restfire/packages/output"
	"github.com/abdul-hamid-achik/restfire/packages/snapshot"
	"github.com/spf13/cobra"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *output.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

type checkOptions struct {
	global  *globalOptions
	request requestOptions

	status      int
	headers     []string
	body        string
	contains    []string
	matches     []string
	jsonPaths   []string
	jsonExists  []string
	jsonEqual   string
	schema      string
	maxTime     time.Duration
	snapshot    string
	snapshotDir string
	update      bool

	output     string
	outputFile string
}

func newCheckCmd(g *globalOptions) *cobra.Command {
	o := &checkOptions{global: g}
	cmd := &cobra.Command{
		Use:   "check [url...]",
		Short: "Send requests and check the responses",
		Long: `Send a request to each URL and check the response. Without --status
any 2xx status passes. The first failed expectation of a check is
reported.

With no URL the configured base URL is checked.

Examples:
  restfire check http://localhost:8080/health
  restfire check https://api.example.com/users/1 --status 200 --json '$.id=1'
  restfire check /orders -X POST -d '{"qty": 2}' -H 'Content-Type: application/json' --status 201
  restfire check /users --schema users.schema.json --max-time 300ms -o junit --output-file report.xml
  restfire check /users/1 --snapshot user --update-snapshots`,
		RunE: o.run,
	}

	o.request.register(cmd)

	flags := cmd.Flags()
	flags.IntVarP(&o.status, "status", "s", 0, "Expected status code (default: any 2xx)")
	flags.StringArrayVar(&o.headers, "expect-header", nil, `Expected response header "Name: value" (repeatable)`)
	flags.StringVar(&o.body, "body", "", "Expected exact response body")
	flags.StringArrayVar(&o.contains, "contains", nil, "Text the body must contain (repeatable)")
	flags.StringArrayVar(&o.matches, "matches", nil, "Regular expression the body must match (repeatable)")
	flags.StringArrayVar(&o.jsonPaths, "json", nil, `JSON path check "path=value", value parsed as JSON when possible (repeatable)`)
	flags.StringArrayVar(&o.jsonExists, "json-exists", nil, "JSON path that must exist (repeatable)")
	flags.StringVar(&o.jsonEqual, "json-equal", "", "JSON document the body must equal, ignoring formatting and key order")
	flags.StringVar(&o.schema, "schema", "", "JSON schema file the body must satisfy")
	flags.DurationVar(&o.maxTime, "max-time", 0, "Maximum response time (e.g., 300ms)")
	flags.StringVar(&o.snapshot, "snapshot", "", "Compare the body with the snapshot stored under this name")
	flags.StringVar(&o.snapshotDir, "snapshot-dir", ".", "Directory holding __snapshots__")
	flags.BoolVar(&o.update, "update-snapshots", false, "Write snapshots instead of comparing (env: RESTFIRE_UPDATE_SNAPSHOTS)")
	flags.StringVarP(&o.output, "output", "o", getEnvString("RESTFIRE_OUTPUT", "console"), "Output format: console, json, junit, tap (env: RESTFIRE_OUTPUT)")
	flags.StringVar(&o.outputFile, "output-file", getEnvString("RESTFIRE_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: RESTFIRE_OUTPUT_FILE)")

	return cmd
}

func (o *checkOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.global.loadConfig(cmd)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	addresses := args
	if len(addresses) == 0 {
		if cfg.BaseURL == "" {
			return &ExitError{Code: ExitUsageError, Err: fmt.Errorf("no URL given and no baseURL configured")}
		}
		addresses = []string{""}
	}

	var writer io.Writer = cmd.OutOrStdout()
	if o.outputFile != "" {
		f, err := os.Create(o.outputFile)
		if err != nil {
			return &ExitError{Code: ExitConfigError, Err: fmt.Errorf("cannot create output file: %w", err)}
		}
		defer f.Close()
		writer = f
	}

	formatter, err := o.formatter(writer, cfg.GetNoColor(), cfg.GetVerbose())
	if err != nil {
		return &ExitError{Code: ExitUsageError, Err: err}
	}
	formatter.FormatHeader(version)

	expect, err := o.expectations()
	if err != nil {
		formatter.FormatError(err)
		return &ExitError{Code: ExitUsageError, Err: err}
	}

	start := time.Now()
	result := &output.RunResult{}
	for _, address := range addresses {
		f, err := o.request.client(cfg, address)
		if err != nil {
			formatter.FormatError(err)
			return &ExitError{Code: ExitConfigError, Err: err}
		}
		result.Add(runCheck(f, address, expect))
	}
	result.Duration = time.Since(start)

	formatter.FormatResult(result)
	if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(result.Duration); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	switch {
	case result.Errors > 0:
		return &ExitError{Code: ExitNetworkError}
	case result.Failed > 0:
		return &ExitError{Code: ExitTestFailure}
	}
	return nil
}

func (o *checkOptions) formatter(w io.Writer, noColor, verbose bool) (Formatter, error) {
	switch strings.ToLower(o.output) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w)), nil
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w)), nil
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w)), nil
	case "console", "":
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithNoColor(noColor),
			output.WithVerbose(verbose),
		), nil
	}
	return nil, fmt.Errorf("unknown output format: %s", o.output)
}

// expectation is one check run against the response.
type expectation func(v *assertions.Validator)

// expectations turns the expectation flags into checks, in a fixed order:
// status, headers, body, JSON, schema, timing, snapshot.
func (o *checkOptions) expectations() ([]expectation, error) {
	var checks []expectation

	if o.status > 0 {
		status := o.status
		checks = append(checks, func(v *assertions.Validator) { v.HavingStatusEqualTo(status) })
	} else {
		checks = append(checks, func(v *assertions.Validator) { v.HavingStatus(match.Between(200, 299)) })
	}

	for _, h := range o.headers {
		name, value, err := splitHeader(h)
		if err != nil {
			return nil, err
		}
		checks = append(checks, func(v *assertions.Validator) { v.HavingHeaderEqualTo(name, value) })
	}

	if o.body != "" {
		body := o.body
		checks = append(checks, func(v *assertions.Validator) { v.HavingBodyEqualTo(body) })
	}
	for _, s := range o.contains {
		m := match.Contains(s)
		checks = append(checks, func(v *assertions.Validator) { v.HavingBody(m) })
	}
	for _, p := range o.matches {
		m := match.MatchesRegexp(p)
		checks = append(checks, func(v *assertions.Validator) { v.HavingBody(m) })
	}

	for _, jp := range o.jsonPaths {
		m, err := parseJSONExpectation(jp)
		if err != nil {
			return nil, err
		}
		checks = append(checks, func(v *assertions.Validator) { v.HavingBody(m) })
	}
	for _, path := range o.jsonExists {
		m := match.JSONPathExists(path)
		checks = append(checks, func(v *assertions.Validator) { v.HavingBody(m) })
	}
	if o.jsonEqual != "" {
		m := match.JSONEqual(o.jsonEqual)
		checks = append(checks, func(v *assertions.Validator) { v.HavingBody(m) })
	}

	if o.schema != "" {
		m := match.JSONSchemaFile(o.schema)
		checks = append(checks, func(v *assertions.Validator) { v.HavingBody(m) })
	}

	if o.maxTime > 0 {
		m := match.LessOrEqual(o.maxTime.Milliseconds())
		checks = append(checks, func(v *assertions.Validator) { v.HavingResponseTimeInMillis(m) })
	}

	if o.snapshot != "" {
		manager := snapshot.NewManager(o.snapshotDir, "restfire", o.update || snapshot.UpdateRequested())
		m := manager.Matches(o.snapshot)
		checks = append(checks, func(v *assertions.Validator) { v.HavingBody(m) })
	}

	return checks, nil
}

// parseJSONExpectation reads "path=value". The value is decoded as JSON
// when it is valid JSON and taken as a string otherwise.
func parseJSONExpectation(s string) (match.Matcher[string], error) {
	path, raw, ok := strings.Cut(s, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return nil, fmt.Errorf("invalid --json %q: expected path=value", s)
	}

	var expected any
	if err := json.Unmarshal([]byte(raw), &expected); err != nil {
		expected = raw
	}
	return match.JSONPath(path, match.Value(expected)), nil
}

// runCheck sends one request from f and applies every expectation. A
// request that cannot be built or sent is reported as an error rather
// than a failed expectation.
func runCheck(f *fire.Fire, address string, expect []expectation) output.CheckResult {
	var (
		result   output.CheckResult
		received bool
	)
	result.Name = address

	err := fire.Check(func(t fire.TestingT) {
		req := f.Request(t)
		result.Method = req.Target().Method()
		result.URL = req.Target().URI()
		result.Name = result.Method + " " + result.URL

		v := req.ExpectResponse()
		received = true
		result.StatusCode = v.Response().StatusCode
		result.Duration = v.Response().Duration

		for _, check := range expect {
			check(v)
		}
	})

	if err == nil {
		result.Passed = true
		return result
	}

	reason := failureReason(err)
	if received {
		result.Failure = reason
	} else {
		result.Error = errors.New(strings.Join(strings.Fields(reason), " "))
	}
	return result
}

// failureReason strips the testify trace from a captured failure.
func failureReason(err error) string {
	var failure *assertions.Failure
	if errors.As(err, &failure) {
		return failure.Summary()
	}
	return err.Error()
}
