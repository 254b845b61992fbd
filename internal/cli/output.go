package cli

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/roach88/stingeripc/internal/loader"
	"github.com/roach88/stingeripc/internal/stinger"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure (invalid interface documents)
	ExitCommandError = 2 // Command error (bad paths, unreadable files, database errors)
)

// ExitError is an error that carries a process exit code. Commands return
// it after they have already reported the failure on their writer.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string
	Err     error // optional
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose/diagnostic output, defaults to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Issue is one reported problem with a document.
type Issue struct {
	Code     string `json:"code"`
	Path     string `json:"path,omitempty"`     // dotted location inside the document
	Message  string `json:"message"`
	Location string `json:"location,omitempty"` // file or file:line:col
}

func newFormatter(opts *RootOptions, w, errW io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    w,
		ErrWriter: errW,
		Verbose:   opts.Verbose,
	}
}

// JSON reports whether output is JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.JSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Issues outputs a list of document problems under a headline. In JSON the
// first issue is the envelope error and data holds them all, along with
// extra when it is non-nil.
func (f *OutputFormatter) Issues(headline string, issues []Issue, extra any) error {
	if f.JSON() {
		var data any = issues
		if extra != nil {
			data = extra
		}
		return f.encode(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: issues[0].Code, Message: issues[0].Message},
		})
	}

	fmt.Fprintf(f.Writer, "✗ %s\n\n", headline)
	for _, is := range issues {
		if is.Location != "" {
			fmt.Fprintln(f.Writer, is.Location)
		}
		if is.Path != "" {
			fmt.Fprintf(f.Writer, "  %s %s: %s\n\n", is.Code, is.Path, is.Message)
		} else {
			fmt.Fprintf(f.Writer, "  %s: %s\n\n", is.Code, is.Message)
		}
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled. It goes to
// ErrWriter so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// issueOf converts a loader, structure or plain error into an Issue.
func issueOf(err error) Issue {
	var se *stinger.StructureError
	if errors.As(err, &se) {
		is := Issue{Code: string(se.Code), Path: se.Path, Message: se.Message}
		if se.Pos.IsValid() {
			is.Location = fmt.Sprintf("%s:%d:%d", se.Pos.Filename(), se.Pos.Line(), se.Pos.Column())
		}
		return is
	}
	var le *loader.LoadError
	if errors.As(err, &le) {
		is := Issue{Code: le.Code, Message: le.Message, Location: le.Path}
		if le.Pos.IsValid() {
			is.Location = fmt.Sprintf("%s:%d:%d", le.Pos.Filename(), le.Pos.Line(), le.Pos.Column())
		}
		return is
	}
	return Issue{Code: loader.ErrCodeGeneric, Message: err.Error()}
}

func issuesOf(errs []error) []Issue {
	issues := make([]Issue, 0, len(errs))
	for _, err := range errs {
		issues = append(issues, issueOf(err))
	}
	return issues
}

// isCommandError reports whether err means the command could not run at
// all, as opposed to a document being invalid.
func isCommandError(err error) bool {
	var le *loader.LoadError
	if !errors.As(err, &le) {
		return false
	}
	switch le.Code {
	case loader.ErrCodeNotFound, loader.ErrCodeNoFiles, loader.ErrCodeScanError, loader.ErrCodeWriteFailed:
		return true
	}
	return false
}

// reportLoadErrors prints load errors and returns the matching ExitError.
func reportLoadErrors(f *OutputFormatter, headline string, errs []error) error {
	if len(errs) == 1 && isCommandError(errs[0]) {
		is := issueOf(errs[0])
		_ = f.Error(is.Code, is.Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", is.Code, is.Message))
	}
	if err := f.Issues(headline, issuesOf(errs), nil); err != nil {
		return err
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("%s with %d error(s)", headline, len(errs)))
}
