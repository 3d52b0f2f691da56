package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/stockroom/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected request (validation, unknown item, insufficient stock)
	ExitCommandError = 2 // Command error (bad config, database unavailable, write failed)
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric           = "E000" // Generic/unknown error
	ErrCodeValidation        = "E001" // Invalid input
	ErrCodeNotFound          = "E002" // Item not found
	ErrCodeInsufficientStock = "E003" // Sale exceeds stock
	ErrCodeStorage           = "E004" // Database read/write failed
	ErrCodeConfig            = "E005" // Config file unreadable or invalid
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set once the error has been written through an
	// OutputFormatter, so main does not print it a second time.
	Reported bool
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
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsReported reports whether err has already been shown to the user.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// configError marks failures loading or validating the config file.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// classify maps a domain error onto a CLI error code and exit code.
func classify(err error) (string, int) {
	var (
		cfgErr  *configError
		exitErr *ExitError
	)
	switch {
	case errors.As(err, &exitErr):
		return ErrCodeStorage, exitErr.Code
	case errors.As(err, &cfgErr):
		return ErrCodeConfig, ExitCommandError
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidDelta):
		return ErrCodeValidation, ExitFailure
	case errors.Is(err, model.ErrItemNotFound):
		return ErrCodeNotFound, ExitFailure
	case errors.Is(err, model.ErrInsufficientStock):
		return ErrCodeInsufficientStock, ExitFailure
	case errors.Is(err, model.ErrStorage):
		return ErrCodeStorage, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	Currency  string
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result. In JSON mode data is wrapped in the
// response envelope; otherwise text renders it.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	return text(f.Writer)
}

// Error outputs an error in the configured format.
// JSON errors go to Writer so scripts see one envelope; text errors go to
// the diagnostic stream.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)

	var details any
	var stockErr *model.StockError
	if errors.As(err, &stockErr) {
		details = map[string]any{
			"item_id":   stockErr.ItemID,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		}
	}

	_ = f.Error(code, err.Error(), details)
	return &ExitError{Code: exit, Message: code, Err: err, Reported: true}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Money formats an amount with the configured currency prefix.
func (f *OutputFormatter) Money(v float64) string {
	return fmt.Sprintf("%s%.2f", f.Currency, v)
}
