package prompty

import (
	"errors"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
)

// Error code constants for the fragment-composition error taxonomy.
const (
	ErrCodeFragment = "PROMPTY_FRAGMENT"
	ErrCodeSlug     = "PROMPTY_SLUG"
	ErrCodeCycle    = "PROMPTY_CYCLE"
	ErrCodeArgument = "PROMPTY_ARGUMENT"
	ErrCodeIO       = "PROMPTY_IO"
)

// Error message constants for the fragment-composition error taxonomy.
const (
	ErrMsgMissingFragment            = "fragment not found"
	ErrMsgMissingArgument            = "missing required argument"
	ErrMsgUnboundVariable            = "unbound variable"
	ErrMsgCycleDetected              = "cyclic fragment reference"
	ErrMsgFragmentIO                 = "fragment file I/O failed"
	ErrMsgInvalidSlug                = "invalid fragment slug"
	ErrMsgReferenceSyntax            = "fragment reference syntax error"
	ErrMsgTooManyPositionalArguments = "too many positional arguments"
)

// Frontmatter keys for a fragment's argument declaration table.
const (
	MetaKeyArguments  = "arguments"
	MetaKeyArgsLegacy = "args"
)

// Metadata keys specific to fragment resolution diagnostics.
const (
	MetaKeySlug          = "slug"
	MetaKeyCallerFile    = "caller_file"
	MetaKeyCallerLine    = "caller_line"
	MetaKeySearchedPaths = "searched_paths"
	MetaKeyChain         = "chain"
	MetaKeyFragment      = "fragment"
	MetaKeyArgument      = "argument"
	MetaKeySnippet       = "snippet"
	MetaKeyDeclaredCount = "declared_count"
	MetaKeyProvidedCount = "provided_count"
)

// MissingFragmentError is raised when C1 cannot locate a slug across any
// search root. It carries the full list of probed paths for diagnostics.
type MissingFragmentError struct {
	Slug           string
	CallerFile     string
	CallerLine     int
	SearchedPaths  []string
	cause          *cuserr.CustomError
}

// NewMissingFragmentError creates a MissingFragmentError with the probed paths.
func NewMissingFragmentError(slug, callerFile string, callerLine int, searched []string) error {
	cu := cuserr.NewNotFoundError(ErrCodeFragment, ErrMsgMissingFragment).
		WithMetadata(MetaKeySlug, slug).
		WithMetadata(MetaKeyCallerFile, callerFile).
		WithMetadata(MetaKeyCallerLine, strconv.Itoa(callerLine)).
		WithMetadata(MetaKeySearchedPaths, strings.Join(searched, ";"))
	return &MissingFragmentError{
		Slug:          slug,
		CallerFile:    callerFile,
		CallerLine:    callerLine,
		SearchedPaths: searched,
		cause:         cu,
	}
}

func (e *MissingFragmentError) Error() string {
	return e.cause.Error()
}

func (e *MissingFragmentError) Unwrap() error {
	return e.cause
}

// CycleError is raised when C5 finds the slug it is about to resolve
// already on the resolution stack. Chain is in stack order, from the
// originating caller to the slug that closed the cycle.
type CycleError struct {
	Chain []string
	cause *cuserr.CustomError
}

// NewCycleError creates a CycleError for the given resolution stack chain.
func NewCycleError(chain []string) error {
	cu := cuserr.NewValidationError(ErrCodeCycle, ErrMsgCycleDetected).
		WithMetadata(MetaKeyChain, strings.Join(chain, " -> "))
	return &CycleError{Chain: chain, cause: cu}
}

func (e *CycleError) Error() string {
	return e.cause.Error()
}

func (e *CycleError) Unwrap() error {
	return e.cause
}

// MissingArgumentError is raised when C5 cannot bind a declared required
// argument (no caller-supplied value and no non-null default).
type MissingArgumentError struct {
	Name       string
	Fragment   string
	CallerFile string
	CallerLine int
	cause      *cuserr.CustomError
}

// NewMissingArgumentError creates a MissingArgumentError.
func NewMissingArgumentError(name, fragment, callerFile string, callerLine int) error {
	cu := cuserr.NewValidationError(ErrCodeArgument, ErrMsgMissingArgument).
		WithMetadata(MetaKeyArgument, name).
		WithMetadata(MetaKeyFragment, fragment).
		WithMetadata(MetaKeyCallerFile, callerFile).
		WithMetadata(MetaKeyCallerLine, strconv.Itoa(callerLine))
	return &MissingArgumentError{
		Name:       name,
		Fragment:   fragment,
		CallerFile: callerFile,
		CallerLine: callerLine,
		cause:      cu,
	}
}

func (e *MissingArgumentError) Error() string {
	return e.cause.Error()
}

func (e *MissingArgumentError) Unwrap() error {
	return e.cause
}

// TooManyPositionalArgumentsError is raised when a reference supplies more
// positional arguments than the callee fragment declares (§4.5 step 4: "it
// is an error to pass more positional arguments than declared").
type TooManyPositionalArgumentsError struct {
	Fragment   string
	Declared   int
	Provided   int
	CallerFile string
	CallerLine int
	cause      *cuserr.CustomError
}

// NewTooManyPositionalArgumentsError creates a TooManyPositionalArgumentsError.
func NewTooManyPositionalArgumentsError(fragment string, declared, provided int, callerFile string, callerLine int) error {
	cu := cuserr.NewValidationError(ErrCodeArgument, ErrMsgTooManyPositionalArguments).
		WithMetadata(MetaKeyFragment, fragment).
		WithMetadata(MetaKeyDeclaredCount, strconv.Itoa(declared)).
		WithMetadata(MetaKeyProvidedCount, strconv.Itoa(provided)).
		WithMetadata(MetaKeyCallerFile, callerFile).
		WithMetadata(MetaKeyCallerLine, strconv.Itoa(callerLine))
	return &TooManyPositionalArgumentsError{
		Fragment:   fragment,
		Declared:   declared,
		Provided:   provided,
		CallerFile: callerFile,
		CallerLine: callerLine,
		cause:      cu,
	}
}

func (e *TooManyPositionalArgumentsError) Error() string {
	return e.cause.Error()
}

func (e *TooManyPositionalArgumentsError) Unwrap() error {
	return e.cause
}

// UnboundVariableError is raised when an argument value is a bareword
// identifier that cannot be found in the caller's scope.
type UnboundVariableError struct {
	Name       string
	CallerFile string
	CallerLine int
	cause      *cuserr.CustomError
}

// NewUnboundVariableError creates an UnboundVariableError.
func NewUnboundVariableError(name, callerFile string, callerLine int) error {
	cu := cuserr.NewValidationError(ErrCodeArgument, ErrMsgUnboundVariable).
		WithMetadata(MetaKeyVariable, name).
		WithMetadata(MetaKeyCallerFile, callerFile).
		WithMetadata(MetaKeyCallerLine, strconv.Itoa(callerLine))
	return &UnboundVariableError{
		Name:       name,
		CallerFile: callerFile,
		CallerLine: callerLine,
		cause:      cu,
	}
}

func (e *UnboundVariableError) Error() string {
	return e.cause.Error()
}

func (e *UnboundVariableError) Unwrap() error {
	return e.cause
}

// FragmentIOError wraps an underlying filesystem error encountered while
// reading a fragment file.
type FragmentIOError struct {
	Path  string
	cause *cuserr.CustomError
}

// NewFragmentIOError wraps a filesystem error for the given fragment path.
func NewFragmentIOError(path string, underlying error) error {
	cu := cuserr.WrapStdError(underlying, ErrCodeIO, ErrMsgFragmentIO).
		WithMetadata(MetaKeyPath, path)
	return &FragmentIOError{Path: path, cause: cu}
}

func (e *FragmentIOError) Error() string {
	return e.cause.Error()
}

func (e *FragmentIOError) Unwrap() error {
	return e.cause
}

// InvalidSlugError is raised by C1 when a raw slug is empty or contains a
// ".." path segment, before any sigil rewriting or filesystem probing.
type InvalidSlugError struct {
	Slug   string
	Reason string
	cause  *cuserr.CustomError
}

// NewInvalidSlugError creates an InvalidSlugError.
func NewInvalidSlugError(slug, reason string) error {
	cu := cuserr.NewValidationError(ErrCodeSlug, ErrMsgInvalidSlug).
		WithMetadata(MetaKeySlug, slug).
		WithMetadata(MetaKeyReason, reason)
	return &InvalidSlugError{Slug: slug, Reason: reason, cause: cu}
}

func (e *InvalidSlugError) Error() string {
	return e.cause.Error()
}

func (e *InvalidSlugError) Unwrap() error {
	return e.cause
}

// ReferenceSyntaxError wraps a C3 syntax error with position context for
// diagnostics, mirroring NewParseError's metadata shape.
type ReferenceSyntaxError struct {
	Offset  int
	Snippet string
	cause   *cuserr.CustomError
}

// NewReferenceSyntaxError creates a ReferenceSyntaxError.
func NewReferenceSyntaxError(message string, offset int, snippet string) error {
	cu := cuserr.NewValidationError(ErrCodeParse, message).
		WithMetadata(MetaKeyOffset, strconv.Itoa(offset)).
		WithMetadata(MetaKeySnippet, snippet)
	return &ReferenceSyntaxError{Offset: offset, Snippet: snippet, cause: cu}
}

func (e *ReferenceSyntaxError) Error() string {
	return e.cause.Error()
}

func (e *ReferenceSyntaxError) Unwrap() error {
	return e.cause
}

// withCallerContext re-raises err with caller file/line filled in, for
// errors that C1 (ResolveSlugPath) raises without knowledge of which
// fragment referenced the slug it could not find.
func withCallerContext(err error, callerFile string, callerLine int) error {
	var missing *MissingFragmentError
	if errors.As(err, &missing) {
		return NewMissingFragmentError(missing.Slug, callerFile, callerLine, missing.SearchedPaths)
	}
	return err
}
