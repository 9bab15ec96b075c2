package prompty

import (
	"errors"
	"fmt"
	"strings"
)

// FormatDiagnostic renders a fragment-resolution error as the exact
// multi-line diagnostic text a CLI or editor integration should show a
// user: the error kind, its slug/argument/chain detail, and where in the
// calling fragment it was raised.
func FormatDiagnostic(err error) string {
	var missing *MissingFragmentError
	var cycle *CycleError
	var missingArg *MissingArgumentError
	var unbound *UnboundVariableError
	var syntax *ReferenceSyntaxError
	var invalidSlug *InvalidSlugError
	var ioErr *FragmentIOError
	var tooMany *TooManyPositionalArgumentsError

	switch {
	case errors.As(err, &missing):
		return formatMissingFragment(missing)
	case errors.As(err, &cycle):
		return formatCycle(cycle)
	case errors.As(err, &missingArg):
		return formatMissingArgument(missingArg)
	case errors.As(err, &unbound):
		return formatUnboundVariable(unbound)
	case errors.As(err, &syntax):
		return formatReferenceSyntax(syntax)
	case errors.As(err, &invalidSlug):
		return formatInvalidSlug(invalidSlug)
	case errors.As(err, &ioErr):
		return formatFragmentIO(ioErr)
	case errors.As(err, &tooMany):
		return formatTooManyPositionalArguments(tooMany)
	default:
		return err.Error()
	}
}

func formatMissingFragment(e *MissingFragmentError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fragment not found: @%s\n", e.Slug)
	if e.CallerFile != "" {
		fmt.Fprintf(&sb, "  referenced from %s:%d\n", e.CallerFile, e.CallerLine)
	}
	sb.WriteString("  searched:\n")
	for _, p := range e.SearchedPaths {
		fmt.Fprintf(&sb, "    %s\n", p)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCycle(e *CycleError) string {
	return fmt.Sprintf("cyclic fragment reference: %s", strings.Join(e.Chain, " -> "))
}

func formatMissingArgument(e *MissingArgumentError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "missing required argument %q for fragment @%s\n", e.Name, e.Fragment)
	if e.CallerFile != "" {
		fmt.Fprintf(&sb, "  referenced from %s:%d", e.CallerFile, e.CallerLine)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatUnboundVariable(e *UnboundVariableError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unbound variable %q\n", e.Name)
	if e.CallerFile != "" {
		fmt.Fprintf(&sb, "  referenced from %s:%d", e.CallerFile, e.CallerLine)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatReferenceSyntax(e *ReferenceSyntaxError) string {
	return fmt.Sprintf("fragment reference syntax error at byte offset %d:\n  %s", e.Offset, e.Snippet)
}

func formatInvalidSlug(e *InvalidSlugError) string {
	return fmt.Sprintf("invalid fragment slug %q: %s", e.Slug, e.Reason)
}

func formatFragmentIO(e *FragmentIOError) string {
	return fmt.Sprintf("%s\n  path: %s", e.Error(), e.Path)
}

func formatTooManyPositionalArguments(e *TooManyPositionalArgumentsError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "too many positional arguments for fragment @%s: declared %d, got %d\n", e.Fragment, e.Declared, e.Provided)
	if e.CallerFile != "" {
		fmt.Fprintf(&sb, "  referenced from %s:%d", e.CallerFile, e.CallerLine)
	}
	return strings.TrimRight(sb.String(), "\n")
}
