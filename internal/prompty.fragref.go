package internal

import (
	"fmt"
	"strings"
)

// RefArgKind identifies the shape of a fragment reference argument value.
type RefArgKind int

const (
	RefArgString RefArgKind = iota
	RefArgIdent
	RefArgRef
)

// RefArg is a single argument value in a fragment reference: a string
// literal, a bareword identifier (looked up in the caller's scope), or a
// nested fragment reference.
type RefArg struct {
	Kind  RefArgKind
	Str   string    // set when Kind == RefArgString
	Ident string    // set when Kind == RefArgIdent
	Ref   *RefToken // set when Kind == RefArgRef
}

// RefKeywordArg is a name=value argument in a fragment reference's arg list.
type RefKeywordArg struct {
	Name  string
	Value RefArg
}

// RefToken is a parsed `@slug(args...)` fragment reference.
type RefToken struct {
	Slug       string
	Positional []RefArg
	Keyword    []RefKeywordArg
	Pos        Position
}

// RefMatch is a single reference occurrence located within a larger text,
// with the byte span it occupies in that text.
type RefMatch struct {
	Start int
	End   int
	Token *RefToken
}

// FragRefSyntaxError is raised when text that begins a reference
// (`@` followed by a valid slug) does not continue as a well-formed
// argument list.
type FragRefSyntaxError struct {
	Message string
	Offset  int
	Snippet string
}

func (e *FragRefSyntaxError) Error() string {
	return fmt.Sprintf("%s at byte offset %d: %s", e.Message, e.Offset, e.Snippet)
}

// NewFragRefSyntaxError builds a syntax error carrying a one-line snippet of
// source centered on the byte offset where parsing failed.
func NewFragRefSyntaxError(message, source string, offset int) *FragRefSyntaxError {
	return &FragRefSyntaxError{
		Message: message,
		Offset:  offset,
		Snippet: oneLineSnippet(source, offset),
	}
}

func oneLineSnippet(source string, offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1
	lineEndRel := strings.IndexByte(source[offset:], '\n')
	lineEnd := len(source)
	if lineEndRel >= 0 {
		lineEnd = offset + lineEndRel
	}
	return source[lineStart:lineEnd]
}

func isSlugStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isSlugChar(c byte) bool {
	return isSlugStart(c) || (c >= '0' && c <= '9') || c == '.' || c == '/' || c == '-'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// ScanReferences scans arbitrary text for `@slug(...)` occurrences and
// returns them in source order. Text that does not begin a valid slug after
// an `@` is left untouched (not a reference). A `@slug` that begins but
// whose argument list is malformed is a syntax error.
func ScanReferences(text string, basePos Position) ([]RefMatch, error) {
	var matches []RefMatch
	i := 0
	for i < len(text) {
		if text[i] != '@' {
			i++
			continue
		}
		start := i
		j := i + 1
		if j >= len(text) || !isSlugStart(text[j]) {
			i++
			continue
		}
		slugStart := j
		for j < len(text) && isSlugChar(text[j]) {
			j++
		}
		slug := text[slugStart:j]

		pos := advancePosition(basePos, text[:start])

		var args []RefArg
		var kwargs []RefKeywordArg
		end := j
		if j < len(text) && text[j] == '(' {
			parsed, newEnd, err := parseArgList(text, j)
			if err != nil {
				return nil, err
			}
			args, kwargs = parsed.positional, parsed.keyword
			end = newEnd
		}

		matches = append(matches, RefMatch{
			Start: start,
			End:   end,
			Token: &RefToken{
				Slug:       slug,
				Positional: args,
				Keyword:    kwargs,
				Pos:        pos,
			},
		})
		i = end
	}
	return matches, nil
}

// ParseSingleReference parses text that is expected to be exactly one
// reference (used where an attribute value is a reference in "expression
// position", e.g. prompty.var name="@greeting(name=username)").
func ParseSingleReference(text string, basePos Position) (*RefToken, error) {
	trimmed := strings.TrimSpace(text)
	matches, err := ScanReferences(trimmed, basePos)
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 || matches[0].Start != 0 || matches[0].End != len(trimmed) {
		return nil, NewFragRefSyntaxError(ErrMsgFragRefNotSingleRef, trimmed, 0)
	}
	return matches[0].Token, nil
}

// IsReference reports whether text is, in its entirety, a single fragment
// reference (ignoring surrounding whitespace).
func IsReference(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed[0] != '@' {
		return false
	}
	matches, err := ScanReferences(trimmed, Position{Line: 1, Column: 1})
	if err != nil || len(matches) != 1 {
		return false
	}
	return matches[0].Start == 0 && matches[0].End == len(trimmed)
}

type parsedArgList struct {
	positional []RefArg
	keyword    []RefKeywordArg
}

// parseArgList parses a balanced `(...)` argument list starting at
// text[openParen] == '('. Returns the parsed args and the byte offset just
// past the closing ')'.
func parseArgList(text string, openParen int) (parsedArgList, int, error) {
	var result parsedArgList
	i := openParen + 1
	seenKeyword := make(map[string]int) // name -> index into result.keyword

	skipSpace := func() {
		for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
			i++
		}
	}

	skipSpace()
	if i < len(text) && text[i] == ')' {
		return result, i + 1, nil
	}

	for {
		skipSpace()
		if i >= len(text) {
			return result, 0, NewFragRefSyntaxError(ErrMsgFragRefUnterminatedArgs, text, openParen)
		}

		name, isKeyword, nextI, err := tryParseKeywordName(text, i)
		if err != nil {
			return result, 0, err
		}

		var val RefArg
		if isKeyword {
			i = nextI
			skipSpace()
			val, i, err = parseArgValue(text, i)
			if err != nil {
				return result, 0, err
			}
			if idx, ok := seenKeyword[name]; ok {
				result.keyword[idx].Value = val
			} else {
				seenKeyword[name] = len(result.keyword)
				result.keyword = append(result.keyword, RefKeywordArg{Name: name, Value: val})
			}
		} else {
			val, i, err = parseArgValue(text, i)
			if err != nil {
				return result, 0, err
			}
			result.positional = append(result.positional, val)
		}

		skipSpace()
		if i >= len(text) {
			return result, 0, NewFragRefSyntaxError(ErrMsgFragRefUnterminatedArgs, text, openParen)
		}
		switch text[i] {
		case ',':
			i++
			continue
		case ')':
			return result, i + 1, nil
		default:
			return result, 0, NewFragRefSyntaxError(ErrMsgFragRefExpectedCommaOrClose, text, i)
		}
	}
}

// tryParseKeywordName peeks ahead for `identifier =` (not `==`). Returns
// isKeyword=false and leaves the cursor unmoved if this isn't a keyword arg.
func tryParseKeywordName(text string, i int) (name string, isKeyword bool, next int, err error) {
	if i >= len(text) || !isIdentStart(text[i]) {
		return "", false, i, nil
	}
	j := i
	for j < len(text) && isIdentChar(text[j]) {
		j++
	}
	k := j
	for k < len(text) && (text[k] == ' ' || text[k] == '\t') {
		k++
	}
	if k < len(text) && text[k] == '=' && (k+1 >= len(text) || text[k+1] != '=') {
		return text[i:j], true, k + 1, nil
	}
	return "", false, i, nil
}

// parseArgValue parses a single value: quoted string, nested reference, or
// bareword identifier.
func parseArgValue(text string, i int) (RefArg, int, error) {
	if i >= len(text) {
		return RefArg{}, 0, NewFragRefSyntaxError(ErrMsgFragRefExpectedValue, text, i)
	}

	switch {
	case text[i] == '"' || text[i] == '\'':
		return parseQuotedString(text, i)
	case text[i] == '@':
		return parseNestedRef(text, i)
	case isIdentStart(text[i]):
		j := i
		for j < len(text) && isSlugChar(text[j]) {
			j++
		}
		return RefArg{Kind: RefArgIdent, Ident: text[i:j]}, j, nil
	default:
		return RefArg{}, 0, NewFragRefSyntaxError(ErrMsgFragRefExpectedValue, text, i)
	}
}

func parseQuotedString(text string, i int) (RefArg, int, error) {
	quote := text[i]
	var sb strings.Builder
	j := i + 1
	for j < len(text) {
		c := text[j]
		if c == '\\' && j+1 < len(text) && text[j+1] == quote {
			sb.WriteByte(quote)
			j += 2
			continue
		}
		if c == quote {
			return RefArg{Kind: RefArgString, Str: sb.String()}, j + 1, nil
		}
		sb.WriteByte(c)
		j++
	}
	return RefArg{}, 0, NewFragRefSyntaxError(ErrMsgFragRefUnterminatedString, text, i)
}

func parseNestedRef(text string, i int) (RefArg, int, error) {
	j := i + 1
	if j >= len(text) || !isSlugStart(text[j]) {
		return RefArg{}, 0, NewFragRefSyntaxError(ErrMsgFragRefExpectedValue, text, i)
	}
	slugStart := j
	for j < len(text) && isSlugChar(text[j]) {
		j++
	}
	slug := text[slugStart:j]

	var args []RefArg
	var kwargs []RefKeywordArg
	if j < len(text) && text[j] == '(' {
		parsed, newEnd, err := parseArgList(text, j)
		if err != nil {
			return RefArg{}, 0, err
		}
		args, kwargs = parsed.positional, parsed.keyword
		j = newEnd
	}

	return RefArg{Kind: RefArgRef, Ref: &RefToken{Slug: slug, Positional: args, Keyword: kwargs}}, j, nil
}

// advancePosition computes the Position reached after consuming `consumed`
// bytes of text starting from `base`.
func advancePosition(base Position, consumed string) Position {
	pos := base
	for i := 0; i < len(consumed); i++ {
		if consumed[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
		pos.Offset++
	}
	return pos
}

// Fragment reference syntax error messages.
const (
	ErrMsgFragRefUnterminatedArgs    = "unterminated fragment reference argument list"
	ErrMsgFragRefExpectedCommaOrClose = "expected ',' or ')' in fragment reference arguments"
	ErrMsgFragRefExpectedValue       = "expected argument value in fragment reference"
	ErrMsgFragRefUnterminatedString  = "unterminated string in fragment reference argument"
	ErrMsgFragRefNotSingleRef        = "expected a single fragment reference"
)

// FragmentResolver resolves a parsed fragment reference to its fully
// expanded text. Implemented by the root package's resolver (C5); declared
// here so the executor (C4) can invoke it without an import cycle.
type FragmentResolver interface {
	ResolveFragmentRef(callerCtx ContextAccessor, pos Position, ref *RefToken) (string, error)
}

// FragmentResolverAccessor is implemented by execution contexts that carry a
// fragment resolver, mirroring TemplateContextAccessor's Engine() pattern.
type FragmentResolverAccessor interface {
	ContextAccessor
	FragmentResolver() interface{}
}

// expandReferences scans text for `@slug(...)` occurrences and resolves
// each via the context's fragment resolver, splicing the results into the
// surrounding literal text. Text containing no references is returned
// unchanged without requiring a resolver to be present.
func expandReferences(text string, pos Position, execCtx ContextAccessor) (string, error) {
	matches, err := ScanReferences(text, pos)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return text, nil
	}

	accessor, ok := execCtx.(FragmentResolverAccessor)
	if !ok {
		return "", NewExecutorError(ErrMsgNoFragmentResolver, "", pos)
	}
	resolverIface := accessor.FragmentResolver()
	resolver, ok := resolverIface.(FragmentResolver)
	if !ok || resolver == nil {
		return "", NewExecutorError(ErrMsgNoFragmentResolver, "", pos)
	}

	var sb strings.Builder
	cursor := 0
	for _, m := range matches {
		sb.WriteString(text[cursor:m.Start])
		resolved, err := resolver.ResolveFragmentRef(execCtx, m.Token.Pos, m.Token)
		if err != nil {
			return "", err
		}
		sb.WriteString(resolved)
		cursor = m.End
	}
	sb.WriteString(text[cursor:])
	return sb.String(), nil
}

// ErrMsgNoFragmentResolver is used when text contains a fragment reference
// but the execution context has no fragment resolver attached.
const ErrMsgNoFragmentResolver = "fragment reference found but no fragment resolver is available"
