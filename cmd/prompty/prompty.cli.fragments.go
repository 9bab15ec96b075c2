package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/prompy-dev/prompy"
)

// rootList accumulates repeated -R/--root flag occurrences in the order
// given, which is also fragment search precedence order.
type rootList []string

func (r *rootList) String() string { return strings.Join(*r, ",") }

func (r *rootList) Set(value string) error {
	*r = append(*r, value)
	return nil
}

// renderFragmentConfig holds parsed render-fragment command configuration.
type renderFragmentConfig struct {
	templatePath string
	roots        rootList
	project      string
	language     string
	outputPath   string
}

func runRenderFragment(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFragmentFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingBody, err)
		return ExitCodeUsageError
	}

	body, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	result, err := prompty.Render(context.Background(), string(body), nil, cfg.project, cfg.language, cfg.roots)
	if err != nil {
		fmt.Fprintln(stderr, prompty.FormatDiagnostic(err))
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFragmentFlags(args []string) (*renderFragmentConfig, error) {
	fs := flag.NewFlagSet(CmdNameRenderFragment, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renderFragmentConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.Var(&cfg.roots, FlagRoot, "")
	fs.Var(&cfg.roots, FlagRootShort, "")
	fs.StringVar(&cfg.project, FlagProject, "", "")
	fs.StringVar(&cfg.language, FlagLanguage, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingBody)
	}

	return cfg, nil
}

// listFragmentsConfig holds parsed list-fragments command configuration.
type listFragmentsConfig struct {
	roots    rootList
	project  string
	language string
	category string
}

func runListFragments(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseListFragmentsFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingRoot, err)
		return ExitCodeUsageError
	}

	entries, err := prompty.ListFragments(cfg.project, cfg.language, cfg.roots, prompty.CatalogFilter{Category: cfg.category})
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgListFailed, err)
		return ExitCodeError
	}

	fmt.Fprint(stdout, prompty.GenerateCatalogMarkdown(entries))
	return ExitCodeSuccess
}

func parseListFragmentsFlags(args []string) (*listFragmentsConfig, error) {
	fs := flag.NewFlagSet(CmdNameListFragments, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &listFragmentsConfig{}

	fs.Var(&cfg.roots, FlagRoot, "")
	fs.Var(&cfg.roots, FlagRootShort, "")
	fs.StringVar(&cfg.project, FlagProject, "", "")
	fs.StringVar(&cfg.language, FlagLanguage, "", "")
	fs.StringVar(&cfg.category, FlagCategory, "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if len(cfg.roots) == 0 {
		return nil, errors.New(ErrMsgMissingRoot)
	}

	return cfg, nil
}

// renameFragmentConfig holds parsed rename-fragment command configuration.
type renameFragmentConfig struct {
	roots rootList
	from  string
	to    string
}

func runRenameFragment(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseRenameFragmentFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingRenameArgs, err)
		return ExitCodeUsageError
	}

	if err := prompty.MoveFragment(cfg.from, cfg.to, cfg.roots); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenameFailed, err)
		return ExitCodeError
	}

	fmt.Fprintf(stdout, "renamed @%s to @%s\n", cfg.from, cfg.to)
	return ExitCodeSuccess
}

func parseRenameFragmentFlags(args []string) (*renameFragmentConfig, error) {
	fs := flag.NewFlagSet(CmdNameRenameFragment, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renameFragmentConfig{}

	fs.Var(&cfg.roots, FlagRoot, "")
	fs.Var(&cfg.roots, FlagRootShort, "")
	fs.StringVar(&cfg.from, FlagFrom, "", "")
	fs.StringVar(&cfg.to, FlagTo, "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if len(cfg.roots) == 0 {
		return nil, errors.New(ErrMsgMissingRoot)
	}
	if cfg.from == "" || cfg.to == "" {
		return nil, errors.New(ErrMsgMissingRenameArgs)
	}

	return cfg, nil
}
