package output

import (
	"bytes"
	"os"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/teranos/uistate/codegen"
	"github.com/teranos/uistate/errors"
)

// CheckResult holds the result of comparing fresh units with disk
type CheckResult struct {
	UpToDate bool
	Stale    []string // files whose content differs
	Missing  []string // files that do not exist yet
}

// Compare reports which units differ from the files below root.
func Compare(root string, units []*codegen.Unit) (*CheckResult, error) {
	result := &CheckResult{}

	for _, u := range units {
		path := Path(root, u)
		existing, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			result.Missing = append(result.Missing, path)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		if !bytes.Equal(existing, []byte(u.Content)) {
			result.Stale = append(result.Stale, path)
		}
	}

	sort.Strings(result.Stale)
	sort.Strings(result.Missing)
	result.UpToDate = len(result.Stale) == 0 && len(result.Missing) == 0
	return result, nil
}

// Err returns nil when everything is up to date, and otherwise an error
// wrapping errors.ErrStale that names the first offending file.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	files := append(append([]string{}, r.Stale...), r.Missing...)
	err := errors.Wrapf(errors.ErrStale, "%s", files[0])
	if len(files) > 1 {
		err = errors.WithDetailf(err, "%d files differ", len(files))
	}
	return errors.WithHint(err, "run uistate generate and commit the result")
}

// Diff returns a unified diff from the file on disk to u's content. A missing
// file diffs against empty content.
func Diff(root string, u *codegen.Unit) (string, error) {
	path := Path(root, u)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(u.Content),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to diff %s", path)
	}
	return diff, nil
}
