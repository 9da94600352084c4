package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var requiredAnnotations = []string{"-- +goose Up", "-- +goose Down"}

// ValidateDir checks every .sql file in dir for a well-formed name, a unique
// version and both goose sections, and reports all problems at once.
func ValidateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var errs error
	versions := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}

		match := migrationFileRe.FindStringSubmatch(name)
		if match == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: expected %s_<name>.sql", name, versionLayout))
			continue
		}
		if prev, dup := versions[match[1]]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: version %s already used by %s", name, match[1], prev))
		}
		versions[match[1]] = name

		errs = multierr.Append(errs, checkAnnotations(filepath.Join(dir, name)))
	}
	return errs
}

func checkAnnotations(path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	text := string(body)

	var errs error
	for _, annotation := range requiredAnnotations {
		if !strings.Contains(text, annotation) {
			errs = multierr.Append(errs, fmt.Errorf("%s: missing %q", filepath.Base(path), annotation))
		}
	}
	if strings.Count(text, "-- +goose StatementBegin") != strings.Count(text, "-- +goose StatementEnd") {
		errs = multierr.Append(errs, fmt.Errorf("%s: unbalanced StatementBegin/StatementEnd", filepath.Base(path)))
	}
	return errs
}
