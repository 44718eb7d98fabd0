package project

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so messages match the
// keys users see in project files.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateForExport checks that a project can be exported without
// producing ambiguous addresses. It reports every problem at once.
//
// Checks:
//   - structural rules (required IDs and names, group number ranges)
//   - no two areas share a main group
//   - no two areas share a non-empty abbreviation (compared trimmed)
//
// Returns nil when export is possible. Otherwise the error wraps
// ErrExportBlocked and, where applicable, ErrDuplicateMainGroup and
// ErrDuplicateAbbreviation.
func ValidateForExport(ctx context.Context, m *BuildingModel) error {
	if m == nil {
		return fmt.Errorf("%w: no project", ErrExportBlocked)
	}

	var errs []error

	if err := validate.StructCtx(ctx, m); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", ErrExportBlocked, err)
		}
		for _, fe := range verrs {
			errs = append(errs, errors.New(formatFieldError(fe)))
		}
	}

	errs = append(errs, duplicateMainGroups(m.Areas)...)
	errs = append(errs, duplicateAbbreviations(m.Areas)...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrExportBlocked, errors.Join(errs...))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

func duplicateMainGroups(areas []Area) []error {
	byGroup := make(map[int][]string)
	for _, a := range areas {
		byGroup[a.MainGroup] = append(byGroup[a.MainGroup], a.Name)
	}

	groups := make([]int, 0, len(byGroup))
	for g, names := range byGroup {
		if len(names) > 1 {
			groups = append(groups, g)
		}
	}
	sort.Ints(groups)

	errs := make([]error, 0, len(groups))
	for _, g := range groups {
		errs = append(errs, fmt.Errorf("%w %d: %s", ErrDuplicateMainGroup, g, strings.Join(byGroup[g], ", ")))
	}
	return errs
}

func duplicateAbbreviations(areas []Area) []error {
	byAbbr := make(map[string][]string)
	for _, a := range areas {
		abbr := strings.TrimSpace(a.Abbreviation)
		if abbr == "" {
			continue
		}
		byAbbr[abbr] = append(byAbbr[abbr], a.Name)
	}

	abbrs := make([]string, 0, len(byAbbr))
	for abbr, names := range byAbbr {
		if len(names) > 1 {
			abbrs = append(abbrs, abbr)
		}
	}
	sort.Strings(abbrs)

	errs := make([]error, 0, len(abbrs))
	for _, abbr := range abbrs {
		errs = append(errs, fmt.Errorf("%w %q: %s", ErrDuplicateAbbreviation, abbr, strings.Join(byAbbr[abbr], ", ")))
	}
	return errs
}
