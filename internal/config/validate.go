package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Size limits enforced during validation.
const (
	MaxTitleLength       = 100
	MaxQuoteLength       = 200
	MaxNameLength        = 50
	MaxCategoryNameLen   = 30
	MaxDescriptionLength = 100
	MaxCommandLength     = 500
	MaxIconPathLength    = 500
	MaxLaunchables       = 200
	MaxCategories        = 50
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidationError represents a single validation finding with context.
// Fatal findings concern the document as a whole; non-fatal findings are
// recovered by dropping the offending entry or reference.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Fatal   bool
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// HasFatal returns true if any finding invalidates the document as a whole.
func (ve ValidationErrors) HasFatal() bool {
	for _, err := range ve {
		if err.Fatal {
			return true
		}
	}
	return false
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// AddFatal adds a document-level validation error.
func (ve *ValidationErrors) AddFatal(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
		Fatal:   true,
	})
}

// Validate checks a raw configuration against schema, size and reference
// rules and returns a fully normalized copy along with every finding.
//
// Validation accumulates all violations instead of short-circuiting so the
// caller can report everything at once. Entry-level problems (duplicate or
// malformed launchables, unknown kinds, dangling references) drop the
// offending entry or reference and are reported as non-fatal; only
// document-level violations (missing title, count caps exceeded) mark the
// document unusable via ValidationErrors.HasFatal.
//
// Validate is pure apart from home-directory expansion of icon paths, and
// idempotent: validating its own output yields the same Config and no
// findings.
func Validate(raw Config) (Config, ValidationErrors) {
	var errs ValidationErrors
	cfg := raw

	if strings.TrimSpace(cfg.Title) == "" {
		errs.AddFatal("title", "is required", cfg.Title)
	}
	if len(cfg.Title) > MaxTitleLength {
		errs.AddFatal("title", fmt.Sprintf("must not exceed %d characters", MaxTitleLength), cfg.Title)
	}
	if len(cfg.Quote) > MaxQuoteLength {
		errs.AddFatal("quote", fmt.Sprintf("must not exceed %d characters", MaxQuoteLength), cfg.Quote)
	}
	if len(cfg.Launchables) > MaxLaunchables {
		errs.AddFatal("launchables", fmt.Sprintf("must not exceed %d entries", MaxLaunchables), len(cfg.Launchables))
	}
	if len(cfg.Categories) > MaxCategories {
		errs.AddFatal("categories", fmt.Sprintf("must not exceed %d entries", MaxCategories), len(cfg.Categories))
	}
	if errs.HasFatal() {
		return cfg, errs
	}

	cfg.Icon = expandIconPath(cfg.Icon)
	cfg.Launchables = validateLaunchables(cfg.Launchables, &errs)
	cfg.Categories = validateCategories(cfg.Categories, &errs)
	resolveReferences(&cfg, &errs)

	sort.SliceStable(cfg.Launchables, func(i, j int) bool {
		return cfg.Launchables[i].Position < cfg.Launchables[j].Position
	})
	sort.SliceStable(cfg.Categories, func(i, j int) bool {
		return cfg.Categories[i].Position < cfg.Categories[j].Position
	})

	return cfg, errs
}

// validateLaunchables checks every launchable entry and returns the usable
// subset. One invalid entry does not invalidate the document.
func validateLaunchables(in []Launchable, errs *ValidationErrors) []Launchable {
	seen := make(map[string]bool, len(in))
	out := make([]Launchable, 0, len(in))

	for i, l := range in {
		field := fmt.Sprintf("launchables[%d]", i)
		ok := true

		if !identifierPattern.MatchString(l.ID) {
			errs.Add(field+".id", "must be alphanumeric plus '-' or '_'", l.ID)
			ok = false
		} else if seen[l.ID] {
			errs.Add(field+".id", "duplicate launchable ID", l.ID)
			ok = false
		}
		if strings.TrimSpace(l.Name) == "" || len(l.Name) > MaxNameLength {
			errs.Add(field+".name", fmt.Sprintf("must be 1-%d characters", MaxNameLength), l.Name)
			ok = false
		}
		if strings.TrimSpace(l.Command) == "" || len(l.Command) > MaxCommandLength {
			errs.Add(field+".command", fmt.Sprintf("must be 1-%d characters", MaxCommandLength), l.Command)
			ok = false
		}
		if len(l.Description) > MaxDescriptionLength {
			errs.Add(field+".description", fmt.Sprintf("must not exceed %d characters", MaxDescriptionLength), l.Description)
			ok = false
		}
		if len(l.Icon) > MaxIconPathLength {
			errs.Add(field+".icon", fmt.Sprintf("must not exceed %d characters", MaxIconPathLength), l.Icon)
			ok = false
		}
		if !validKind(l.Kind) {
			errs.Add(field+".kind", fmt.Sprintf("must be one of: %s", kindList()), string(l.Kind))
			ok = false
		}

		if !ok {
			continue
		}
		seen[l.ID] = true
		l.Icon = expandIconPath(l.Icon)
		out = append(out, l)
	}
	return out
}

// validateCategories checks every category entry and returns the usable
// subset.
func validateCategories(in []Category, errs *ValidationErrors) []Category {
	seen := make(map[string]bool, len(in))
	out := make([]Category, 0, len(in))

	for i, c := range in {
		field := fmt.Sprintf("categories[%d]", i)
		ok := true

		if !identifierPattern.MatchString(c.ID) {
			errs.Add(field+".id", "must be alphanumeric plus '-' or '_'", c.ID)
			ok = false
		} else if seen[c.ID] {
			errs.Add(field+".id", "duplicate category ID", c.ID)
			ok = false
		}
		if strings.TrimSpace(c.Name) == "" || len(c.Name) > MaxCategoryNameLen {
			errs.Add(field+".name", fmt.Sprintf("must be 1-%d characters", MaxCategoryNameLen), c.Name)
			ok = false
		}
		if len(c.Description) > MaxDescriptionLength {
			errs.Add(field+".description", fmt.Sprintf("must not exceed %d characters", MaxDescriptionLength), c.Description)
			ok = false
		}
		if len(c.Icon) > MaxIconPathLength {
			errs.Add(field+".icon", fmt.Sprintf("must not exceed %d characters", MaxIconPathLength), c.Icon)
			ok = false
		}

		if !ok {
			continue
		}
		seen[c.ID] = true
		c.Icon = expandIconPath(c.Icon)
		out = append(out, c)
	}
	return out
}

// resolveReferences drops dangling cross-references between launchables and
// categories. A launchable pointing at a missing category is promoted to the
// top-level view; a category member list entry pointing at a missing
// launchable is removed. Both degrade gracefully instead of rejecting the
// document.
func resolveReferences(cfg *Config, errs *ValidationErrors) {
	launchables := make(map[string]bool, len(cfg.Launchables))
	for _, l := range cfg.Launchables {
		launchables[l.ID] = true
	}
	categories := make(map[string]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		categories[c.ID] = true
	}

	for i := range cfg.Launchables {
		l := &cfg.Launchables[i]
		if l.CategoryID != "" && !categories[l.CategoryID] {
			errs.Add(fmt.Sprintf("launchables[%d].category_id", i),
				"references non-existent category, promoted to top level", l.CategoryID)
			l.CategoryID = ""
		}
	}

	for i := range cfg.Categories {
		c := &cfg.Categories[i]
		kept := make([]string, 0, len(c.LaunchableIDs))
		for _, id := range c.LaunchableIDs {
			if !launchables[id] {
				errs.Add(fmt.Sprintf("categories[%d].launchable_ids", i),
					"references non-existent launchable, dropped", id)
				continue
			}
			kept = append(kept, id)
		}
		c.LaunchableIDs = kept
		if len(kept) == 0 {
			c.LaunchableIDs = nil
		}
	}
}

func validKind(k ExecutionKind) bool {
	for _, known := range ExecutionKinds() {
		if k == known {
			return true
		}
	}
	return false
}

func kindList() string {
	kinds := ExecutionKinds()
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

// expandIconPath expands a leading "~/" to the user's home directory. Other
// paths pass through untouched, so expansion is idempotent.
func expandIconPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
