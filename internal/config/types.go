package config

import "gopkg.in/yaml.v3"

// ExecutionKind defines how a launchable's command is interpreted and spawned.
// The set is closed; entries with an unknown kind are dropped at validation.
type ExecutionKind string

const (
	// KindDirect launches the executable named by the command, resolved
	// via PATH, with the remaining tokens as arguments.
	KindDirect ExecutionKind = "direct"
	// KindShell runs an allow-listed wrapper executable (terminal runner,
	// xdg-open, ...). Free-form shell text is never passed to a shell.
	KindShell ExecutionKind = "shell"
	// KindScript runs a script file through an interpreter selected by the
	// script's extension from the launch policy, never from the command.
	KindScript ExecutionKind = "script"
	// KindPackageScript runs a named script from the package manifest found
	// in the launchable's working directory, as `<tool> run <name>`.
	KindPackageScript ExecutionKind = "package-script"
)

// ExecutionKinds lists every valid kind, for validation and diagnostics.
func ExecutionKinds() []ExecutionKind {
	return []ExecutionKind{KindDirect, KindShell, KindScript, KindPackageScript}
}

// Launchable is a configured item (application, script or command) the user
// can activate.
type Launchable struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Icon        string        `yaml:"icon"`
	Command     string        `yaml:"command"`
	Kind        ExecutionKind `yaml:"kind"`
	Description string        `yaml:"description,omitempty"`
	WorkingDir  string        `yaml:"working_dir,omitempty"`
	CategoryID  string        `yaml:"category_id,omitempty"`
	Position    int           `yaml:"position,omitempty"`
	Enabled     bool          `yaml:"enabled"`
}

// UnmarshalYAML applies field defaults before decoding so that omitted
// fields keep their documented default (enabled: true).
func (l *Launchable) UnmarshalYAML(value *yaml.Node) error {
	type raw Launchable
	r := raw{Enabled: true}
	if err := value.Decode(&r); err != nil {
		return err
	}
	*l = Launchable(r)
	return nil
}

// Category is a named grouping of launchables shown as a single entry point
// in the top-level view.
type Category struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Icon          string   `yaml:"icon"`
	Description   string   `yaml:"description"`
	LaunchableIDs []string `yaml:"launchable_ids,omitempty"`
	Position      int      `yaml:"position,omitempty"`
	Enabled       bool     `yaml:"enabled"`
}

func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	type raw Category
	r := raw{Enabled: true}
	if err := value.Decode(&r); err != nil {
		return err
	}
	*c = Category(r)
	return nil
}

// Config is the root configuration snapshot. A Config is immutable once it
// has passed validation; reloads construct a fresh instance and swap it in
// wholesale, never mutating fields of a published snapshot.
type Config struct {
	SchemaVersion int    `yaml:"schema_version,omitempty"`
	Title         string `yaml:"title"`
	Icon          string `yaml:"icon"`
	// Quote is the footer text shown below the launchables.
	Quote string `yaml:"quote,omitempty"`
	// Theme is opaque to the engine and passed through to the UI shell.
	Theme       map[string]interface{} `yaml:"theme,omitempty"`
	Launchables []Launchable           `yaml:"launchables"`
	Categories  []Category             `yaml:"categories,omitempty"`
}

// LaunchableByID returns the launchable with the given identifier.
func (c *Config) LaunchableByID(id string) (Launchable, bool) {
	for _, l := range c.Launchables {
		if l.ID == id {
			return l, true
		}
	}
	return Launchable{}, false
}

// CategoryByID returns the category with the given identifier.
func (c *Config) CategoryByID(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// MainLaunchables returns the enabled launchables shown in the top-level
// view, i.e. those not assigned to any category.
func (c *Config) MainLaunchables() []Launchable {
	var out []Launchable
	for _, l := range c.Launchables {
		if l.Enabled && l.CategoryID == "" {
			out = append(out, l)
		}
	}
	return out
}

// CategoryLaunchables returns the enabled launchables assigned to the given
// category.
func (c *Config) CategoryLaunchables(categoryID string) []Launchable {
	var out []Launchable
	for _, l := range c.Launchables {
		if l.Enabled && l.CategoryID == categoryID {
			out = append(out, l)
		}
	}
	return out
}
