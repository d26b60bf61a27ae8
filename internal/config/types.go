// Package config implements spec.md §4.2 (C2): locating and loading the
// runner configuration file, rejecting unsupported variants, and walking
// its nested project-entry tree while merging inherited args/ignore lists.
package config

import "encoding/json"

// RecognizedNames lists the config file names the loader probes for, in
// precedence order (spec.md §4.2).
var RecognizedNames = []string{
	"wiggum.config.mjs",
	"wiggum.config.js",
	"wiggum.config.cjs",
	"wiggum.config.json",
}

// UnsupportedSuffixes are config variants the loader must fail fast on,
// with a diagnostic listing RecognizedNames.
var UnsupportedSuffixes = []string{".ts", ".mts", ".cts"}

// Defaults is the `defaults` block of a RootConfig.
type Defaults struct {
	Args []string `json:"args,omitempty"`
}

// RootConfig is the top-level shape of a wiggum.config.* file.
type RootConfig struct {
	Root     string   `json:"root,omitempty"`
	Ignore   []string `json:"ignore,omitempty"`
	Defaults *Defaults `json:"defaults,omitempty"`
	Projects []Entry  `json:"projects,omitempty"`
}

// Entry is one element of a `projects` array: either a bare string (a
// glob or path) or an object with the shape documented in spec.md §4.2.
type Entry struct {
	IsString   bool
	StringForm string

	Name     string   `json:"name,omitempty"`
	Root     string   `json:"root,omitempty"`
	Config   string   `json:"config,omitempty"`
	Args     []string `json:"args,omitempty"`
	Ignore   []string `json:"ignore,omitempty"`
	Projects []Entry  `json:"projects,omitempty"`
}

// UnmarshalJSON accepts either a JSON string or a JSON object, per
// spec.md §4.2's ConfigEntry union.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		e.IsString = true
		e.StringForm = asString
		return nil
	}

	type alias Entry
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = Entry(obj)
	e.IsString = false
	return nil
}
