package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/fsutil"
)

// Load locates and parses the runner configuration file for rootDir. If
// explicitPath is non-empty it is used verbatim (still validated against
// UnsupportedSuffixes); otherwise RecognizedNames is probed in order.
// Returns the resolved config path and the parsed RootConfig; when no
// recognized config file is found it fails with ConfigNotFound (or
// UnsupportedConfigVariant if only a .ts/.mts/.cts variant is present).
func Load(rootDir, explicitPath string) (string, *RootConfig, error) {
	if explicitPath != "" {
		abs, err := fsutil.Normalize(explicitPath)
		if err != nil {
			return "", nil, diag.Wrap(diag.KindConfigNotFound, err, "resolving --config %s", explicitPath)
		}
		if err := rejectUnsupportedSuffix(abs); err != nil {
			return "", nil, err
		}
		if !fsutil.Exists(abs) {
			return "", nil, diag.New(diag.KindConfigNotFound, "config file not found: %s", explicitPath)
		}
		cfg, err := parseFile(abs)
		if err != nil {
			return "", nil, err
		}
		return abs, cfg, nil
	}

	for _, name := range RecognizedNames {
		candidate := filepath.Join(rootDir, name)
		if fsutil.Exists(candidate) {
			cfg, err := parseFile(candidate)
			if err != nil {
				return "", nil, err
			}
			return candidate, cfg, nil
		}
	}

	for _, suffix := range UnsupportedSuffixes {
		candidate := filepath.Join(rootDir, "wiggum.config"+suffix)
		if fsutil.Exists(candidate) {
			return "", nil, unsupportedVariantError(candidate)
		}
	}

	return "", nil, diag.New(diag.KindConfigNotFound,
		"no wiggum config found in %s (expected one of: %s)", rootDir, strings.Join(RecognizedNames, ", "))
}

func rejectUnsupportedSuffix(path string) error {
	for _, suffix := range UnsupportedSuffixes {
		if strings.HasSuffix(path, suffix) {
			return unsupportedVariantError(path)
		}
	}
	return nil
}

func unsupportedVariantError(path string) error {
	return diag.New(diag.KindUnsupportedConfigVariant,
		"unsupported config variant %s: wiggum supports only %s", path, strings.Join(RecognizedNames, ", "))
}

func parseFile(path string) (*RootConfig, error) {
	if err := rejectUnsupportedSuffix(path); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	switch filepath.Ext(path) {
	case ".json":
		data, err := os.ReadFile(path) //nolint:gosec // path resolved by the loader's own probe/explicit-path logic
		if err != nil {
			return nil, diag.Wrap(diag.KindInvalidConfig, err, "reading %s", path)
		}
		raw = data
	case ".mjs", ".js", ".cjs":
		data, err := fsutil.ImportConfigModule(path)
		if err != nil {
			return nil, diag.Wrap(diag.KindUnsupportedConfigVariant, err, "evaluating %s", path)
		}
		raw = data
	default:
		return nil, unsupportedVariantError(path)
	}

	var cfg RootConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, diag.Wrap(diag.KindInvalidConfig, err, "parsing %s", path)
	}
	return &cfg, nil
}
