package fsutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// NodeBinEnv overrides the node binary used to evaluate .mjs/.js/.cjs
// config modules. Defaults to "node" on PATH.
const NodeBinEnv = "WIGGUM_NODE_BIN"

// nodeEvalScript loads the module at %s, resolves its default export (or
// the exported value itself), and prints it as JSON on stdout. Written as
// a %-format template rather than text/template since the only
// substitution is a JSON-escaped path.
const nodeEvalScript = `
(async () => {
  const mod = await import(%s);
  const value = mod.default !== undefined ? mod.default : mod;
  process.stdout.write(JSON.stringify(value));
})().catch((err) => {
  process.stderr.write(String(err && err.stack || err));
  process.exit(1);
});
`

// ImportConfigModule evaluates a JavaScript-style config module (.mjs, .js,
// or .cjs) and returns its default export (or whole exported value) parsed
// as JSON. This is an extension point per spec.md §9 Design Notes: JSON is
// the mandated baseline; module evaluation requires a `node` binary on
// PATH (or WIGGUM_NODE_BIN) and is best-effort beyond that.
func ImportConfigModule(path string) (json.RawMessage, error) {
	nodeBin := os.Getenv(NodeBinEnv)
	if nodeBin == "" {
		nodeBin = "node"
	}
	if _, err := exec.LookPath(nodeBin); err != nil {
		return nil, fmt.Errorf("evaluating %s requires a node interpreter on PATH (set %s to override): %w", path, NodeBinEnv, err)
	}

	pathJSON, err := json.Marshal("file://" + path)
	if err != nil {
		return nil, err
	}
	script := fmt.Sprintf(nodeEvalScript, string(pathJSON))

	cmd := exec.Command(nodeBin, "--input-type=module", "-e", script) //nolint:gosec // nodeBin is operator-controlled, not repo input
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("evaluating config module %s: %w: %s", path, err, stderr.String())
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if !json.Valid(out) {
		return nil, fmt.Errorf("config module %s did not produce a JSON-serializable export", path)
	}
	return json.RawMessage(out), nil
}
