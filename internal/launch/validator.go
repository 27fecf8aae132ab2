package launch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"fredon/internal/config"
	"fredon/pkg/logging"
)

// blockedCharacters are rejected unconditionally regardless of kind. The
// executor never invokes a shell, so none of these can ever be meaningful in
// a legitimate command.
const blockedCharacters = ";&|`$()<>\"'"

// blockedCommands are destructive or privilege-escalating binaries rejected
// by exact leading-token match.
var blockedCommands = map[string]bool{
	"rm":     true,
	"sudo":   true,
	"su":     true,
	"passwd": true,
	"chmod":  true,
	"chown":  true,
	"dd":     true,
	"mkfs":   true,
	"fdisk":  true,
	"mount":  true,
	"umount": true,
}

// Policy classifies command strings as allowed or blocked and decomposes
// allowed ones into discrete argument vectors with no shell interpretation.
// The zero value is not usable; construct with DefaultPolicy.
type Policy struct {
	// ShellWrappers is the allow-list of trusted wrapper executables
	// permitted for the shell kind, matched by base name of the first token.
	ShellWrappers []string

	// WrapperDirs are the only directories an explicitly pathed wrapper may
	// live in. Bare wrapper names resolve through PATH instead.
	WrapperDirs []string

	// Interpreters maps script extensions to the interpreter binary used to
	// run them. The interpreter always comes from here, never from the
	// command string.
	Interpreters map[string]string

	// PackageTool runs manifest scripts as `<tool> run <name>`.
	PackageTool string

	// ManifestName is the script manifest file expected in the working
	// directory for the package-script kind.
	ManifestName string
}

// DefaultPolicy returns the stock launch policy.
func DefaultPolicy() *Policy {
	return &Policy{
		ShellWrappers: []string{"xdg-open", "gtk-launch", "xterm", "alacritty", "kitty", "foot"},
		WrapperDirs:   []string{"/usr/bin", "/bin", "/usr/local/bin"},
		Interpreters: map[string]string{
			".py": "python3",
			".sh": "bash",
			".js": "node",
		},
		PackageTool:  "npm",
		ManifestName: "package.json",
	}
}

// ValidateCommand classifies command + kind and returns the sanitized
// argument vector to spawn. Every token is returned as a discrete argument;
// nothing is ever concatenated back into a shell string. workingDir is
// consulted for the script and package-script kinds.
func (p *Policy) ValidateCommand(command string, kind config.ExecutionKind, workingDir string) ([]string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, &SecurityError{Rule: RuleEmptyCommand}
	}

	if i := strings.IndexAny(command, blockedCharacters); i >= 0 {
		return nil, &SecurityError{Rule: RuleBlockedCharacter, Offending: string(command[i])}
	}

	// Quote characters are blocked above, so whitespace splitting is exact:
	// there is no quoting syntax left that could glue tokens together.
	tokens := strings.Fields(command)
	base := filepath.Base(tokens[0])
	if blockedCommands[base] {
		return nil, &SecurityError{Rule: RuleBlockedCommand, Offending: base}
	}

	switch kind {
	case config.KindDirect:
		return tokens, nil

	case config.KindShell:
		return p.validateShell(tokens)

	case config.KindScript:
		return p.validateScript(tokens, workingDir)

	case config.KindPackageScript:
		return p.validatePackageScript(command, workingDir)

	default:
		return nil, &SecurityError{Rule: RuleUnknownKind, Offending: string(kind)}
	}
}

// validateShell restricts the shell kind to a short allow-list of trusted
// wrapper executables. A bare name resolves through PATH; an explicit path
// must point into one of the trusted wrapper directories, so a copy of an
// allow-listed binary in a writable location does not pass. Free-form shell
// text is never passed to a shell; the line is tokenized and each token
// becomes one argument.
func (p *Policy) validateShell(tokens []string) ([]string, error) {
	first := tokens[0]
	base := filepath.Base(first)

	allowed := false
	for _, name := range p.ShellWrappers {
		if base == name {
			allowed = true
			break
		}
	}
	if allowed && first != base {
		allowed = false
		dir := filepath.Dir(first)
		for _, trusted := range p.WrapperDirs {
			if dir == trusted {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return nil, &SecurityError{Rule: RuleWrapperNotAllowed, Offending: first}
	}
	return tokens, nil
}

// validateScript requires the first token to name an existing file with an
// allow-listed extension and prepends the configured interpreter. Relative
// paths are resolved against the same directory the executor will spawn in,
// so the existence check and the spawn agree.
func (p *Policy) validateScript(tokens []string, workingDir string) ([]string, error) {
	script := tokens[0]
	interp, ok := p.Interpreters[strings.ToLower(filepath.Ext(script))]
	if !ok {
		return nil, &SecurityError{Rule: RuleScriptExtension, Offending: script}
	}
	if !filepath.IsAbs(script) {
		script = filepath.Join(scriptBaseDir(workingDir), script)
	}
	if info, err := os.Stat(script); err != nil || info.IsDir() {
		return nil, &SecurityError{Rule: RuleScriptNotFound, Offending: script}
	}

	argv := make([]string, 0, len(tokens)+1)
	argv = append(argv, interp, script)
	argv = append(argv, tokens[1:]...)
	return argv, nil
}

// scriptBaseDir mirrors the executor's working directory fallback: the
// declared directory when it exists, otherwise the user's home.
func scriptBaseDir(workingDir string) string {
	if workingDir != "" {
		if info, err := os.Stat(workingDir); err == nil && info.IsDir() {
			return workingDir
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// validatePackageScript requires the command to name a script entry present
// in the manifest found in the working directory, and builds the invocation
// as `<tool> run <name>`.
func (p *Policy) validatePackageScript(name, workingDir string) ([]string, error) {
	if strings.ContainsAny(name, " \t") {
		return nil, &SecurityError{Rule: RuleScriptNotInManifest, Offending: name}
	}
	if workingDir == "" {
		workingDir = "."
	}

	manifestPath := filepath.Join(workingDir, p.ManifestName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &SecurityError{Rule: RuleManifestMissing, Offending: manifestPath}
	}

	scripts := gjson.GetBytes(data, "scripts").Map()
	if _, ok := scripts[name]; !ok {
		logging.Debug("Launcher", "Script %q not among %d manifest scripts in %s", name, len(scripts), manifestPath)
		return nil, &SecurityError{Rule: RuleScriptNotInManifest, Offending: name}
	}

	return []string{p.PackageTool, "run", name}, nil
}
