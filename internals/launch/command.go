package launch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/launchbox/launchbox/internals/minecraft"
	"github.com/launchbox/launchbox/internals/workspace"
)

// ErrLaunch is returned when a version can not be launched
type ErrLaunch struct {
	Reason string
	Cause  error
}

func (e *ErrLaunch) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("can not launch: %s: %v", e.Reason, e.Cause)
	}
	return "can not launch: " + e.Reason
}

func (e *ErrLaunch) Unwrap() error { return e.Cause }

// Launcher materializes launch commands out of installed versions
type Launcher struct {
	Workspace *workspace.Workspace
	// LauncherName and LauncherVersion fill the matching placeholders
	LauncherName    string
	LauncherVersion string
}

// Command is a fully resolved, ready to spawn process invocation
type Command struct {
	Program string
	Args    []string
	// Dir is the working directory the game runs in
	Dir string
}

// String renders the command the way a shell would see it
func (c *Command) String() string {
	return c.Program + " " + strings.Join(c.Args, " ")
}

// Command builds the launch command for an installed version. The
// descriptor is read, never modified.
func (l *Launcher) Command(versionName string, p *Params) (*Command, error) {
	desc, err := l.Workspace.ReadDescriptor(versionName)
	if err != nil {
		return nil, &ErrLaunch{Reason: "descriptor of " + versionName + " is missing", Cause: err}
	}
	if desc.MainClass == "" {
		return nil, &ErrLaunch{Reason: "descriptor of " + versionName + " has no main class"}
	}

	// forge profiles sometimes point at a different jar via the jar field
	jarPath := l.Workspace.JarPath(versionName)
	if desc.Jar != "" {
		alt := filepath.Join(l.Workspace.VersionDir(versionName), desc.JarName())
		if _, err := os.Stat(alt); err == nil {
			jarPath = alt
		}
	}
	if _, err := os.Stat(jarPath); err != nil {
		return nil, &ErrLaunch{Reason: "main jar of " + versionName + " is missing", Cause: err}
	}

	osName := minecraft.NormalizeOS(runtime.GOOS)
	arch := minecraft.NormalizeArch(runtime.GOARCH)

	classpath := l.classpath(desc, jarPath, osName, arch)
	nativesDir := l.Workspace.NativesDir(versionName)

	vars := p.aliases(versionName, desc.Type, l.Workspace.AssetsDir(), desc.AssetIndex.ID)
	vars["natives_directory"] = nativesDir
	vars["launcher_name"] = l.LauncherName
	vars["launcher_version"] = l.LauncherVersion
	vars["library_directory"] = l.Workspace.LibrariesDir()
	vars["classpath_separator"] = cpSeparator()
	vars["primary_jar"] = jarPath
	// the extension map is consulted last, it never shadows built-ins
	// or the known aliases
	for k, v := range p.Extra {
		if existing, ok := vars[k]; !ok || existing == "" {
			vars[k] = v
		}
	}

	// the classpath placeholder only exists for jvm arguments
	jvmVars := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		jvmVars[k] = v
	}
	jvmVars["classpath"] = classpath

	features := p.features()

	args := make([]string, 0, 32)
	args = append(args, p.JvmArgs...)

	if desc.Arguments != nil && len(desc.Arguments.JVM) > 0 {
		args = append(args, evalArguments(desc.Arguments.JVM, features, osName, arch, jvmVars)...)
	} else {
		// legacy descriptors carry no jvm arguments at all
		args = append(args,
			"-Djava.library.path="+nativesDir,
			"-cp", classpath,
		)
	}

	if p.Memory.MinMB > 0 {
		args = append(args, fmt.Sprintf("-Xmn%dm", p.Memory.MinMB))
	}
	if p.Memory.MaxMB > 0 {
		args = append(args, fmt.Sprintf("-Xmx%dm", p.Memory.MaxMB))
	} else if !hasArgPrefix(p.JvmArgs, "-Xmx") {
		args = append(args, fmt.Sprintf("-Xmx%dm", defaultMaxHeapMB()))
	}

	if runtime.GOOS == "darwin" {
		args = append([]string{"-XstartOnFirstThread"}, args...)
	}

	args = append(args, desc.MainClass)

	switch {
	case desc.Arguments != nil && len(desc.Arguments.Game) > 0:
		args = append(args, evalArguments(desc.Arguments.Game, features, osName, arch, vars)...)
	case desc.MinecraftArguments != "":
		legacy := make([]minecraft.Argument, 0)
		for _, token := range strings.Fields(desc.MinecraftArguments) {
			legacy = append(legacy, minecraft.Argument{Value: []string{token}})
		}
		args = append(args, evalArguments(legacy, features, osName, arch, vars)...)
	}
	args = append(args, p.GameArgs...)

	program := p.JavaPath
	if program == "" {
		program = "java"
	}

	dir := p.GameDir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}

	return &Command{Program: program, Args: args, Dir: dir}, nil
}

// classpath joins every applicable non-native library plus the main
// jar, in descriptor order, with the platform separator
func (l *Launcher) classpath(desc *minecraft.VersionDescriptor, jarPath string, osName string, arch string) string {
	entries := make([]string, 0, len(desc.Libraries)+1)
	for _, lib := range desc.Libraries.RequiredFor(osName, arch) {
		if lib.Native(osName, arch) {
			continue
		}
		entries = append(entries, l.Workspace.LibraryPath(lib.Filepath()))
	}
	entries = append(entries, jarPath)
	return strings.Join(entries, cpSeparator())
}

var placeholderRegex = regexp.MustCompile(`\$\{([a-zA-Z0-9_]+)\}`)

// substitute resolves all ${name} placeholders in one token. ok is
// false when any placeholder is unknown or resolves to an empty
// string; such tokens are dropped entirely by the caller.
func substitute(token string, vars map[string]string) (string, bool) {
	unresolved := false
	replaced := placeholderRegex.ReplaceAllStringFunc(token, func(match string) string {
		name := match[2 : len(match)-1]
		value, ok := vars[name]
		if !ok || value == "" {
			unresolved = true
			return ""
		}
		return value
	})
	if unresolved {
		return "", false
	}
	return replaced, true
}

// evalArguments runs the argument interpreter: rule gating first, then
// placeholder substitution with the drop semantics for unresolved
// tokens. A flag token is only emitted together with its resolved
// value; when the value token drops, the flag goes with it.
func evalArguments(entries []minecraft.Argument, features map[string]bool, osName string, arch string, vars map[string]string) []string {
	out := make([]string, 0, len(entries))
	// flagLiteral marks emitted tokens that are bare flags, so an
	// unresolved follow-up value can take them back out
	flagLiteral := make([]bool, 0, len(entries))

	for _, entry := range entries {
		if !minecraft.EvalRules(entry.Rules, osName, arch, features) {
			continue
		}
		for _, token := range entry.Value {
			resolved, ok := substitute(token, vars)
			if !ok {
				if n := len(out); n > 0 && flagLiteral[n-1] {
					out = out[:n-1]
					flagLiteral = flagLiteral[:n-1]
				}
				continue
			}
			out = append(out, resolved)
			flagLiteral = append(flagLiteral, strings.HasPrefix(token, "-") && !strings.Contains(token, "${"))
		}
	}
	return out
}

func hasArgPrefix(args []string, prefix string) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			return true
		}
	}
	return false
}

func cpSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}
