// Package lifecycle drives a whole build or clean run: it enters the
// project root, collects metadata and include paths, runs the generator
// and the extension builder, and hands the result to the packager.
package lifecycle

// RunMode selects what a run does.
type RunMode int

const (
	ModeBuild RunMode = iota
	ModeClean
)

func (m RunMode) String() string {
	if m == ModeClean {
		return "clean"
	}
	return "build"
}

// ParseMode picks the mode from the command-line arguments following the
// program name. Only a leading "clean" selects ModeClean.
func ParseMode(args []string) RunMode {
	if len(args) > 0 && args[0] == "clean" {
		return ModeClean
	}
	return ModeBuild
}
