package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

var msvcBannerRe = regexp.MustCompile(`Version (\d+)\.(\d+)`)

// MSVCBuildVersion runs cl without arguments and converts the banner's
// compiler version into the Visual Studio build version (15.00 -> 9.0).
func MSVCBuildVersion(ctx context.Context, clPath string) (float64, error) {
	// cl prints its banner on stderr and exits non-zero without input
	output, _ := exec.CommandContext(ctx, clPath).CombinedOutput()
	return parseMSVCBanner(string(output))
}

func parseMSVCBanner(banner string) (float64, error) {
	m := msvcBannerRe.FindStringSubmatch(banner)
	if m == nil {
		return 0, fmt.Errorf("unrecognised MSVC banner: %q", banner)
	}

	clMajor, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}
	clMinor, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, err
	}

	major := clMajor - 6
	if major >= 13 {
		// there is no Visual Studio 13
		major++
	}
	minor := float64(clMinor/10) / 10
	if major == 6 {
		minor = 0
	}
	return float64(major) + minor, nil
}

// IsLegacyMSVC reports whether tc is the Visual Studio 2008 (9.0) compiler
// that needs the bundled compatibility headers.
func IsLegacyMSVC(ctx context.Context, tc Toolchain) bool {
	if tc.Kind != KindMSVC {
		return false
	}
	version, err := MSVCBuildVersion(ctx, tc.Path)
	return err == nil && version == 9
}
