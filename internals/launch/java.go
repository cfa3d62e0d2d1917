package launch

import (
	"math"

	"github.com/Masterminds/semver/v3"
	"github.com/pbnjay/memory"

	"github.com/launchbox/launchbox/internals/minecraft"
)

// JavaMajor returns the java major version a descriptor wants.
// Descriptors since 21w19a record it themselves; for older ones the
// minecraft version decides: 1.17 bumped the requirement to 16, 1.18
// to 17, everything before runs on 8.
func JavaMajor(desc *minecraft.VersionDescriptor) int {
	if desc.JavaVersion != nil && desc.JavaVersion.MajorVersion != 0 {
		return desc.JavaVersion.MajorVersion
	}

	mc, err := semver.NewVersion(desc.ID)
	if err != nil {
		// snapshots and loader profiles don't parse, assume current
		return 17
	}
	switch {
	case mc.GreaterThan(semver.MustParse("1.17.0")) || mc.Equal(semver.MustParse("1.17.0")):
		if mc.GreaterThan(semver.MustParse("1.18.0")) || mc.Equal(semver.MustParse("1.18.0")) {
			return 17
		}
		return 16
	default:
		return 8
	}
}

// defaultMaxHeapMB sizes the heap when the caller does not: a quarter
// of system memory, at least 1 GiB, at most 85% of what the machine has
func defaultMaxHeapMB() int {
	sysMiB := float64(memory.TotalMemory()) / 1024 / 1024
	if sysMiB == 0 {
		return 2048
	}

	maxMiB := math.Max(1024, sysMiB/4)
	maxMiB = math.Min(maxMiB, sysMiB*0.85)
	return int(maxMiB)
}
