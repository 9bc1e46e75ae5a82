package cpu

import (
	"runtime"
	"strconv"
	"strings"

	syscpu "golang.org/x/sys/cpu"
)

// Features describes the host CPU the backend is running on.
type Features struct {
	Arch    string
	NumCPU  int
	AVX2    bool
	AVX512F bool
	FMA     bool
	NEON    bool
	SVE     bool
}

// DetectFeatures reports the SIMD capabilities of the host CPU.
// The kernels in this package are portable Go; the report lets callers
// (and the CLI) see what a vectorised backend could use.
func DetectFeatures() Features {
	f := Features{
		Arch:   runtime.GOARCH,
		NumCPU: runtime.NumCPU(),
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		f.AVX2 = syscpu.X86.HasAVX2
		f.AVX512F = syscpu.X86.HasAVX512F
		f.FMA = syscpu.X86.HasFMA
	case "arm64":
		f.NEON = syscpu.ARM64.HasASIMD
		f.SVE = syscpu.ARM64.HasSVE
	}
	return f
}

// String renders the detected features as "arch/ncpu +flag +flag".
func (f Features) String() string {
	var b strings.Builder
	b.WriteString(f.Arch)
	b.WriteString("/")
	b.WriteString(strconv.Itoa(f.NumCPU))
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{f.AVX2, "avx2"},
		{f.AVX512F, "avx512f"},
		{f.FMA, "fma"},
		{f.NEON, "neon"},
		{f.SVE, "sve"},
	} {
		if flag.on {
			b.WriteString(" +")
			b.WriteString(flag.name)
		}
	}
	return b.String()
}

// Features returns the host CPU report for this backend.
func (cpu *CPUBackend) Features() Features {
	return DetectFeatures()
}
