// Package estimate derives estimated runtimes and simulated resource
// metrics from a job's command text. Everything here is a deterministic
// guess from the command string, not an OS measurement.
package estimate

import (
	"regexp"
	"strconv"
	"strings"
)

var sleepPattern = regexp.MustCompile(`\bsleep\s+(\d+)\b`)

// Runtime derives the estimated runtime in seconds from command text.
// A literal "sleep N" is taken at face value; otherwise a 5s base is
// scaled up for loops, I/O-heavy tools, builds, and network fetches,
// plus a small length bonus.
func Runtime(command string) float64 {
	if m := sleepPattern.FindStringSubmatch(command); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return float64(n)
		}
	}

	seconds := 5.0
	lower := strings.ToLower(command)

	if containsAny(lower, "for", "while") {
		seconds *= 3
	}
	if containsAny(lower, "find", "grep") {
		seconds *= 2
	}
	if containsAny(lower, "make", "compile") {
		seconds *= 5
	}
	if containsAny(lower, "wget", "curl", "download") {
		seconds *= 4
	}

	seconds += float64(len(command)) / 20.0
	return seconds
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if wordBoundaryContains(s, w) {
			return true
		}
	}
	return false
}

func wordBoundaryContains(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		pos := idx + i
		before := pos == 0 || !isWordChar(s[pos-1])
		after := pos+len(word) >= len(s) || !isWordChar(s[pos+len(word)])
		if before && after {
			return true
		}
		idx = pos + 1
	}
}

func isWordChar(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// Metrics are the simulated per-job resource numbers populated at job
// start.
type Metrics struct {
	CPUUtilization  float64
	MemoryUsageMB   int
	ContextSwitches int
}

// Simulate derives Metrics from command text. Loop-bearing, build, and
// I/O-heavy commands get a higher CPU figure; every figure also varies
// with the command's length, taken modulo a fixed range, so a longer
// command is not always heavier. The numbers feed job records
// and per-core utilization reporting; nothing ever samples the real
// process.
func Simulate(command string) Metrics {
	lower := strings.ToLower(command)
	base := 10.0 + float64(len(command)%50)

	switch {
	case containsAny(lower, "for", "while"):
		base += 30
	case containsAny(lower, "make", "compile"):
		base += 45
	case containsAny(lower, "find", "grep"):
		base += 15
	}

	if base > 100 {
		base = 100
	}

	mem := 32 + (len(command)*7)%512
	switches := 100 + (len(command)*13)%5000

	return Metrics{
		CPUUtilization:  base,
		MemoryUsageMB:   mem,
		ContextSwitches: switches,
	}
}
