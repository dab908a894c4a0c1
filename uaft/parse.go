package uaft

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Suffixes the tool's recursive listing reports for trace artifacts.
const (
	TraceSuffix  = ".trace"
	UTraceSuffix = ".utrace"
)

func splitLines(out string) []string {
	return strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
}

// filterDeviceLines keeps lines that look like device serials: trimmed,
// leading '@' (the tool's default-device marker) stripped, no embedded
// whitespace of any kind, and not the "devices" header.
func filterDeviceLines(lines []string) []string {
	return lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		line = strings.TrimPrefix(strings.TrimSpace(line), "@")
		if line == "" || strings.EqualFold(line, "devices") {
			return "", false
		}
		if strings.ContainsFunc(line, unicode.IsSpace) {
			return "", false
		}
		return line, true
	})
}

// filterPackageLines keeps non-empty lines containing a package separator.
func filterPackageLines(lines []string) []string {
	return lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, line != "" && strings.Contains(line, ".")
	})
}

// filterTraceLines keeps lines naming trace artifacts, in listing order.
func filterTraceLines(lines []string) []string {
	return lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, strings.HasSuffix(line, TraceSuffix) || strings.HasSuffix(line, UTraceSuffix)
	})
}
