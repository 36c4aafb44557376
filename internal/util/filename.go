package util

import (
	"regexp"
	"strings"
)

var (
	controlChars  = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	reservedChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	reservedNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}
)

// SanitizeFilename makes name safe to use as a single file name on Windows,
// macOS and Linux. Path separators and the pipe character never survive, so
// the result can be joined to a URL with "|".
func SanitizeFilename(name string) string {
	safe := controlChars.ReplaceAllString(name, "")
	safe = reservedChars.ReplaceAllString(safe, "-")

	safe = strings.TrimRight(safe, " .")
	for strings.HasPrefix(safe, ".") || strings.HasPrefix(safe, "-") || strings.HasPrefix(safe, " ") {
		safe = safe[1:]
	}
	if safe == "" {
		return "untitled"
	}

	base, ext, _ := strings.Cut(safe, ".")
	if reservedNames[strings.ToUpper(base)] {
		safe = base + "_"
		if ext != "" {
			safe += "." + ext
		}
	}
	return safe
}
