package naming

import (
	"fmt"
	"strings"
)

const invalidDirChars = `/\:*?"<>|`

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidateDirName checks that name is usable as a single directory component
// on every platform the exporter targets. Invalid names are reported, never
// sanitized.
func ValidateDirName(name string) error {
	if name == "" {
		return fmt.Errorf("empty directory name")
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("directory name %q has leading or trailing whitespace", name)
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("directory name %q must not start or end with a dot", name)
	}
	if i := strings.IndexAny(name, invalidDirChars); i >= 0 {
		return fmt.Errorf("directory name %q contains invalid character %q", name, name[i])
	}
	for _, r := range name {
		if r < 0x20 {
			return fmt.Errorf("directory name %q contains a control character", name)
		}
	}
	stem, _, _ := strings.Cut(name, ".")
	if reservedNames[strings.ToUpper(stem)] {
		return fmt.Errorf("directory name %q is a reserved device name", name)
	}
	return nil
}
