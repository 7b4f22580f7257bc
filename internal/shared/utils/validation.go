package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// ReservedNamePattern matches the characters a portable file name may not contain
var ReservedNamePattern = regexp.MustCompile(`[<>:"/\\|?*]`)

// rootIdentifiers are spellings of an OS root that must never become a file name
var rootIdentifiers = map[string]struct{}{
	"/":   {},
	`\`:   {},
	"C:":  {},
	`C:\`: {},
	"C:/": {},
}

// ValidateName checks a single path component supplied by the user for
// create, rename, archive and extract operations. Limits of the target
// filesystem, such as name length, are left to the OS call.
func ValidateName(candidate string) error {
	if candidate == "" {
		return fmt.Errorf("%w: name is empty", types.ErrInvalidName)
	}

	if candidate == "." || candidate == ".." {
		return fmt.Errorf("%w: %q is reserved", types.ErrInvalidName, candidate)
	}

	if ReservedNamePattern.MatchString(candidate) {
		return fmt.Errorf("%w: %q contains one of < > : \" / \\ | ? *", types.ErrInvalidName, candidate)
	}

	if isRootIdentifier(candidate) {
		return fmt.Errorf("%w: %q names a filesystem root", types.ErrInvalidName, candidate)
	}

	return nil
}

func isRootIdentifier(candidate string) bool {
	if _, ok := rootIdentifiers[strings.ToUpper(candidate)]; ok {
		return true
	}
	// Any drive letter, not only C
	if len(candidate) >= 2 && len(candidate) <= 3 && candidate[1] == ':' {
		c := candidate[0] | 0x20
		return c >= 'a' && c <= 'z' && (len(candidate) == 2 || candidate[2] == '/' || candidate[2] == '\\')
	}
	return false
}
