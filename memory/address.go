// Package memory - reads raw bytes out of another process's address space.
//
// The OS-level read is a Source. Reader wraps a Source with the rules every read
// follows: zero-length requests never reach the source, lengths come from the pixel
// format catalog with overflow checks, and short reads are failures.
package memory

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/common"
)

// ParseAddress parses a hexadecimal address such as "0x7ffd1234" or "7FFD1234".
// Surrounding whitespace and a single 0x or 0X prefix are ignored. The result is
// not checked against any address-space limit.
//
// Arguments:
//   - s: The address text.
//
// Returns:
//   - uint64: The address.
//   - error: ErrMalformedAddress if the text is empty, not hexadecimal or wider than 64 bits.
func ParseAddress(s string) (uint64, error) {
	digits := strings.TrimSpace(s)
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}
	if digits == "" {
		return 0, errors.Wrapf(common.ErrMalformedAddress, "%q has no digits", s)
	}
	// Base 16 rejects signs, underscores and a second prefix.
	addr, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, errors.Wrapf(common.ErrMalformedAddress, "%q does not fit in 64 bits", s)
		}
		return 0, errors.Wrapf(common.ErrMalformedAddress, "%q is not hexadecimal", s)
	}
	return addr, nil
}

// FormatAddress renders addr the way ParseAddress reads it back.
func FormatAddress(addr uint64) string {
	return "0x" + strconv.FormatUint(addr, 16)
}
