//go:build !tinygo

package strconvx

import "strconv"

// Signature parity with strconv; host builds delegate straight through.

func Itoa(i int) string                    { return strconv.Itoa(i) }
func FormatInt(i int64, base int) string   { return strconv.FormatInt(i, base) }
func FormatUint(u uint64, base int) string { return strconv.FormatUint(u, base) }
