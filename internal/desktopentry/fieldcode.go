// SPDX-License-Identifier: MPL-2.0

package desktopentry

import "strings"

// fieldCodes lists the Exec field codes removed by StripFieldCodes, in the
// order they are applied. The escaped percent sign goes last, so "%%f"
// loses its "%f" first and leaves a single "%" behind.
var fieldCodes = []string{
	"%f", "%F", "%u", "%U", "%d", "%D", "%n", "%N",
	"%i", "%c", "%k", "%v", "%m",
	"%%",
}

// FieldCodes returns a copy of the recognized field code tokens.
func FieldCodes() []string {
	out := make([]string, len(fieldCodes))
	copy(out, fieldCodes)
	return out
}

// StripFieldCodes removes every occurrence of each recognized field code
// from exec using plain substring replacement. It is not escape aware and
// does not tokenize: surrounding whitespace is left exactly as it was, so
// "editor %f" becomes "editor ".
func StripFieldCodes(exec string) string {
	for _, code := range fieldCodes {
		exec = strings.ReplaceAll(exec, code, "")
	}
	return exec
}
