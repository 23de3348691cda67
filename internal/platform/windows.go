// SPDX-License-Identifier: MPL-2.0

// Package platform holds file naming rules that differ between operating
// systems.
package platform

import "strings"

// reservedDeviceNames cannot be used as a file name stem on Windows, with
// any extension and in any letter case.
var reservedDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// IsWindowsReservedName reports whether name, e.g. "con.ts" or "LPT1",
// names a Windows device. Only the part before the first dot counts, so
// "nul.d.ts" is reserved as well.
func IsWindowsReservedName(name string) bool {
	stem, _, _ := strings.Cut(name, ".")
	_, ok := reservedDeviceNames[strings.ToUpper(strings.TrimRight(stem, " "))]
	return ok
}
