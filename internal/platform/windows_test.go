// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"CON":       true,
		"con.ts":    true,
		"Nul.d.ts":  true,
		"lpt9.js":   true,
		"COM1":      true,
		"aux .ts":   true,
		"index.ts":  false,
		"console":   false,
		"com10.ts":  false,
		".con":      false,
		"":          false,
		"prn_a.tsx": false,
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := IsWindowsReservedName(name); got != want {
				t.Errorf("IsWindowsReservedName(%q) = %v, want %v", name, got, want)
			}
		})
	}
}
