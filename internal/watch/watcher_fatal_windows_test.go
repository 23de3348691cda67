// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want bool
	}{
		"handle limit":           {err: errnoTooManyOpenFiles, want: true},
		"invalid handle":         {err: errnoInvalidHandle, want: true},
		"out of memory":          {err: errnoNotEnoughMemory, want: true},
		"wrapped invalid handle": {err: fmt.Errorf("read changes: %w", errnoInvalidHandle), want: true},
		"access denied":          {err: syscall.Errno(5), want: false},
		"file not found":         {err: syscall.Errno(2), want: false},
		"plain error":            {err: errors.New("buffer overflow"), want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := isFatalFsnotifyError(tt.err); got != tt.want {
				t.Errorf("isFatalFsnotifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
