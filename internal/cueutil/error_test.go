// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{path: nil, want: ""},
		{path: []string{"rootPath"}, want: "rootPath"},
		{path: []string{"extensions", "0"}, want: "extensions[0]"},
		{path: []string{"a", "2", "b", "10"}, want: "a[2].b[10]"},
		{path: []string{"0"}, want: "0"},
		{path: []string{"#Config", "supportedExtensions", "1"}, want: "supportedExtensions[1]"},
		{path: []string{"#Config"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, "/"), func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatError_NonCUE(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x") != nil {
		t.Error("FormatError(nil) should be nil")
	}
	cause := errors.New("plain")
	err := FormatError(cause, "indexify.conf.toml")
	if !errors.Is(err, cause) {
		t.Error("non-CUE errors should stay wrapped")
	}
	if !strings.HasPrefix(err.Error(), "indexify.conf.toml: ") {
		t.Errorf("error = %q, want file prefix", err)
	}
}

func TestFormatError_ConstraintViolation(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testSettings](testSchema, []byte(`{"tags": [".ts", "tsx"]}`), "#Settings",
		WithFilename("settings.json"))
	if err == nil {
		t.Fatal("expected a validation error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "settings.json: tags[1]: ") {
		t.Errorf("error = %q, want file and bracket path prefix", msg)
	}
	for _, unwanted := range []string{"#Settings", "tags.1", "settings.json: settings.json"} {
		if strings.Contains(msg, unwanted) {
			t.Errorf("error = %q, should not contain %q", msg, unwanted)
		}
	}
}

func TestFormatError_MultipleErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[map[string]any](testSchema, []byte(`{"name": "", "count": 0}`), "#Settings",
		WithFilename("multi.json"))
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "multi.json: validation failed:") {
		t.Errorf("error = %q, want a multi-line summary", msg)
	}
	for _, want := range []string{"name", "count"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error = %q, want mention of %q", msg, want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "f"); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if err := CheckFileSize(make([]byte, 11), 10, "f"); err == nil {
		t.Error("over limit should fail")
	}
}
