// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"
)

func TestValues_CoversEveryId(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(StaleIndexId) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), StaleIndexId)
	}
	for i, iss := range values {
		if want := Id(i + 1); iss.Id() != want {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, iss.Id(), want)
		}
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no message", iss.Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if Get(ConfigNotFoundId) == nil {
		t.Error("Get(ConfigNotFoundId) = nil")
	}
	if Get(Id(0)) != nil {
		t.Error("Get(0) should be nil")
	}
	if !strings.Contains(string(Get(ConfigNotFoundId).MarkdownMsg()), "indexify init") {
		t.Error("ConfigNotFound guidance should mention 'indexify init'")
	}
}

func TestIssue_ExtLinksReturnsCopy(t *testing.T) {
	t.Parallel()

	iss := Get(WatchFailedId)
	links := iss.ExtLinks()
	if len(links) == 0 {
		t.Fatal("WatchFailed should carry an external link")
	}
	links[0] = "mutated"
	if iss.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() exposed the internal slice")
	}
}

// Not parallel: swaps the package-level renderer.
func TestIssue_RenderAppendsLinks(t *testing.T) {
	original := render
	t.Cleanup(func() { render = original })

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	out, err := Get(WatchFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if gotStyle != "notty" {
		t.Errorf("style = %q, want notty", gotStyle)
	}
	if !strings.Contains(out, "## See also:") || !strings.Contains(out, "inotify.7.html") {
		t.Errorf("Render() output lacks links:\n%s", out)
	}

	out, err = Get(StaleIndexId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(out, "See also") {
		t.Error("issue without links should not render a See also section")
	}
}

func TestAllIssuesRenderWithGlamour(t *testing.T) {
	t.Parallel()

	for _, iss := range Values() {
		out, err := glamour.Render(string(iss.MarkdownMsg()), "notty")
		if err != nil {
			t.Errorf("issue %d: render error: %v", iss.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered empty", iss.Id())
		}
	}
}
