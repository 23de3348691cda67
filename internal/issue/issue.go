// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigNotFoundId Id = iota + 1
	ConfigInvalidId
	RootNotFoundId
	RootNotADirectoryId
	ReadFailedId
	WriteFailedId
	WatchFailedId
	StaleIndexId
)

type (
	MarkdownMsg string

	HttpLink string

	// Issue is a catalog entry with Markdown guidance for a known failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the entry with the named glamour style ("dark", "light",
// "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# No configuration found!

indexify looks for one of these files in the working directory:

- indexify.conf.json
- indexify.conf.cue
- indexify.conf.toml

## Things you can try:
- Create one with the defaults:
~~~
$ indexify init
~~~

- Or skip the file and pass the root directly:
~~~
$ indexify --root ./src
~~~

- Or point at a file elsewhere:
~~~
$ indexify --config path/to/indexify.conf.json
~~~`,
	}

	configInvalidIssue = &Issue{
		id: ConfigInvalidId,
		mdMsg: `
# Invalid configuration!

The configuration file could not be parsed or does not match the schema.

## Expected shape:
~~~json
{
  "rootPath": "./src",
  "supportedExtensions": [".ts", ".tsx"],
  "indexFileName": "index.ts",
  "watch": false
}
~~~

## Things you can try:
- Extensions must start with a dot and contain no path separators
- The index file name must be a plain file name, not a path
- Print the effective configuration:
~~~
$ indexify config show
~~~`,
	}

	rootNotFoundIssue = &Issue{
		id: RootNotFoundId,
		mdMsg: `
# Root directory not found!

The configured rootPath does not exist. Nothing was written.

## Things you can try:
- Check the path in your configuration file
- Relative paths are resolved from the working directory, not from the
  configuration file`,
	}

	rootNotADirectoryIssue = &Issue{
		id: RootNotADirectoryId,
		mdMsg: `
# Root is not a directory!

rootPath must name a directory. Nothing was written.

## Things you can try:
- Point rootPath at the folder that contains your sources`,
	}

	readFailedIssue = &Issue{
		id: ReadFailedId,
		mdMsg: `
# Could not read a directory!

A directory below the root could not be listed, so the pass was abandoned
before anything was written.

## Common causes:
- Missing read or execute permission
- A symbolic link pointing at a directory or at nothing

## Things you can try:
- Fix the permissions of the reported path
- Exclude it with an ignore pattern:
~~~json
"ignore": ["vendor", "**/__generated__"]
~~~`,
	}

	writeFailedIssue = &Issue{
		id: WriteFailedId,
		mdMsg: `
# Some index files could not be written!

Every other directory was still updated. The failed paths are listed above.

## Common causes:
- The directory is read-only
- A directory already exists with the index file's name

## Things you can try:
- Fix the permissions and run indexify again; passes are idempotent`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# File watching stopped!

The operating system refused to deliver more change notifications.

## Things you can try:
- On Linux, raise the inotify watch limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~

- Ignore large generated folders so fewer directories are watched`,
		extLinks: []HttpLink{"https://man7.org/linux/man-pages/man7/inotify.7.html"},
	}

	staleIndexIssue = &Issue{
		id: StaleIndexId,
		mdMsg: `
# Index files are out of date!

At least one index file differs from what indexify would generate.

## Things you can try:
- Regenerate them:
~~~
$ indexify
~~~`,
	}

	issues = map[Id]*Issue{
		configNotFoundIssue.Id():    configNotFoundIssue,
		configInvalidIssue.Id():     configInvalidIssue,
		rootNotFoundIssue.Id():      rootNotFoundIssue,
		rootNotADirectoryIssue.Id(): rootNotADirectoryIssue,
		readFailedIssue.Id():        readFailedIssue,
		writeFailedIssue.Id():       writeFailedIssue,
		watchFailedIssue.Id():       watchFailedIssue,
		staleIndexIssue.Id():        staleIndexIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
