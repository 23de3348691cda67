// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"time"

	"github.com/verstraete-jonatan/indexify/internal/config"

	"github.com/spf13/pflag"
)

type (
	// rootFlagValues holds the flag bindings of one command tree. Keeping
	// them per tree lets tests build fresh commands without global state.
	rootFlagValues struct {
		configPath  string
		verbose     bool
		root        string
		exts        extensionList
		indexFile   string
		ignore      []string
		watch       bool
		header      bool
		concurrency int
		debounce    time.Duration

		check  bool
		dryRun bool
	}

	// extensionList is a repeatable, comma-separated --ext value.
	extensionList []config.Extension
)

// bindConfigFlags registers the flags that override configuration keys.
// They are persistent so that subcommands resolve the same configuration.
func bindConfigFlags(fs *pflag.FlagSet, f *rootFlagValues) {
	fs.StringVarP(&f.configPath, "config", "c", "", "config file (default: indexify.conf.{json,cue,toml} in the working directory)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose output")
	fs.StringVarP(&f.root, "root", "r", "", "root directory to index")
	fs.VarP(&f.exts, "ext", "e", "supported file extension, repeatable (e.g. --ext .ts --ext .tsx)")
	fs.StringVar(&f.indexFile, "index-file", "", "name of the generated index file (default \"index.ts\")")
	fs.StringArrayVar(&f.ignore, "ignore", nil, "doublestar pattern of directories to skip, repeatable")
	fs.BoolVarP(&f.watch, "watch", "w", false, "keep running and regenerate on every change")
	fs.BoolVar(&f.header, "header", false, "prefix generated files with a do-not-edit banner")
	fs.IntVarP(&f.concurrency, "concurrency", "j", config.DefaultConcurrency, "directories processed in parallel")
	fs.DurationVar(&f.debounce, "debounce", 0, "wait for changes to settle before regenerating in watch mode")
}

// bindGenerateFlags registers the mode flags of the root command.
func bindGenerateFlags(fs *pflag.FlagSet, f *rootFlagValues) {
	fs.BoolVar(&f.check, "check", false, "report stale index files without writing; exit 1 if any")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "print the index files that would be written")
}

// overrides returns the configuration keys set on the command line.
func (f *rootFlagValues) overrides(changed func(string) bool) map[string]any {
	out := make(map[string]any)
	if changed("root") {
		out["rootPath"] = f.root
	}
	if changed("ext") {
		out["supportedExtensions"] = f.exts.strings()
	}
	if changed("index-file") {
		out["indexFileName"] = f.indexFile
	}
	if changed("ignore") {
		out["ignore"] = f.ignore
	}
	if changed("watch") {
		out["watch"] = f.watch
	}
	if changed("header") {
		out["header"] = f.header
	}
	if changed("concurrency") {
		out["concurrency"] = f.concurrency
	}
	if changed("debounce") {
		out["debounce"] = f.debounce
	}
	return out
}

func (l *extensionList) String() string {
	return strings.Join(l.strings(), ",")
}

// Set accepts "ts", ".ts" and comma-separated lists of either.
func (l *extensionList) Set(value string) error {
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" && !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		ext := config.Extension(part)
		if err := ext.Validate(); err != nil {
			return err
		}
		*l = append(*l, ext)
	}
	return nil
}

func (l *extensionList) Type() string { return "ext" }

func (l extensionList) strings() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.String()
	}
	return out
}
