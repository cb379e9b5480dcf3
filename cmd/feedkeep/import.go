package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"feedkeep/internal/importer"
)

// runImport adds the items of a local RSS/Atom/JSON feed file to the feed.
func runImport(env *cmdEnv, args []string) error {
	fs := pflag.NewFlagSet("import", pflag.ExitOnError)
	replace := fs.Bool("replace", false, "overwrite existing entries with the same id")
	sanitize := fs.Bool("sanitize", false, "sanitize imported html content")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("import wants exactly one argument, the feed file to import")
	}

	doc, err := env.loadFeed(true)
	if err != nil {
		return err
	}
	result, err := importer.ImportFile(doc, fs.Arg(0), importer.Options{
		Sanitize: *sanitize,
		Replace:  *replace,
	}, env.clock, env.logger)
	if err != nil {
		return err
	}
	if result.Added > 0 {
		if err := env.saveFeed(env.file, doc); err != nil {
			return err
		}
	}

	fmt.Printf("imported %d entries (%d skipped); feed now has %d entries\n",
		result.Added, result.Skipped, len(doc.Entries))
	return nil
}
