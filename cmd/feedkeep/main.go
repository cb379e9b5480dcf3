// feedkeep maintains an on-disk Atom feed document: set feed metadata, add
// entries, prune old entries into a reject file, and import entries from
// other feed files.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"feedkeep/internal/atom"
	"feedkeep/internal/config"
	"feedkeep/internal/feed"
	"feedkeep/internal/storage"
)

// Version will be set during build
var Version = "dev"

type cmdEnv struct {
	cfg    config.Config
	file   string
	noOp   bool
	logger *log.Logger
	clock  feed.Clock
}

func main() {
	logger := log.New(os.Stderr, "feedkeep: ", 0)

	cfg := config.GetConfig()
	feed.GeneratorVersion = Version

	global := pflag.NewFlagSet("feedkeep", pflag.ExitOnError)
	global.SetInterspersed(false)
	filePath := global.StringP("file", "f", cfg.FeedPath, "path to Atom feed")
	noOp := global.BoolP("no-op", "n", false, "do not write anything to disk, but still show what would change")
	showVersion := global.Bool("version", false, "print version information")
	global.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: feedkeep [flags] <meta|add|prune|import|version> [args]\n\nflags:\n")
		global.PrintDefaults()
	}
	global.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("feedkeep %s\n", Version)
		return
	}

	args := global.Args()
	if len(args) == 0 {
		global.Usage()
		os.Exit(2)
	}

	env := &cmdEnv{
		cfg:    cfg,
		file:   *filePath,
		noOp:   *noOp,
		logger: logger,
		clock:  feed.SystemClock,
	}

	var err error
	switch args[0] {
	case "meta":
		err = runMeta(env, args[1:])
	case "add":
		err = runAdd(env, args[1:])
	case "prune":
		err = runPrune(env, args[1:])
	case "import":
		err = runImport(env, args[1:])
	case "version":
		fmt.Printf("feedkeep %s\n", Version)
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		logger.Fatalf("%v", err)
	}
}

// loadFeed reads the primary document. Only meta may operate on a missing
// document, so everything else passes required=true and gets a plain error.
func (e *cmdEnv) loadFeed(required bool) (*atom.Feed, error) {
	doc, err := storage.Load(e.file)
	if err != nil {
		if !required && errors.Is(err, storage.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// saveFeed persists the document unless no-op mode is on. No-op mode still
// runs the encode step so a run previews exactly what a real one would
// produce; only the write is suppressed.
func (e *cmdEnv) saveFeed(path string, doc *atom.Feed) error {
	if e.noOp {
		if _, err := atom.Encode(doc); err != nil {
			return err
		}
		e.logger.Printf("not writing %s to disk because no-op was requested", path)
		return nil
	}
	return storage.Save(path, doc)
}
