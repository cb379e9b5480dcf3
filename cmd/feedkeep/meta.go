package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"feedkeep/internal/atom"
	"feedkeep/internal/feed"
)

// runMeta manages the feed's metadata. With no flags it makes no field
// changes (the updated timestamp still refreshes) and dumps the current
// metadata; this is also the only command that creates a feed from nothing.
func runMeta(env *cmdEnv, args []string) error {
	fs := pflag.NewFlagSet("meta", pflag.ExitOnError)
	title := fs.StringP("title", "t", "", "human-readable title for the feed (required on first call)")
	uri := fs.StringP("uri", "u", "", "unique and permanent URI for this feed (required on first call)")
	subtitle := fs.StringP("subtitle", "s", "", "human-readable description or subtitle")
	removeSubtitle := fs.BoolP("remove-subtitle", "S", false, "clear the subtitle (ignored if --subtitle is also given)")
	icon := fs.StringP("icon", "i", "", "URL of a small identifying image")
	removeIcon := fs.BoolP("remove-icon", "I", false, "clear the icon (ignored if --icon is also given)")
	logo := fs.StringP("logo", "l", "", "URL of a larger identifying image")
	removeLogo := fs.BoolP("remove-logo", "L", false, "clear the logo (ignored if --logo is also given)")
	relLinks := fs.StringArrayP("rel-link", "r", nil,
		"related link with optional [rel=][type=][title=][lang=] suffixes; repeatable")
	removeLinks := fs.BoolP("remove-links", "R", false,
		"clear all links except rel=self; with --rel-link, replace the whole link set instead")
	noGenerator := fs.BoolP("no-generator", "G", env.cfg.NoGenerator,
		"do not write the generator block into the feed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("meta takes no positional arguments, got %q", fs.Args())
	}

	params := feed.MetaParams{
		RemoveSubtitle: *removeSubtitle,
		RemoveIcon:     *removeIcon,
		RemoveLogo:     *removeLogo,
		RemoveLinks:    *removeLinks,
		NoGenerator:    *noGenerator,
	}
	if fs.Changed("title") {
		params.Title = title
	}
	if fs.Changed("uri") {
		params.URI = uri
	}
	if fs.Changed("subtitle") {
		params.Subtitle = subtitle
	}
	if fs.Changed("icon") {
		params.Icon = icon
	}
	if fs.Changed("logo") {
		params.Logo = logo
	}
	for _, raw := range *relLinks {
		link, err := atom.ParseLink(raw)
		if err != nil {
			return err
		}
		params.Links = append(params.Links, link)
	}

	doc, err := env.loadFeed(false)
	if err != nil {
		return err
	}
	doc, err = feed.ApplyMeta(doc, params, env.clock)
	if err != nil {
		return err
	}
	if err := env.saveFeed(env.file, doc); err != nil {
		return err
	}

	fmt.Println(feed.MetaSummary(doc))
	return nil
}
