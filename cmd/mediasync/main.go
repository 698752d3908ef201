// Command mediasync reconciles the site's Strapi media catalog against
// the Cloudinary account holding the images.
package main

import (
	"fmt"
	"os"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/adapters/driven/cloudinary"
	configfile "github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/adapters/driven/config/file"
	reportsqlite "github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/adapters/driven/report/sqlite"
	statefile "github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/adapters/driven/state/file"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/adapters/driven/strapi"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/adapters/driven/urlcheck"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/adapters/driving/cli"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driving"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.Load("")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	states, err := statefile.NewStateStore(cfg.Sync.DataDir)
	if err != nil {
		return err
	}
	reports, err := reportsqlite.NewStore(cfg.Sync.DataDir)
	if err != nil {
		return err
	}
	defer reports.Close()

	source := cloudinary.NewClient(cloudinary.Config{
		CloudName:  cfg.Cloudinary.CloudName,
		APIKey:     cfg.Cloudinary.APIKey,
		APISecret:  cfg.Cloudinary.APISecret,
		RootFolder: cfg.Cloudinary.RootFolder,
	})
	catalog := strapi.NewClient(strapi.Config{
		BaseURL: cfg.Strapi.BaseURL,
		Token:   cfg.Strapi.Token,
	})
	checker := urlcheck.NewChecker()

	factory := func(opts services.Options, confirm driven.Confirmer) driving.Pipeline {
		return services.NewPipeline(
			source, catalog, states, reports, checker, confirm,
			cfg.Cloudinary.RootFolder, cfg.Strapi.AssetRoot, opts,
		)
	}

	return cli.Execute(factory, reports)
}
