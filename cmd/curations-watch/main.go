package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-curations"
	"github.com/goliatone/go-curations/internal/poller"
	"github.com/goliatone/go-curations/internal/tui"
)

var errRecordRequired = errors.New("either -record or -location-file is required")

// watchOptions are the parsed command line flags.
type watchOptions struct {
	configPath   string
	baseURL      string
	locale       string
	recordID     string
	locationFile string
	published    bool
}

var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model).Run()
	return err
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("curations watch: %v", err)
	}
}

func parseFlags(args []string) (watchOptions, error) {
	fs := flag.NewFlagSet("curations-watch", flag.ContinueOnError)
	var opts watchOptions
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file (defaults apply when empty)")
	fs.StringVar(&opts.baseURL, "base-url", "", "Curations API base URL, overrides api.base_url")
	fs.StringVar(&opts.locale, "locale", "", "Label locale, overrides i18n.locale")
	fs.StringVar(&opts.recordID, "record", "", "ID of a saved record to watch")
	fs.StringVar(&opts.locationFile, "location-file", "", "File holding the deposit form location; the record id is detected from it")
	fs.BoolVar(&opts.published, "published", false, "Treat the record as published")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.recordID == "" && opts.locationFile == "" {
		return opts, errRecordRequired
	}
	return opts, nil
}

func loadConfig(opts watchOptions) (curations.Config, error) {
	cfg := curations.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := curations.LoadConfig(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if opts.baseURL != "" {
		cfg.API.BaseURL = opts.baseURL
	}
	if opts.locale != "" {
		cfg.I18N.Locale = opts.locale
	}
	return cfg, nil
}

func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	module, err := curations.New(cfg)
	if err != nil {
		return fmt.Errorf("initialise curations: %w", err)
	}
	logger := module.Logger("curations.watch")

	record := curations.Record{
		ID:                opts.recordID,
		IsPublished:       opts.published,
		SavedSuccessfully: opts.recordID != "",
	}
	var pollerOpts []curations.PollerOption
	if opts.locationFile != "" {
		pollerOpts = append(pollerOpts, poller.WithIDSource(poller.FileSource(opts.locationFile)))
	}
	p, err := module.NewPoller(record, pollerOpts...)
	if err != nil {
		return err
	}
	defer module.ReleasePoller(p)

	if actor, err := module.LoadActor(ctx); err != nil {
		logger.Warn("watch.actor.unavailable", "error", err)
	} else {
		p.SetActor(actor)
	}

	unsubscribe := module.Commands().Subscribe()
	defer unsubscribe()

	if err := p.Start(ctx); err != nil {
		return err
	}

	model, err := tui.NewModel(p)
	if err != nil {
		return err
	}
	defer model.Close()
	return runProgram(model)
}
