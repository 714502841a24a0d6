package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mhagen/workmain/internal/credential"
	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/provider"
	"github.com/mhagen/workmain/internal/report"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/internal/theme"
)

// app holds the lazily-opened shared state behind every command.
type app struct {
	configPath string
	dbPath     string

	cfg   *model.AppConfig
	store *store.SQLiteStore
}

// open loads the configuration and opens the database. Commands call
// it from RunE so that --help and flag errors never touch the disk.
func (a *app) open() error {
	if a.store != nil {
		return nil
	}

	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}

	a.cfg = cfg
	a.store = s
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// assembler builds the report pipeline from the configured providers,
// pulling API keys from the system keyring.
func (a *app) assembler() (*report.Assembler, error) {
	primary, err := buildGenerator(a.cfg.Primary)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, fmt.Errorf("no primary provider configured; set primary_provider.kind in %s", a.configPath)
	}

	secondary, err := buildGenerator(a.cfg.Secondary)
	if err != nil {
		return nil, err
	}

	chain := &provider.Chain{
		Primary:         primary,
		Secondary:       secondary,
		PrimaryAttempts: a.cfg.Generation.PrimaryAttempts,
		Timeout:         time.Duration(a.cfg.Generation.TimeoutSec) * time.Second,
	}
	return report.New(a.store, chain, a.cfg.Generation.MinReportLength), nil
}

func buildGenerator(cfg model.ProviderConfig) (provider.Generator, error) {
	switch cfg.Kind {
	case "":
		return nil, nil
	case "anthropic":
		key, err := credential.Get(credential.KeyAnthropic)
		if err != nil {
			return nil, fmt.Errorf("anthropic api key: %w (run: workmain auth set anthropic)", err)
		}
		return provider.NewAnthropic(key, cfg.Model, cfg.MaxTokens, cfg.BaseURL), nil
	case "openai":
		key, err := credential.Get(credential.KeyOpenAI)
		if err != nil {
			return nil, fmt.Errorf("openai api key: %w (run: workmain auth set openai)", err)
		}
		return provider.NewOpenAI(key, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
	}
}

// resolveClient returns the named client, or the active client from
// system state when name is empty. Empty name with no active client
// returns nil.
func (a *app) resolveClient(ctx context.Context, name string) (*model.Client, error) {
	if name == "" {
		stored, err := a.store.GetState(ctx, store.StateActiveClient)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		name = stored
	}
	client, err := a.store.GetClientByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("client %q: %w", name, err)
	}
	return client, nil
}

// resolveProject maps a project name to its id, or nil for empty input.
func (a *app) resolveProject(ctx context.Context, name string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	project, err := a.store.GetProjectByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	return &project.ID, nil
}

// parseDate parses a YYYY-MM-DD flag value; empty means now.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

func errorLine(err error) string {
	return theme.ErrorStyle.Render("error:") + " " + err.Error()
}

func successLine(msg string) string {
	return theme.SuccessStyle.Render("ok:") + " " + msg
}

func warnLine(msg string) string {
	return theme.WarnStyle.Render("warning:") + " " + msg
}
