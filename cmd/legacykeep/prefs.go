package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/legacykeep/legacykeep-client/internal/platform/config"
	"github.com/legacykeep/legacykeep-client/internal/platform/database"
	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
	prefsRepo "github.com/legacykeep/legacykeep-client/internal/preferences/repository"
	prefsService "github.com/legacykeep/legacykeep-client/internal/preferences/service"
	"github.com/spf13/cobra"
)

const autoLanguage = "auto"

func newPrefsCmd(a *app) *cobra.Command {
	prefs := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change theme and language",
	}

	prefs.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeRepo, err := openPreferences(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			p, err := svc.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "theme: %s (%s)\n", p.Theme, svc.ResolveTheme(false))
			fmt.Fprintf(cmd.OutOrStdout(), "language: %s\n", p.Language)
			return nil
		},
	})

	prefs.AddCommand(&cobra.Command{
		Use:       "set theme|language VALUE",
		Short:     "Change a preference; language accepts \"auto\" to follow the system locale",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"theme", "language"},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeRepo, err := openPreferences(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer closeRepo()
			if _, err := svc.Load(cmd.Context()); err != nil {
				return err
			}

			key, value := args[0], args[1]
			switch key {
			case "theme":
				err = svc.SetTheme(cmd.Context(), value)
			case "language":
				if value == autoLanguage {
					value = svc.MatchLanguage(systemLocales()...)
				}
				err = svc.SetLanguage(cmd.Context(), value)
			default:
				return fmt.Errorf("unknown preference %q", key)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", key, value)
			return nil
		},
	})
	return prefs
}

// openPreferences uses Postgres when a DSN is configured and the local file
// otherwise.
func openPreferences(ctx context.Context, cfg config.ClientConfig) (*prefsService.Service, func(), error) {
	if cfg.Preferences.DSN == "" {
		return prefsService.NewService(prefsRepo.NewFileRepository(cfg.PreferencesPath)), func() {}, nil
	}

	db, err := database.Connect(ctx, cfg.Preferences.DSN)
	if err != nil {
		logger.Error("Failed to connect to preferences database", err)
		return nil, nil, err
	}
	repo := prefsRepo.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return prefsService.NewService(repo), func() { db.Close() }, nil
}

// systemLocales reads POSIX locale variables in priority order, turning
// "pt_BR.UTF-8" into "pt-BR".
func systemLocales() []string {
	var locales []string
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		locales = append(locales, strings.ReplaceAll(v, "_", "-"))
	}
	return locales
}
