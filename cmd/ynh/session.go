package main

import (
	"context"

	"github.com/raphi011/ynh/internal/config"
	"github.com/raphi011/ynh/internal/i18n"
	"github.com/raphi011/ynh/internal/log"
	"github.com/raphi011/ynh/internal/schema"
	"github.com/raphi011/ynh/internal/settings"
	"github.com/raphi011/ynh/internal/store"
)

// openSession loads the schema, the override store and the message
// catalogs named by cfg.
func openSession(ctx context.Context, cfg *config.Config) (*settings.Session, error) {
	l := log.FromContext(ctx)

	s, err := schema.LoadFile(ctx, cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	overrides, err := store.Load(ctx, cfg.StorePath)
	if err != nil {
		return nil, err
	}
	l.Debug("override store loaded", "path", cfg.StorePath, "entries", overrides.Len())

	translate := i18n.Identity
	var available []string
	catalog, err := i18n.LoadCatalog(cfg.LocalesDir)
	if err != nil {
		// Labels fall back to option ids.
		l.Warn("cannot load translations", "dir", cfg.LocalesDir, "err", err)
	} else {
		translate = catalog.Translate
		available = catalog.Locales()
	}

	requested := cfg.Locale
	if requested == "" {
		requested = i18n.SystemLocale()
	}
	locale := i18n.MatchLocale(available, requested)
	l.Debug("locale", "requested", requested, "using", locale)

	return settings.NewSession(ctx, s, overrides, translate, locale)
}
