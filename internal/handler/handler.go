// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the admin panel screens.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/finpanel/internal/analytics"
	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/cache"
	"github.com/olegiv/finpanel/internal/catalog"
	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/logging"
	"github.com/olegiv/finpanel/internal/media"
	"github.com/olegiv/finpanel/internal/middleware"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/preview"
	"github.com/olegiv/finpanel/internal/relation"
	"github.com/olegiv/finpanel/internal/render"
	"github.com/olegiv/finpanel/internal/scheduler"
)

// Admin routes
const (
	redirectAdmin = "/admin"
	pathTaxonomy  = "/admin/taxonomy/"
)

// Resource names used in logs, change notifications and navigation.
const (
	resourceProducts      = "products"
	resourceServices      = "services"
	resourceHeroSlides    = "hero-slides"
	resourceCTASlides     = "cta-slides"
	resourceFooter        = "footer"
	resourceExchangeRates = "exchange-rates"
	resourceTaxonomy      = "taxonomy"
)

// Deps are the services shared by every admin screen.
type Deps struct {
	Renderer  *render.Renderer
	Preview   *preview.Renderer
	Sessions  *scs.SessionManager
	Backend   *backend.Client
	Catalog   *catalog.Store
	Taxonomy  *catalog.Taxonomy
	Previews  *media.Previews
	Uploader  *media.Uploader
	Relations *relation.Pool
	Analytics *analytics.Client
	Jobs      *scheduler.Registry
	Logs      *logging.RecentHandler
	Cache     cache.Cache

	// Notify is told about every successful save or delete, after the
	// local catalogs were refreshed.
	Notify editor.ChangeFunc

	Charts         analytics.ChartOptions
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Admin owns the editor registries and wires every screen into a router.
type Admin struct {
	deps *Deps

	products      *Screen[model.Product]
	services      *Screen[model.Service]
	heroSlides    *Screen[model.HeroSlide]
	ctaSlides     *Screen[model.CTASlide]
	footer        *Screen[model.Footer]
	exchangeRates *Screen[model.ExchangeRateConfig]
	taxonomies    map[model.TaxonomyKind]*Screen[model.TaxonomyItem]

	productRelations *RelationHandler[model.Product]
	serviceRelations *RelationHandler[model.Service]

	dashboard *DashboardHandler
	jobs      *JobsHandler
	mediaH    *MediaHandler
}

// NewAdmin builds every screen over deps.
func NewAdmin(deps *Deps) *Admin {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	a := &Admin{deps: deps}

	a.products = newProductScreen(deps, a.changed)
	a.services = newServiceScreen(deps, a.changed)
	a.heroSlides = newHeroSlideScreen(deps, a.changed)
	a.ctaSlides = newCTASlideScreen(deps, a.changed)
	a.footer = newFooterScreen(deps, a.changed)
	a.exchangeRates = newExchangeRateScreen(deps, a.changed)
	a.taxonomies = make(map[model.TaxonomyKind]*Screen[model.TaxonomyItem], len(model.TaxonomyKinds))
	for _, kind := range model.TaxonomyKinds {
		a.taxonomies[kind] = newTaxonomyScreen(deps, kind, a.changed)
	}

	a.productRelations = newRelationHandler(deps, a.products, deps.Backend.ProductRelations(), model.ProductRelationKinds,
		model.Product.Relations, (*model.Product).SetRelations, a.changed)
	a.serviceRelations = newRelationHandler(deps, a.services, deps.Backend.ServiceRelations(), model.ServiceRelationKinds,
		model.Service.Relations, (*model.Service).SetRelations, a.changed)
	a.products.cfg.Extra = productExtra(deps, a.productRelations)
	a.services.cfg.Extra = serviceExtra(a.serviceRelations)

	a.dashboard = NewDashboardHandler(deps)
	a.jobs = NewJobsHandler(deps)
	a.mediaH = NewMediaHandler(deps)
	return a
}

// Routes mounts the admin screens on r.
func (a *Admin) Routes(r chi.Router) {
	r.Get("/media/preview/{id}", a.mediaH.ServePreview)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Get("/", a.dashboard.Dashboard)
		r.Get("/analytics/charts/trend", a.dashboard.TrendChart)
		r.Get("/analytics/charts/devices", a.dashboard.DeviceChart)
		r.Post("/language", a.SwitchLanguage)

		r.Post("/jobs/{name}/run", a.jobs.Run)
		r.Post("/jobs/{name}/schedule", a.jobs.UpdateSchedule)
		r.Post("/jobs/{name}/reset", a.jobs.ResetSchedule)

		r.Route("/products", func(r chi.Router) {
			a.productRelations.Routes(r)
			a.products.Routes(r)
		})
		r.Route("/services", func(r chi.Router) {
			a.serviceRelations.Routes(r)
			r.Post("/icon", a.mediaH.ServiceIcon(a.services))
			a.services.Routes(r)
		})
		r.Route("/hero-slides", func(r chi.Router) {
			r.Post("/media/{device}", a.mediaH.HeroMedia(a.heroSlides))
			r.Post("/media/{device}/clear", a.mediaH.ClearHeroMedia(a.heroSlides))
			a.heroSlides.Routes(r)
		})
		r.Route("/cta-slides", func(r chi.Router) {
			r.Post("/media/image", a.mediaH.CTAImage(a.ctaSlides))
			r.Post("/media/image/clear", a.mediaH.ClearCTAImage(a.ctaSlides))
			a.ctaSlides.Routes(r)
		})
		r.Route("/footer", func(r chi.Router) {
			r.Post("/logo", a.mediaH.FooterLogo(a.footer))
			a.footer.Routes(r)
		})
		r.Route("/exchange-rates", a.exchangeRates.Routes)
		for _, kind := range model.TaxonomyKinds {
			r.Route("/taxonomy/"+string(kind), a.taxonomies[kind].Routes)
		}
	})
}

// Sweepers returns every editor registry for the idle sweep job.
func (a *Admin) Sweepers() []editor.Sweeper {
	out := []editor.Sweeper{
		a.products.cfg.Registry,
		a.services.cfg.Registry,
		a.heroSlides.cfg.Registry,
		a.ctaSlides.cfg.Registry,
		a.footer.cfg.Registry,
		a.exchangeRates.cfg.Registry,
	}
	for _, kind := range model.TaxonomyKinds {
		out = append(out, a.taxonomies[kind].cfg.Registry)
	}
	return out
}

// changed keeps the local catalogs in step with the backend and then
// forwards the change to Notify.
func (a *Admin) changed(ctx context.Context, resource string) {
	switch resource {
	case resourceProducts, resourceServices:
		if err := a.deps.Catalog.Refresh(ctx); err != nil {
			a.deps.Logger.Warn("catalog refresh after change failed", "resource", resource, "error", err)
		}
	default:
		if kind, err := model.ParseTaxonomyKind(taxonomyKindOf(resource)); err == nil {
			if err := a.deps.Taxonomy.Invalidate(ctx, kind); err != nil {
				a.deps.Logger.Warn("taxonomy invalidation failed", "kind", kind, "error", err)
			}
		}
	}
	if a.deps.Notify != nil {
		a.deps.Notify(ctx, resource)
	}
}

// SwitchLanguage handles POST /admin/language.
func (a *Admin) SwitchLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if !i18n.IsSupported(lang) {
		http.Error(w, "Unsupported language", http.StatusBadRequest)
		return
	}
	middleware.SetLanguageCookie(w, lang)
	http.Redirect(w, r, safeReturnPath(r.FormValue("return")), http.StatusSeeOther)
}

// safeReturnPath only allows local admin paths as redirect targets.
func safeReturnPath(p string) string {
	if len(p) > 1 && p[0] == '/' && p[1] != '/' && p[1] != '\\' {
		return p
	}
	return redirectAdmin
}

// adminLang returns the admin UI language of the request.
func adminLang(r *http.Request) string {
	return middleware.GetAdminLanguage(r)
}
