// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/scheduler"
)

// JobsHandler lets the dashboard run and reschedule background jobs.
type JobsHandler struct {
	deps *Deps
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(deps *Deps) *JobsHandler {
	return &JobsHandler{deps: deps}
}

func jobErrorKey(err error) string {
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		return "jobs.not_found"
	case errors.Is(err, scheduler.ErrTriggerLimit):
		return "jobs.rate_limited"
	default:
		return "jobs.failed"
	}
}

// Run handles POST /admin/jobs/{name}/run.
func (h *JobsHandler) Run(w http.ResponseWriter, r *http.Request) {
	lang := adminLang(r)
	name := chi.URLParam(r, "name")

	if err := h.deps.Jobs.TriggerNow(name); err != nil {
		h.deps.Logger.Warn("manual job run failed", "name", name, "error", err)
		flashError(w, r, h.deps.Renderer, redirectAdmin, i18n.T(lang, jobErrorKey(err)))
		return
	}
	flashSuccess(w, r, h.deps.Renderer, redirectAdmin, i18n.T(lang, "jobs.triggered", name))
}

// UpdateSchedule handles POST /admin/jobs/{name}/schedule.
func (h *JobsHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	lang := adminLang(r)
	name := chi.URLParam(r, "name")

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.deps.Renderer, redirectAdmin, i18n.T(lang, "error.invalid_form"))
		return
	}
	schedule := strings.TrimSpace(r.FormValue("schedule"))
	if schedule == "" {
		flashError(w, r, h.deps.Renderer, redirectAdmin, i18n.T(lang, "jobs.schedule_required"))
		return
	}

	if err := h.deps.Jobs.UpdateSchedule(name, schedule); err != nil {
		h.deps.Logger.Warn("failed to update job schedule", "name", name, "schedule", schedule, "error", err)
		key := "jobs.invalid_schedule"
		if errors.Is(err, scheduler.ErrJobNotFound) {
			key = "jobs.not_found"
		}
		flashError(w, r, h.deps.Renderer, redirectAdmin, i18n.T(lang, key))
		return
	}
	h.deps.Logger.Info("job schedule updated", "name", name, "schedule", schedule)
	flashSuccess(w, r, h.deps.Renderer, redirectAdmin, i18n.T(lang, "jobs.schedule_updated", name))
}

// ResetSchedule handles POST /admin/jobs/{name}/reset.
func (h *JobsHandler) ResetSchedule(w http.ResponseWriter, r *http.Request) {
	lang := adminLang(r)
	name := chi.URLParam(r, "name")

	if err := h.deps.Jobs.ResetSchedule(name); err != nil {
		h.deps.Logger.Warn("failed to reset job schedule", "name", name, "error", err)
		flashError(w, r, h.deps.Renderer, redirectAdmin, i18n.T(lang, jobErrorKey(err)))
		return
	}
	flashSuccess(w, r, h.deps.Renderer, redirectAdmin, i18n.T(lang, "jobs.schedule_reset", name))
}
