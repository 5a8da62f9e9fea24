// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package preview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/finpanel/internal/calculator"
	"github.com/olegiv/finpanel/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns views into HTML fragments for the live preview pane.
type Renderer struct {
	tmpl        *template.Template
	md          goldmark.Markdown
	policy      *bluemonday.Policy
	frontendURL string
}

// NewRenderer parses the preview templates. frontendURL, when set, is used
// for "open on site" links.
func NewRenderer(frontendURL string) (*Renderer, error) {
	r := &Renderer{
		md:          goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough)),
		policy:      bluemonday.UGCPolicy(),
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}

	funcs := template.FuncMap{
		"markdown": r.Markdown,
		"siteURL":  r.SiteURL,
		"langCode": func(l model.Language) string { return l.Code() },
	}
	tmpl, err := template.New("preview").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing preview templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Markdown converts description text to sanitised HTML.
func (r *Renderer) Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

// SiteURL returns the public page of a record, or "" without a frontend URL.
func (r *Renderer) SiteURL(lang model.Language, section, slug string) string {
	if r.frontendURL == "" || slug == "" {
		return ""
	}
	return r.frontendURL + "/" + lang.Code() + "/" + section + "/" + url.PathEscape(slug)
}

// ProductData is the product fragment input.
type ProductData struct {
	View      ProductView
	Input     calculator.Input
	Result    calculator.Display
	HasResult bool
}

// Product renders a product preview. The calculator panel is only shown
// when input yields a result.
func (r *Renderer) Product(w io.Writer, v ProductView, in *calculator.Input) error {
	data := ProductData{View: v}
	if in != nil {
		data.Input = *in
		if res, ok := calculator.Compute(v.Calculator, *in); ok {
			data.Result = res.Format(v.Language)
			data.HasResult = true
		}
	}
	return r.render(w, "preview/product", data)
}

// Service renders a service preview.
func (r *Renderer) Service(w io.Writer, v ServiceView) error {
	return r.render(w, "preview/service", v)
}

// HeroSlide renders a hero slide preview.
func (r *Renderer) HeroSlide(w io.Writer, v HeroSlideView) error {
	return r.render(w, "preview/hero", v)
}

// CTASlide renders a call-to-action slide preview.
func (r *Renderer) CTASlide(w io.Writer, v CTASlideView) error {
	return r.render(w, "preview/cta", v)
}

// Footer renders the footer preview.
func (r *Renderer) Footer(w io.Writer, v FooterView) error {
	return r.render(w, "preview/footer", v)
}

func (r *Renderer) render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
