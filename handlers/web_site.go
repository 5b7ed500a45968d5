package handlers

import (
	"net/http"

	"courses-backend/views"
)

// SitePages отвечает за статические страницы сайта
type SitePages struct {
	renderer *views.Renderer
}

func NewSitePages(renderer *views.Renderer) *SitePages {
	return &SitePages{renderer: renderer}
}

// Main рендерит главную страницу
func (p *SitePages) Main(w http.ResponseWriter, r *http.Request) {
	p.renderer.HTML(w, r, "main.html", nil)
}
