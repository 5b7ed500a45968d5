package views

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gorilla/csrf"
	"github.com/microcosm-cc/bluemonday"

	"courses-backend/middleware"
	"courses-backend/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer рендерит HTML страницы из встроенных pongo2 шаблонов.
// Скомпилированные шаблоны кэшируются.
type Renderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("error loading templates: %v", err)
	}

	registerFilters()

	return &Renderer{
		set:       pongo2.NewSet("pages", pongo2.NewFSLoader(sub)),
		templates: make(map[string]*pongo2.Template),
	}, nil
}

// registerFilters подключает фильтр sanitize для пользовательского
// текста. Реестр фильтров pongo2 глобальный, поэтому проверяем
// повторную регистрацию.
func registerFilters() {
	if pongo2.FilterExists("sanitize") {
		return
	}

	policy := bluemonday.UGCPolicy()
	_ = pongo2.RegisterFilter("sanitize", func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsSafeValue(policy.Sanitize(in.String())), nil
	})
}

func (rn *Renderer) template(name string) (*pongo2.Template, error) {
	rn.mu.RLock()
	if tmpl, ok := rn.templates[name]; ok {
		rn.mu.RUnlock()
		return tmpl, nil
	}
	rn.mu.RUnlock()

	rn.mu.Lock()
	defer rn.mu.Unlock()

	if tmpl, ok := rn.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := rn.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("error loading template %q: %v", name, err)
	}

	rn.templates[name] = tmpl
	return tmpl, nil
}

// HTML рендерит страницу. К контексту страницы добавляются данные
// текущего пользователя, сегодняшняя дата и CSRF поле формы.
func (rn *Renderer) HTML(w http.ResponseWriter, r *http.Request, name string, ctx pongo2.Context) {
	tmpl, err := rn.template(name)
	if err != nil {
		log.Printf("❌ Error loading template %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	merged := pongo2.Context{
		"user":       userContext(r),
		"today":      time.Now().Format(models.DateLayout),
		"csrf_field": string(csrf.TemplateField(r)),
	}
	merged.Update(ctx)

	// Рендерим в буфер, чтобы ошибка шаблона не попала в ответ
	// после начала записи
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(merged, &buf); err != nil {
		log.Printf("❌ Error rendering template %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// userContext собирает данные пользователя для шаблонов
func userContext(r *http.Request) pongo2.Context {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		return pongo2.Context{
			"is_authenticated": false,
			"username":         "",
			"is_staff":         false,
		}
	}
	return pongo2.Context{
		"is_authenticated": true,
		"username":         claims.Username,
		"is_staff":         claims.IsStaff,
	}
}
