package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// Arquivos com prefixo "_" são o layout e os parciais, incluídos em todas as páginas
const sharedPattern = "templates/_*.html"

// Page é o modelo comum de todas as páginas; Data carrega o conteúdo específico
type Page struct {
	Title    string
	Active   string
	Identity *domain.Identity
	Flash    string
	Error    string
	Data     any
}

// Renderer guarda um template por página, cada um combinado com o layout
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	shared, err := template.New("shared").Funcs(FuncMap()).ParseFS(templateFS, sharedPattern)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))

	for _, file := range files {
		base := path.Base(file)
		if strings.HasPrefix(base, "_") {
			continue
		}

		name := strings.TrimSuffix(base, ".html")
		tmpl, err := template.Must(shared.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("erro ao carregar template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render executa a página em buffer antes de escrever, para não enviar HTML pela metade
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := r.pages[name]
	if !ok {
		log.L.WithField("page", name).Error("Template de página não encontrado")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		log.L.WithError(err).WithField("page", name).Error("Erro ao renderizar página")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.L.WithError(err).WithField("page", name).Warn("Erro ao escrever resposta da página")
	}
}

// Has indica se a página existe
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
