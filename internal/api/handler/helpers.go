package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/web"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/middleware"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// defaultPeriodDays é o período padrão das páginas de métricas
const defaultPeriodDays = 30

const loginPath = "/login"

var flashMessages = map[string]string{
	"client_saved":     "Cliente salvo.",
	"campaign_created": "Campanha criada.",
	"invited":          "Convite enviado.",
	"profile_saved":    "Usuário atualizado.",
	"lead_moved":       "Lead atualizado.",
}

type periodView struct {
	Start string
	End   string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.L.WithError(err).Warn("Erro ao escrever resposta JSON")
	}
}

func seeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// pageIdentity devolve a identidade da requisição. Sem identidade (sessão ausente ou
// servidor de autenticação indisponível) a página redireciona para o login.
func pageIdentity(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		seeOther(w, r, loginPath)
		return nil, false
	}
	return identity, true
}

func newPage(r *http.Request, identity *domain.Identity, title, active string) web.Page {
	return web.Page{
		Title:    title,
		Active:   active,
		Identity: identity,
		Flash:    flashMessages[r.URL.Query().Get("ok")],
	}
}

// renderError renderiza a página de erro com o status resolvido pelo código do erro
func renderError(w http.ResponseWriter, r *http.Request, renderer *web.Renderer, identity *domain.Identity, err error) {
	page := newPage(r, identity, "Erro", "")
	page.Error = apiErrors.MessageFor(err, errorMessages[apiErrors.CodeFor(err)])
	renderer.Render(w, apiErrors.StatusFor(apiErrors.CodeFor(err)), "error", page)
}

// NotFound responde rotas inexistentes: JSON sob /api e a página de erro no restante
func NotFound(renderer *web.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Rota não encontrada", nil)
			return
		}

		page := newPage(r, middleware.IdentityFromContext(r.Context()), "Página não encontrada", "")
		page.Error = "Página não encontrada."
		renderer.Render(w, http.StatusNotFound, "error", page)
	})
}

var errorMessages = map[string]string{
	apiErrors.ErrInsufficientPrivilege: "Você não tem permissão para acessar esta página.",
	apiErrors.ErrResourceNotFound:      "Registro não encontrado.",
	apiErrors.ErrInvalidRequest:        "Dados inválidos.",
	apiErrors.ErrInternalServer:        "Não foi possível concluir a operação.",
}

// requestPeriod lê start_date e end_date (AAAA-MM-DD); ausentes usam os últimos 30 dias
func requestPeriod(r *http.Request, now time.Time) (domain.InsightFilters, periodView) {
	start, end := utils.DefaultPeriod(now, defaultPeriodDays)

	if parsed, err := utils.ParseDate(r.URL.Query().Get("start_date")); err == nil && parsed != nil {
		start = *parsed
	}
	if parsed, err := utils.ParseDate(r.URL.Query().Get("end_date")); err == nil && parsed != nil {
		end = *parsed
	}

	return domain.InsightFilters{StartDate: &start, EndDate: &end},
		periodView{Start: start.Format(time.DateOnly), End: end.Format(time.DateOnly)}
}

func queryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

func formOptional(r *http.Request, key string) *string {
	return utils.NonEmpty(r.PostFormValue(key))
}

func formFloat(r *http.Request, key string) (*float64, error) {
	value := formString(r, key)
	if value == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidFormat, "Valor numérico inválido: "+key)
	}
	return &f, nil
}

func formDate(r *http.Request, key string) (*time.Time, error) {
	date, err := utils.ParseDate(formString(r, key))
	if err != nil {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidFormat, "Data inválida: "+key)
	}
	return date, nil
}
