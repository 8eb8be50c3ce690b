package handler

import (
	"net/http"

	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/agency-dashboard/internal/web"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/middleware"
)

const homePath = "/dashboard"

type loginView struct {
	Email string
}

// Root envia a raiz para o painel; o guard cuida do login
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, homePath, http.StatusTemporaryRedirect)
	}
}

func LoginPage(renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(w, http.StatusOK, "login", web.Page{Title: "Entrar"})
	}
}

// Login autentica com email e senha e grava os cookies de sessão
func Login(service authenticating.Authenticator, cookies middleware.SessionCookies, renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			renderer.Render(w, http.StatusBadRequest, "login", web.Page{Title: "Entrar", Error: "Formato de requisição inválido"})
			return
		}

		email := formString(r, "email")

		identity, tokens, err := service.SignIn(r.Context(), email, r.PostFormValue("password"))
		if err != nil {
			renderer.Render(w, apiErrors.StatusFor(apiErrors.CodeFor(err)), "login", web.Page{
				Title: "Entrar",
				Error: apiErrors.MessageFor(err, "Não foi possível entrar"),
				Data:  loginView{Email: email},
			})
			return
		}

		cookies.Write(w, *tokens)

		log.ForContext(r.Context()).WithField("user_id", identity.UserID).Info("Login realizado")
		seeOther(w, r, homePath)
	}
}

// SignOut encerra a sessão no servidor de autenticação, limpa os cookies e volta para o login
func SignOut(service authenticating.Authenticator, cookies middleware.SessionCookies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokens, ok := middleware.SessionTokensFromContext(r.Context())
		if !ok {
			tokens = cookies.Read(r)
		}

		service.SignOut(r.Context(), tokens)
		cookies.Clear(w)

		seeOther(w, r, loginPath)
	}
}
