package guarding

import (
	"strings"

	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision é o resultado do guard para uma requisição
type Decision struct {
	Action Action
	Target string
}

func (d Decision) Redirects() bool {
	return d.Action == Redirect
}

// Guard decide, a partir do caminho e da identidade, se a requisição segue ou é redirecionada.
// O redirecionamento é só de navegação: a autorização real é feita pelas actions via Scope.
type Guard struct {
	ProtectedPrefixes []string
	LoginPath         string
	HomePath          string
	AdminPrefix       string
}

func NewGuard(cfg config.Session) *Guard {
	guard := &Guard{
		ProtectedPrefixes: cfg.ProtectedPrefixes,
		LoginPath:         cfg.LoginPath,
		HomePath:          cfg.HomePath,
		AdminPrefix:       cfg.AdminPrefix,
	}

	if len(guard.ProtectedPrefixes) == 0 {
		guard.ProtectedPrefixes = []string{"/dashboard", "/admin"}
	}
	if guard.LoginPath == "" {
		guard.LoginPath = "/login"
	}
	if guard.HomePath == "" {
		guard.HomePath = "/dashboard"
	}
	if guard.AdminPrefix == "" {
		guard.AdminPrefix = "/admin"
	}

	return guard
}

func (g *Guard) Decide(path string, identity *domain.Identity) Decision {
	if identity == nil {
		if g.Protected(path) {
			return Decision{Action: Redirect, Target: g.LoginPath}
		}
		return Decision{Action: Allow}
	}

	if path == g.LoginPath {
		return Decision{Action: Redirect, Target: g.HomePath}
	}

	if hasPrefix(path, g.AdminPrefix) && !identity.IsAdmin() {
		return Decision{Action: Redirect, Target: g.HomePath}
	}

	return Decision{Action: Allow}
}

// Protected indica se o caminho exige sessão
func (g *Guard) Protected(path string) bool {
	for _, prefix := range g.ProtectedPrefixes {
		if hasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPrefix compara em fronteira de segmento: /admin casa /admin e /admin/x, mas não /administrator
func hasPrefix(path, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return false
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
