package web

import (
	"html/template"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/dustin/go-humanize"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

var leadStatusLabels = map[domain.LeadStatus]string{
	domain.LeadStatusNew:       "Novo",
	domain.LeadStatusContacted: "Contatado",
	domain.LeadStatusQualified: "Qualificado",
	domain.LeadStatusConverted: "Convertido",
	domain.LeadStatusLost:      "Perdido",
}

var campaignStatusLabels = map[domain.CampaignStatus]string{
	domain.CampaignStatusDraft:     "Rascunho",
	domain.CampaignStatusActive:    "Ativa",
	domain.CampaignStatusPaused:    "Pausada",
	domain.CampaignStatusCompleted: "Concluída",
}

var platformLabels = map[string]string{
	"meta":      "Facebook",
	"instagram": "Instagram",
	"both":      "Facebook + Instagram",
}

// FuncMap junta as funções do sprig com os formatadores das páginas
func FuncMap() template.FuncMap {
	funcs := sprig.HtmlFuncMap()

	funcs["money"] = Money
	funcs["count"] = func(v int64) string { return humanize.Comma(v) }
	funcs["countInt"] = func(v int) string { return humanize.Comma(int64(v)) }
	funcs["percent"] = func(v float64) string { return humanize.FormatFloat("#.##", v) + "%" }
	funcs["deref"] = utils.Deref
	funcs["dateOnly"] = DateOnly
	funcs["relative"] = func(t time.Time) string { return humanize.Time(t) }
	funcs["leadStatusLabel"] = func(s domain.LeadStatus) string { return label(leadStatusLabels, s) }
	funcs["campaignStatusLabel"] = func(s any) string { return label(campaignStatusLabels, domain.CampaignStatus(toString(s))) }
	funcs["platformLabel"] = func(p any) string { return label(platformLabels, toString(p)) }
	funcs["leadStatuses"] = func() []domain.LeadStatus { return domain.LeadStatuses }
	funcs["monthlyCost"] = func(v any) float64 { return utils.ToFloat(v) }

	return funcs
}

// Money formata valores em reais com separador de milhar
func Money(v float64) string {
	return "R$ " + humanize.FormatFloat("#.###,##", v)
}

// DateOnly aceita time.Time ou *time.Time; nil vira "-"
func DateOnly(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.Format("02/01/2006")
	case *time.Time:
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("02/01/2006")
	}
	return "-"
}

func label[K ~string](labels map[K]string, key K) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return strings.TrimSpace(string(key))
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case domain.CampaignPlatform:
		return string(s)
	case domain.CampaignStatus:
		return string(s)
	case domain.MetricsPlatform:
		return string(s)
	}
	return ""
}
