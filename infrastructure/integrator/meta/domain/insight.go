package metadomain

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// CampaignInsight é uma linha de /act_{id}/insights com level=campaign,
// time_increment=1 e breakdown por publisher_platform
type CampaignInsight struct {
	AccountID         string   `json:"account_id"`
	CampaignID        string   `json:"campaign_id"`
	CampaignName      string   `json:"campaign_name"`
	PublisherPlatform string   `json:"publisher_platform"`
	DateStart         string   `json:"date_start"`
	DateStop          string   `json:"date_stop"`
	Spend             string   `json:"spend"`
	Impressions       string   `json:"impressions"`
	Clicks            string   `json:"clicks"`
	Actions           []Action `json:"actions"`
}

// ActionValues devolve os valores das ações cujo tipo está no conjunto informado
func (c *CampaignInsight) ActionValues(actionTypes map[string]struct{}) []string {
	values := make([]string, 0)
	for _, action := range c.Actions {
		if _, ok := actionTypes[action.ActionType]; ok {
			values = append(values, action.Value)
		}
	}
	return values
}

type InsightsResponse struct {
	Data   []CampaignInsight `json:"data"`
	Paging Paging            `json:"paging"`
}
