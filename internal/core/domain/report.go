package domain

// ReportEntry aggregates one ad's live record with its historical clicks.
type ReportEntry struct {
	Ad          Ad         `json:"ad"`
	Impressions int64      `json:"impressions"`
	Clicks      int        `json:"clicks"`
	Breakdown   *Breakdown `json:"breakdown,omitempty"`
}

// Breakdown holds the final report's per-ad histograms. Each histogram sums
// to the ad's total click count.
type Breakdown struct {
	Gender      map[string]int `json:"gender"`
	Agents      map[string]int `json:"agents"`
	Generations map[string]int `json:"generations"`
}

// Report maps stringified ad ids to their entries.
type Report map[string]ReportEntry

// NewBreakdown builds the three histograms over an ad's click list.
func NewBreakdown(clicks []ClickEvent) *Breakdown {
	b := &Breakdown{
		Gender:      make(map[string]int),
		Agents:      make(map[string]int),
		Generations: make(map[string]int),
	}
	for _, c := range clicks {
		b.Gender[string(c.Gender)]++
		b.Agents[c.Agent]++
		b.Generations[c.Generation()]++
	}
	return b
}

// AssetContent is the payload resolved for an asset request.
type AssetContent struct {
	Data         []byte
	ContentType  string
	Partial      bool
	ContentRange string
}
