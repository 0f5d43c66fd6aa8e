// Extraction adapters: pure functions normalizing the two upstream response
// shapes into one record. They never fail; missing fields become defaults.

package wakatime

// Breakdown is one project or language line item in a normalized summary.
type Breakdown struct {
	Name    string
	Seconds float64
	Percent float64
}

// Summary is the normalized daily record shared by both response shapes.
type Summary struct {
	TotalSeconds float64
	Projects     []Breakdown
	Languages    []Breakdown
}

// GrandTotal carries a day's aggregate seconds.
type GrandTotal struct {
	TotalSeconds float64 `json:"total_seconds"`
}

// Entry is a project or language entry as the API reports it.
type Entry struct {
	Name         string  `json:"name"`
	TotalSeconds float64 `json:"total_seconds"`
	Percent      float64 `json:"percent"`
}

// DaySummary is one day's aggregate: a grand total plus optional breakdowns.
type DaySummary struct {
	GrandTotal *GrandTotal `json:"grand_total"`
	Projects   []Entry     `json:"projects"`
	Languages  []Entry     `json:"languages"`
}

// StatusBarResponse is the status-bar endpoint shape: today's aggregate
// directly under data.
type StatusBarResponse struct {
	Data DaySummary `json:"data"`
}

// SummariesResponse is the summaries endpoint shape: an array of per-day
// aggregates under data.
type SummariesResponse struct {
	Data []DaySummary `json:"data"`
}

// NormalizeStatusBar extracts the normalized summary from a status-bar
// response. A nil response yields an empty summary.
func NormalizeStatusBar(resp *StatusBarResponse) Summary {
	if resp == nil {
		return emptySummary()
	}
	return normalizeDay(&resp.Data)
}

// NormalizeSummaries extracts the normalized summary from the first day of a
// summaries response. A nil response or empty data array yields an empty
// summary.
func NormalizeSummaries(resp *SummariesResponse) Summary {
	if resp == nil || len(resp.Data) == 0 {
		return emptySummary()
	}
	return normalizeDay(&resp.Data[0])
}

// MergeFallback fills in breakdowns from fallback when primary reports none.
// TotalSeconds always comes from primary.
func MergeFallback(primary, fallback Summary) Summary {
	if len(primary.Projects) == 0 && len(primary.Languages) == 0 {
		primary.Projects = fallback.Projects
		primary.Languages = fallback.Languages
	}
	return primary
}

func emptySummary() Summary {
	return Summary{Projects: []Breakdown{}, Languages: []Breakdown{}}
}

func normalizeDay(d *DaySummary) Summary {
	s := Summary{
		Projects:  toBreakdowns(d.Projects),
		Languages: toBreakdowns(d.Languages),
	}
	if d.GrandTotal != nil {
		s.TotalSeconds = d.GrandTotal.TotalSeconds
	}
	return s
}

func toBreakdowns(entries []Entry) []Breakdown {
	out := make([]Breakdown, 0, len(entries))
	for _, e := range entries {
		out = append(out, Breakdown{Name: e.Name, Seconds: e.TotalSeconds, Percent: e.Percent})
	}
	return out
}
