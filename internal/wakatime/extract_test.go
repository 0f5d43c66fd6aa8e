package wakatime

import "testing"

func TestNormalizeStatusBar(t *testing.T) {
	t.Run("full response", func(t *testing.T) {
		resp := &StatusBarResponse{Data: DaySummary{
			GrandTotal: &GrandTotal{TotalSeconds: 5400},
			Projects: []Entry{
				{Name: "wakasync", TotalSeconds: 3600, Percent: 66.67},
				{Name: "docs", TotalSeconds: 1800, Percent: 33.33},
			},
			Languages: []Entry{{Name: "Go", TotalSeconds: 5400, Percent: 100}},
		}}

		got := NormalizeStatusBar(resp)
		if got.TotalSeconds != 5400 {
			t.Errorf("TotalSeconds = %v, want 5400", got.TotalSeconds)
		}
		if len(got.Projects) != 2 || len(got.Languages) != 1 {
			t.Fatalf("got %d projects, %d languages", len(got.Projects), len(got.Languages))
		}
		want := Breakdown{Name: "wakasync", Seconds: 3600, Percent: 66.67}
		if got.Projects[0] != want {
			t.Errorf("Projects[0] = %+v, want %+v", got.Projects[0], want)
		}
	})

	t.Run("missing breakdowns normalize to empty slices", func(t *testing.T) {
		resp := &StatusBarResponse{Data: DaySummary{GrandTotal: &GrandTotal{TotalSeconds: 100}}}
		got := NormalizeStatusBar(resp)
		if got.Projects == nil || got.Languages == nil {
			t.Error("breakdowns should be empty slices, not nil")
		}
		if len(got.Projects) != 0 || len(got.Languages) != 0 {
			t.Errorf("got %d projects, %d languages, want 0/0", len(got.Projects), len(got.Languages))
		}
	})

	t.Run("missing grand total defaults to zero", func(t *testing.T) {
		if got := NormalizeStatusBar(&StatusBarResponse{}); got.TotalSeconds != 0 {
			t.Errorf("TotalSeconds = %v, want 0", got.TotalSeconds)
		}
	})

	t.Run("nil response", func(t *testing.T) {
		got := NormalizeStatusBar(nil)
		if got.TotalSeconds != 0 || len(got.Projects) != 0 || len(got.Languages) != 0 {
			t.Errorf("got %+v, want empty summary", got)
		}
	})
}

func TestNormalizeSummaries(t *testing.T) {
	t.Run("takes first day", func(t *testing.T) {
		resp := &SummariesResponse{Data: []DaySummary{
			{
				GrandTotal: &GrandTotal{TotalSeconds: 1234},
				Projects:   []Entry{{Name: "alpha", TotalSeconds: 1234, Percent: 100}},
			},
			{GrandTotal: &GrandTotal{TotalSeconds: 9999}},
		}}
		got := NormalizeSummaries(resp)
		if got.TotalSeconds != 1234 {
			t.Errorf("TotalSeconds = %v, want 1234", got.TotalSeconds)
		}
		if len(got.Projects) != 1 || got.Projects[0].Name != "alpha" {
			t.Errorf("Projects = %+v", got.Projects)
		}
	})

	t.Run("empty data array", func(t *testing.T) {
		got := NormalizeSummaries(&SummariesResponse{})
		if got.TotalSeconds != 0 || len(got.Projects) != 0 || len(got.Languages) != 0 {
			t.Errorf("got %+v, want empty summary", got)
		}
	})
}

// TestMergeFallback covers the fallback scenario: a status-bar response with
// only a grand total, backed by a summaries response with breakdowns.
func TestMergeFallback(t *testing.T) {
	t.Run("fills breakdowns from fallback, keeps primary total", func(t *testing.T) {
		primary := NormalizeStatusBar(&StatusBarResponse{
			Data: DaySummary{GrandTotal: &GrandTotal{TotalSeconds: 7200}},
		})
		fallback := NormalizeSummaries(&SummariesResponse{Data: []DaySummary{{
			GrandTotal: &GrandTotal{TotalSeconds: 7100},
			Projects: []Entry{
				{Name: "p1", TotalSeconds: 5000, Percent: 70},
				{Name: "p2", TotalSeconds: 2100, Percent: 30},
			},
			Languages: []Entry{{Name: "Go", TotalSeconds: 7100, Percent: 100}},
		}}})

		got := MergeFallback(primary, fallback)
		if got.TotalSeconds != 7200 {
			t.Errorf("TotalSeconds = %v, want primary's 7200", got.TotalSeconds)
		}
		if len(got.Projects) != 2 {
			t.Errorf("len(Projects) = %d, want 2", len(got.Projects))
		}
		if len(got.Languages) != 1 {
			t.Errorf("len(Languages) = %d, want 1", len(got.Languages))
		}
	})

	t.Run("primary breakdowns win when present", func(t *testing.T) {
		primary := Summary{
			TotalSeconds: 100,
			Projects:     []Breakdown{{Name: "keep", Seconds: 100}},
			Languages:    []Breakdown{},
		}
		fallback := Summary{
			Projects:  []Breakdown{{Name: "drop", Seconds: 50}},
			Languages: []Breakdown{{Name: "drop-too", Seconds: 50}},
		}
		got := MergeFallback(primary, fallback)
		if len(got.Projects) != 1 || got.Projects[0].Name != "keep" {
			t.Errorf("Projects = %+v, want primary's", got.Projects)
		}
		if len(got.Languages) != 0 {
			t.Errorf("Languages = %+v, want primary's empty set", got.Languages)
		}
	})
}
