package engine

import (
	"sort"

	"github.com/piwi3910/RailCut/internal/model"
)

// fitEpsilon lets a cut that exactly fills a bar be placed despite
// floating-point error.
const fitEpsilon = 1e-9

// Nester packs cut members into stock bars.
type Nester struct {
	settings model.StockSettings
}

// NewNester returns a Nester for the given stock.
func NewNester(settings model.StockSettings) *Nester {
	return &Nester{settings: settings}
}

// Nest packs every cut of the plan, one stock plan per profile in order of
// first appearance. Members sharing a profile string share stock, whatever
// their role. It returns nil when the stock length is not positive.
func (n *Nester) Nest(plan model.Plan) []model.StockPlan {
	if n.settings.Length <= 0 {
		return nil
	}
	groups := groupByProfile(Cuts(plan))
	out := make([]model.StockPlan, 0, len(groups))
	for _, g := range groups {
		out = append(out, n.nestProfile(g.profile, g.cuts))
	}
	return out
}

// profileGroup holds the cuts of a single profile.
type profileGroup struct {
	profile string
	cuts    []model.Cut
}

func groupByProfile(cuts []model.Cut) []profileGroup {
	var groups []profileGroup
	index := map[string]int{}
	for _, c := range cuts {
		i, ok := index[c.Profile]
		if !ok {
			i = len(groups)
			index[c.Profile] = i
			groups = append(groups, profileGroup{profile: c.Profile})
		}
		groups[i].cuts = append(groups[i].cuts, c)
	}
	return groups
}

// nestProfile uses best-fit decreasing: longest cuts first, each into the
// open bar it leaves the shortest remnant in, opening a new bar when none
// fits. Consecutive cuts on a bar are separated by one kerf.
func (n *Nester) nestProfile(profile string, cuts []model.Cut) model.StockPlan {
	stock := n.settings.Length
	result := model.StockPlan{Profile: profile, StockLength: stock}

	sorted := make([]model.Cut, len(cuts))
	copy(sorted, cuts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Length > sorted[j].Length
	})

	for _, c := range sorted {
		if c.Length > stock+fitEpsilon {
			result.Unplaced = append(result.Unplaced, c)
			continue
		}

		best, bestRemnant := -1, 0.0
		for i, b := range result.Bars {
			remnant := stock - b.Used - n.need(b, c)
			if remnant < -fitEpsilon {
				continue
			}
			if best == -1 || remnant < bestRemnant {
				best, bestRemnant = i, remnant
			}
		}
		if best == -1 {
			result.Bars = append(result.Bars, model.StockBar{})
			best = len(result.Bars) - 1
		}

		b := &result.Bars[best]
		b.Used += n.need(*b, c)
		b.Cuts = append(b.Cuts, c)
	}

	for i := range result.Bars {
		result.Bars[i].Remnant = stock - result.Bars[i].Used
	}
	return result
}

// need returns the stock length consumed by adding c to b.
func (n *Nester) need(b model.StockBar, c model.Cut) float64 {
	if len(b.Cuts) == 0 {
		return c.Length
	}
	return c.Length + n.settings.Kerf
}

// Cuts lists every member of a plan to be cut from stock: posts and links
// at full height, one top and one bottom rail per section at its free
// length, and the infill bars.
func Cuts(plan model.Plan) []model.Cut {
	var cuts []model.Cut
	add := func(label, profile string, length float64, count int) {
		if length <= 0 {
			return
		}
		for i := 0; i < count; i++ {
			cuts = append(cuts, model.Cut{Label: label, Profile: profile, Length: length})
		}
	}

	band := plan.InfillBand()
	for _, p := range plan.Pieces {
		for _, it := range p.Structure {
			switch it.Type {
			case model.ItemPost:
				add("Post", plan.PostProfile, plan.OverallHeight, 1)
			case model.ItemLink:
				add("Link", plan.LinkProfile, plan.OverallHeight, 1)
			}
		}
		for _, s := range p.Sections {
			add("Top rail", plan.TopRailProfile, s.FreeLength, 1)
			add("Bottom rail", plan.BottomRailProfile, s.FreeLength, 1)
			switch plan.Infill {
			case model.InfillVertical:
				add("Bar", plan.BarProfile, band, s.Distribution.Count)
			case model.InfillHorizontal:
				if plan.InfillDetail != nil {
					add("Bar", plan.BarProfile, s.FreeLength, plan.InfillDetail.Count)
				}
			}
		}
	}
	return cuts
}
