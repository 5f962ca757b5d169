package model

// FormDraft is a best-effort pre-fill of the request form, produced from a
// free-text description. It is never used as authoritative input.
type FormDraft struct {
	PieceCount        int     `json:"piece_count"`
	IdenticalPieces   bool    `json:"identical_pieces"`
	OverallHeight     float64 `json:"overall_height"`
	BaselineHeight    float64 `json:"baseline_height"`
	PostProfile       string  `json:"post_dims"`
	LinkProfile       string  `json:"link_dims"`
	TopRailProfile    string  `json:"top_rail_dims"`
	BottomRailProfile string  `json:"bottom_rail_dims"`
	BarProfile        string  `json:"bar_dims"`
	MaxGap            float64 `json:"max_gap"`
	Pieces            []Piece `json:"pieces"`
}

// DefaultFormDraft returns the values the form starts with.
func DefaultFormDraft() FormDraft {
	return FormDraft{
		OverallHeight:     1020,
		BaselineHeight:    100,
		PostProfile:       "40x40",
		LinkProfile:       "40x20",
		TopRailProfile:    "40x40",
		BottomRailProfile: "40x40",
		BarProfile:        "20x20",
		MaxGap:            110,
		Pieces:            []Piece{},
	}
}

// ToRequest turns a draft into a request using the given infill and
// fixation choices, which the draft never carries.
func (d FormDraft) ToRequest(infill InfillMode, fixation string) Request {
	count := d.PieceCount
	if count == 0 {
		count = len(d.Pieces)
	}
	return Request{
		OverallHeight:     d.OverallHeight,
		BaselineHeight:    d.BaselineHeight,
		PostProfile:       d.PostProfile,
		LinkProfile:       d.LinkProfile,
		TopRailProfile:    d.TopRailProfile,
		BottomRailProfile: d.BottomRailProfile,
		BarProfile:        d.BarProfile,
		MaxGap:            d.MaxGap,
		Fixation:          fixation,
		Infill:            infill,
		PieceCount:        count,
		IdenticalPieces:   d.IdenticalPieces,
		Pieces:            d.Pieces,
	}
}
