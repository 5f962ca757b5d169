package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemType identifies one element of a piece's structure.
type ItemType string

const (
	ItemPost    ItemType = "post"    // End post
	ItemLink    ItemType = "link"    // Connecting member between two sections
	ItemSection ItemType = "section" // Open span to be filled
	ItemNone    ItemType = "none"    // Placeholder, ignored by the engine
)

// itemAliases maps accepted spellings to their canonical item type.
// The French names are what the workshop form historically sent.
var itemAliases = map[string]ItemType{
	"post":    ItemPost,
	"poteau":  ItemPost,
	"link":    ItemLink,
	"liaison": ItemLink,
	"section": ItemSection,
	"none":    ItemNone,
	"rien":    ItemNone,
	"":        ItemNone,
}

// ParseItemType converts a user-supplied type name to an ItemType.
// It returns false when the name is not recognized.
func ParseItemType(s string) (ItemType, bool) {
	t, ok := itemAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// IsJoint reports whether the item is a vertical member bounding a section.
func (t ItemType) IsJoint() bool {
	return t == ItemPost || t == ItemLink
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseItemType(s)
	if !ok {
		return fmt.Errorf("unknown structure item type %q", s)
	}
	*t = parsed
	return nil
}

// StructureItem is one joint or section of a piece.
type StructureItem struct {
	Type   ItemType `json:"type"`
	Length float64  `json:"length,omitempty"` // mm, sections only
}

func Post() StructureItem                  { return StructureItem{Type: ItemPost} }
func Link() StructureItem                  { return StructureItem{Type: ItemLink} }
func Placeholder() StructureItem           { return StructureItem{Type: ItemNone} }
func Section(length float64) StructureItem { return StructureItem{Type: ItemSection, Length: length} }

// Piece is one physically contiguous run of railing.
type Piece struct {
	SectionCount int             `json:"section_count"`
	Structure    []StructureItem `json:"structure"`
}

// Items returns the structure without placeholder items.
func (p Piece) Items() []StructureItem {
	items := make([]StructureItem, 0, len(p.Structure))
	for _, it := range p.Structure {
		if it.Type != ItemNone {
			items = append(items, it)
		}
	}
	return items
}

// TotalLength returns the sum of the section lengths. Joints are cut
// separately and do not count toward the piece length.
func (p Piece) TotalLength() float64 {
	var total float64
	for _, it := range p.Structure {
		if it.Type == ItemSection {
			total += it.Length
		}
	}
	return total
}

// CountType returns how many items of type t the piece contains.
func (p Piece) CountType(t ItemType) int {
	n := 0
	for _, it := range p.Structure {
		if it.Type == t {
			n++
		}
	}
	return n
}

// StructureKey returns a string identifying the piece's shape. Two pieces
// with the same key are fabricated identically.
func StructureKey(structure []StructureItem) string {
	var b strings.Builder
	for i, it := range structure {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(string(it.Type))
		if it.Type == ItemSection {
			b.WriteByte(':')
			b.WriteString(strconv.FormatFloat(it.Length, 'f', -1, 64))
		}
	}
	return b.String()
}

// InfillMode selects the fill pattern inside sections.
type InfillMode string

const (
	InfillVertical   InfillMode = "vertical"   // Balusters, distributed per section
	InfillHorizontal InfillMode = "horizontal" // Horizontal bars, distributed over the height band
)

func (m *InfillMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = ParseInfillMode(s)
	return nil
}

// ParseInfillMode normalizes an infill name. Unknown names are returned
// unchanged so that validation can report them.
func ParseInfillMode(s string) InfillMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "barreaudage_vertical":
		return InfillVertical
	case "horizontal", "barreaudage_horizontal":
		return InfillHorizontal
	}
	return InfillMode(s)
}

// FixationPlate is the fixation mode that carries a base plate.
// Any other fixation string is accepted and carries no plate.
const FixationPlate = "plate"

// IsPlateFixation reports whether the fixation string selects a base plate.
func IsPlateFixation(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FixationPlate, "platine":
		return true
	}
	return false
}

// Request is the full description of a guardrail assembly.
type Request struct {
	OverallHeight     float64    `json:"overall_height"`   // mm
	BaselineHeight    float64    `json:"baseline_height"`  // mm, floor to underside of bottom rail
	PostProfile       string     `json:"post_dims"`        // e.g. "40x40"
	LinkProfile       string     `json:"link_dims"`        // e.g. "40x20"
	TopRailProfile    string     `json:"top_rail_dims"`    // e.g. "40x40"
	BottomRailProfile string     `json:"bottom_rail_dims"` // e.g. "40x40"
	BarProfile        string     `json:"bar_dims"`         // e.g. "20x20"
	MaxGap            float64    `json:"max_gap"`          // mm, largest allowed gap between bars
	Fixation          string     `json:"fixation"`         // "plate" or any other method
	Infill            InfillMode `json:"infill"`

	// Plate geometry, only read when Fixation is "plate"
	PlateDimensions string `json:"plate_dimensions,omitempty"` // e.g. "200x200x10"
	PlateHoles      string `json:"plate_holes,omitempty"`      // e.g. "4 x 14"
	PlatePitches    string `json:"plate_pitches,omitempty"`    // e.g. "160x160"

	PieceCount      int     `json:"piece_count"`
	IdenticalPieces bool    `json:"identical_pieces"`
	Pieces          []Piece `json:"pieces"`
}

// Distribution describes how bars are spread across a free length.
// LeadIn is the gap between a section edge and the first bar; the
// distribution is symmetric so it always equals Gap when Count > 0.
type Distribution struct {
	Count  int     `json:"count"`
	Gap    float64 `json:"gap_mm"`
	LeadIn float64 `json:"lead_in_mm"`
}

// SectionPlan is one resolved section.
type SectionPlan struct {
	RawLength    float64      `json:"section_length"` // mm, as entered
	FreeLength   float64      `json:"free_length"`    // mm, after joint deductions
	Distribution Distribution `json:"distribution"`
}

// PiecePlan is one resolved piece.
type PiecePlan struct {
	ID          int             `json:"id"`
	TotalLength float64         `json:"total_length"`
	Structure   []StructureItem `json:"structure"`
	Sections    []SectionPlan   `json:"sections"`
}

// NomenclatureLine is one aggregated bill-of-materials entry.
type NomenclatureLine struct {
	Label      string `json:"item"`
	Detail     string `json:"details"`
	Quantity   int    `json:"quantity"`
	UnitLength int    `json:"unit_length_mm"`
}

// Plan is the complete fabrication result for a request.
type Plan struct {
	Description       string             `json:"description"`
	Nomenclature      []NomenclatureLine `json:"nomenclature"`
	Pieces            []PiecePlan        `json:"pieces"`
	OverallHeight     float64            `json:"overall_height"`
	BaselineHeight    float64            `json:"baseline_height"`
	PostProfile       string             `json:"post_dims"`
	LinkProfile       string             `json:"link_dims"`
	TopRailProfile    string             `json:"top_rail_dims"`
	BottomRailProfile string             `json:"bottom_rail_dims"`
	BarProfile        string             `json:"bar_dims"`
	Plate             *PlateSpec         `json:"plate,omitempty"`
	Infill            InfillMode         `json:"infill"`
	InfillDetail      *Distribution      `json:"infill_detail,omitempty"` // horizontal infill only
	Stock             []StockPlan        `json:"stock,omitempty"`         // filled when nesting is requested
}

// TotalLength returns the summed length of all pieces.
func (p Plan) TotalLength() float64 {
	var total float64
	for _, m := range p.Pieces {
		total += m.TotalLength
	}
	return total
}

// InfillBand returns the vertical space between the rails, where bars go.
func (p Plan) InfillBand() float64 {
	return p.OverallHeight - p.BaselineHeight - ParseThickness(p.TopRailProfile) - ParseThickness(p.BottomRailProfile)
}

// JointWidth returns the width a joint occupies along the run.
func (p Plan) JointWidth(t ItemType) float64 {
	switch t {
	case ItemPost:
		return ParseDeduction(p.PostProfile)
	case ItemLink:
		return ParseDeduction(p.LinkProfile)
	}
	return 0
}

// PieceGroup is a set of pieces sharing the same structure.
type PieceGroup struct {
	Piece PiecePlan
	Count int
}

// GroupIdentical groups pieces by structure, keeping first-appearance order.
func (p Plan) GroupIdentical() []PieceGroup {
	var groups []PieceGroup
	index := map[string]int{}
	for _, m := range p.Pieces {
		key := StructureKey(m.Structure)
		if i, ok := index[key]; ok {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, PieceGroup{Piece: m, Count: 1})
	}
	return groups
}
