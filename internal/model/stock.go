package model

// StockSettings describe the stock bars members are cut from.
type StockSettings struct {
	Length    float64 `toml:"length_mm" json:"length_mm"`         // mm, one stock bar; 0 disables nesting
	Kerf      float64 `toml:"kerf_mm" json:"kerf_mm"`             // mm lost per saw cut
	MinOffcut float64 `toml:"min_offcut_mm" json:"min_offcut_mm"` // mm, shorter remnants are scrap
}

// DefaultStockSettings returns the usual 6 m tube stock and a 3 mm blade.
func DefaultStockSettings() StockSettings {
	return StockSettings{Length: 6000, Kerf: 3, MinOffcut: 300}
}

// Cut is one member to be cut from stock.
type Cut struct {
	Label   string  `json:"item"`
	Profile string  `json:"profile"`
	Length  float64 `json:"length_mm"`
}

// StockBar is one stock bar and the cuts taken from it.
type StockBar struct {
	Cuts    []Cut   `json:"cuts"`
	Used    float64 `json:"used_mm"`    // cuts plus kerf
	Remnant float64 `json:"remnant_mm"` // what is left at the end
}

// StockPlan is the nesting of every cut of one profile.
type StockPlan struct {
	Profile     string     `json:"profile"`
	StockLength float64    `json:"stock_length_mm"`
	Bars        []StockBar `json:"bars"`
	Unplaced    []Cut      `json:"unplaced,omitempty"` // longer than a stock bar
}

// CutLength returns the summed length of the placed cuts.
func (s StockPlan) CutLength() float64 {
	var total float64
	for _, b := range s.Bars {
		for _, c := range b.Cuts {
			total += c.Length
		}
	}
	return total
}

// Efficiency returns the share of stock turned into cuts, in percent.
func (s StockPlan) Efficiency() float64 {
	stock := float64(len(s.Bars)) * s.StockLength
	if stock <= 0 {
		return 0
	}
	return s.CutLength() / stock * 100
}

// Offcuts returns the remnants long enough to keep, in bar order.
func (s StockPlan) Offcuts(minLength float64) []float64 {
	var out []float64
	for _, b := range s.Bars {
		if b.Remnant >= minLength && b.Remnant > 0 {
			out = append(out, b.Remnant)
		}
	}
	return out
}
