package model

// AppConfig holds process-wide settings and the default form values.
type AppConfig struct {
	// HTTP boundary
	ListenAddr string `toml:"listen_addr" json:"listen_addr"`

	// Browser origins allowed to call the HTTP API
	AllowedOrigins []string `toml:"allowed_origins" json:"allowed_origins"`

	// Natural-language assistant. The key itself is read from the
	// environment variable named by APIKeyEnv at startup.
	Assistant AssistantConfig `toml:"assistant" json:"assistant"`

	// Stock bars used when nesting cuts
	Stock StockSettings `toml:"stock" json:"stock"`

	// Default form values applied to new drafts
	DefaultOverallHeight     float64  `toml:"default_overall_height" json:"default_overall_height"`
	DefaultBaselineHeight    *float64 `toml:"default_baseline_height" json:"default_baseline_height"` // nil keeps the draft default, 0 is a floor-mounted rail
	DefaultPostProfile       string   `toml:"default_post_dims" json:"default_post_dims"`
	DefaultLinkProfile       string   `toml:"default_link_dims" json:"default_link_dims"`
	DefaultTopRailProfile    string   `toml:"default_top_rail_dims" json:"default_top_rail_dims"`
	DefaultBottomRailProfile string   `toml:"default_bottom_rail_dims" json:"default_bottom_rail_dims"`
	DefaultBarProfile        string   `toml:"default_bar_dims" json:"default_bar_dims"`
	DefaultMaxGap            float64  `toml:"default_max_gap" json:"default_max_gap"`
}

// AssistantConfig configures the Gemini client.
type AssistantConfig struct {
	BaseURL        string `toml:"base_url" json:"base_url"`
	Model          string `toml:"model" json:"model"`
	APIKeyEnv      string `toml:"api_key_env" json:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds" json:"timeout_seconds"`
}

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultFormDraft().
func DefaultAppConfig() AppConfig {
	d := DefaultFormDraft()
	baseline := d.BaselineHeight
	return AppConfig{
		ListenAddr:     ":8000",
		AllowedOrigins: []string{"http://127.0.0.1:5500", "http://localhost:5500", "null"},
		Assistant: AssistantConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			Model:          "gemini-1.5-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: 60,
		},
		Stock:                    DefaultStockSettings(),
		DefaultOverallHeight:     d.OverallHeight,
		DefaultBaselineHeight:    &baseline,
		DefaultPostProfile:       d.PostProfile,
		DefaultLinkProfile:       d.LinkProfile,
		DefaultTopRailProfile:    d.TopRailProfile,
		DefaultBottomRailProfile: d.BottomRailProfile,
		DefaultBarProfile:        d.BarProfile,
		DefaultMaxGap:            d.MaxGap,
	}
}

// NewFormDraft returns a draft carrying the configured defaults.
func (c AppConfig) NewFormDraft() FormDraft {
	d := DefaultFormDraft()
	c.ApplyToDraft(&d)
	return d
}

// ApplyToDraft copies the default values into a draft. Zero values in the
// config leave the draft untouched, so a partial config file still works.
// The baseline height is a pointer because zero is a real value there.
func (c AppConfig) ApplyToDraft(d *FormDraft) {
	if c.DefaultOverallHeight > 0 {
		d.OverallHeight = c.DefaultOverallHeight
	}
	if c.DefaultBaselineHeight != nil && *c.DefaultBaselineHeight >= 0 {
		d.BaselineHeight = *c.DefaultBaselineHeight
	}
	if c.DefaultPostProfile != "" {
		d.PostProfile = c.DefaultPostProfile
	}
	if c.DefaultLinkProfile != "" {
		d.LinkProfile = c.DefaultLinkProfile
	}
	if c.DefaultTopRailProfile != "" {
		d.TopRailProfile = c.DefaultTopRailProfile
	}
	if c.DefaultBottomRailProfile != "" {
		d.BottomRailProfile = c.DefaultBottomRailProfile
	}
	if c.DefaultBarProfile != "" {
		d.BarProfile = c.DefaultBarProfile
	}
	if c.DefaultMaxGap > 0 {
		d.MaxGap = c.DefaultMaxGap
	}
}
