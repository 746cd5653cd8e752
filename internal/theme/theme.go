// Package theme holds the storefront's static design tokens.
package theme

type Colors struct {
	BgLight       string
	BgDark        string
	TextPrimary   string
	TextSecondary string
	TextLight     string
	AccentGold    string
	AccentGreen   string
	Border        string
	Success       string
	Error         string
}

type Typography struct {
	Sans  string
	Serif string
}

type Theme struct {
	Colors     Colors
	Typography Typography
}

// Luxury is the palette every page renders with.
var Luxury = Theme{
	Colors: Colors{
		BgLight:       "#faf8f6",
		BgDark:        "#0d0d0d",
		TextPrimary:   "#1a1a1a",
		TextSecondary: "#6b6b6b",
		TextLight:     "#f5f5f5",
		AccentGold:    "#c9a876",
		AccentGreen:   "#2d3e34",
		Border:        "#e8e8e8",
		Success:       "#4ade80",
		Error:         "#ef4444",
	},
	Typography: Typography{
		Sans:  "Geist, system-ui, -apple-system, sans-serif",
		Serif: "Crimson Text, Georgia, serif",
	},
}
