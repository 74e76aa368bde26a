package candlestick

import (
	"fmt"
	"html"
	"strings"
)

type tone string

const (
	toneBull    tone = "bull"
	toneBear    tone = "bear"
	toneNeutral tone = "neutral"
)

var toneStroke = map[tone]string{
	toneBull:    "#10B981",
	toneBear:    "#EF4444",
	toneNeutral: "#94A3B8",
}

// candle is drawn as an optional wick at x plus a 12px wide body centred on it.
type candle struct {
	x          int
	wickTop    int
	wickBottom int
	bodyY      int
	bodyH      int
	tone       tone
}

func (c candle) hasWick() bool { return c.wickBottom > c.wickTop }

type guide struct{ x1, y1, x2, y2 int }

type shape struct {
	candles []candle
	guides  []guide
}

var shapes = map[Pattern]shape{
	Doji:            {candles: []candle{{30, 8, 52, 28, 4, toneNeutral}}},
	Hammer:          {candles: []candle{{30, 12, 52, 12, 14, toneBull}}},
	HangingMan:      {candles: []candle{{30, 12, 52, 12, 14, toneBear}}},
	ShootingStar:    {candles: []candle{{30, 8, 48, 34, 14, toneBear}}},
	MarubozuBullish: {candles: []candle{{30, 0, 0, 10, 40, toneBull}}},
	MarubozuBearish: {candles: []candle{{30, 0, 0, 10, 40, toneBear}}},

	EngulfingBullish: {candles: []candle{{30, 18, 38, 22, 12, toneBear}, {70, 10, 50, 14, 32, toneBull}}},
	EngulfingBearish: {candles: []candle{{30, 22, 42, 26, 12, toneBull}, {70, 10, 50, 14, 32, toneBear}}},
	HaramiBullish:    {candles: []candle{{30, 8, 52, 12, 36, toneBear}, {70, 22, 38, 24, 12, toneBull}}},
	HaramiBearish:    {candles: []candle{{30, 8, 52, 12, 36, toneBull}, {70, 22, 38, 24, 12, toneBear}}},
	TweezerTop: {
		candles: []candle{{30, 12, 40, 18, 18, toneBull}, {70, 12, 44, 16, 22, toneBear}},
		guides:  []guide{{14, 12, 86, 12}},
	},
	TweezerBottom: {
		candles: []candle{{30, 20, 48, 24, 18, toneBear}, {70, 16, 48, 22, 22, toneBull}},
		guides:  []guide{{14, 48, 86, 48}},
	},

	MorningStar:        {candles: []candle{{28, 8, 32, 10, 18, toneBear}, {70, 34, 48, 38, 4, toneNeutral}, {112, 14, 38, 16, 18, toneBull}}},
	EveningStar:        {candles: []candle{{28, 28, 52, 32, 18, toneBull}, {70, 12, 26, 18, 4, toneNeutral}, {112, 22, 46, 24, 18, toneBear}}},
	ThreeWhiteSoldiers: {candles: []candle{{28, 36, 52, 38, 12, toneBull}, {70, 24, 40, 26, 12, toneBull}, {112, 12, 28, 14, 12, toneBull}}},
	ThreeBlackCrows:    {candles: []candle{{28, 8, 24, 10, 12, toneBear}, {70, 20, 36, 22, 12, toneBear}, {112, 32, 48, 34, 12, toneBear}}},
}

// Dimensions is the SVG canvas size for a pattern category.
type Dimensions struct {
	Width  int
	Height int
}

// ViewBox formats the dimensions as an SVG viewBox.
func (d Dimensions) ViewBox() string {
	return fmt.Sprintf("0 0 %d %d", d.Width, d.Height)
}

// DimensionsFor returns the canvas for a category; unknown categories get the
// single-candle canvas.
func DimensionsFor(c Category) Dimensions {
	switch c {
	case Double:
		return Dimensions{Width: 100, Height: 60}
	case Triple:
		return Dimensions{Width: 140, Height: 60}
	default:
		return Dimensions{Width: 60, Height: 60}
	}
}

var signalBorderColors = map[Signal]string{
	Bullish: "rgba(16, 185, 129, 0.4)",
	Bearish: "rgba(239, 68, 68, 0.4)",
	Neutral: "rgba(148, 163, 184, 0.4)",
}

// BorderColor returns the accent colour for a signal.
func BorderColor(s Signal) string {
	if c, ok := signalBorderColors[s]; ok {
		return c
	}
	return signalBorderColors[Neutral]
}

var gradientStops = []struct {
	tone     tone
	from, to string
}{
	{toneBull, "#10B981", "#059669"},
	{toneBear, "#EF4444", "#DC2626"},
	{toneNeutral, "#94A3B8", "#64748B"},
}

func writeDefs(b *strings.Builder, p Pattern) {
	b.WriteString("<defs>")
	for _, g := range gradientStops {
		fmt.Fprintf(b, `<linearGradient id="inline-%s-%s" x1="0%%" y1="0%%" x2="0%%" y2="100%%">`, g.tone, p)
		fmt.Fprintf(b, `<stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/>`, g.from, g.to)
		b.WriteString("</linearGradient>")
	}
	b.WriteString("</defs>")
}

// patternSVG renders the inner SVG markup of a pattern, or "" when the
// pattern has no shape.
func patternSVG(p Pattern) string {
	s, ok := shapes[p]
	if !ok {
		return ""
	}

	var b strings.Builder
	writeDefs(&b, p)
	b.WriteString(`<g class="inline-candles">`)
	for _, c := range s.candles {
		if c.hasWick() {
			fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1.5" stroke-linecap="round"/>`,
				c.x, c.wickTop, c.x, c.wickBottom, toneStroke[c.tone])
		}
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="12" height="%d" fill="url(#inline-%s-%s)" rx="1"/>`,
			c.x-6, c.bodyY, c.bodyH, c.tone, p)
	}
	for _, g := range s.guides {
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#d5a035" stroke-width="1" stroke-dasharray="3,2" opacity="0.7"/>`,
			g.x1, g.y1, g.x2, g.y2)
	}
	b.WriteString("</g>")
	return b.String()
}

// InlineHTML renders the compact visual for a pattern. Unknown patterns
// render as the empty string.
func InlineHTML(p Pattern, showLabel bool) string {
	cfg, ok := Configs[p]
	if !ok {
		return ""
	}
	svg := patternSVG(p)
	if svg == "" {
		return ""
	}
	dims := DimensionsFor(cfg.Category)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="candlestick-inline candlestick-inline--%s" style="--inline-border-color: %s;" data-pattern="%s" role="img" aria-label="%s - %s">`,
		cfg.Category, BorderColor(cfg.Signal), p, html.EscapeString(cfg.NameAr), html.EscapeString(cfg.NameEn))
	b.WriteString(`<div class="candlestick-inline__svg-wrapper">`)
	fmt.Fprintf(&b, `<svg class="candlestick-inline__svg" viewBox="%s" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" aria-hidden="true">`,
		dims.ViewBox(), dims.Width, dims.Height)
	b.WriteString(svg)
	b.WriteString("</svg></div>")
	if showLabel {
		fmt.Fprintf(&b, `<span class="candlestick-inline__label">%s</span>`, html.EscapeString(cfg.NameAr))
	}
	b.WriteString("</div>")
	return b.String()
}
