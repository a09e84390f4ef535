package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/coachplan/internal/render"
	"github.com/mark3labs/mcp-go/mcp"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) stats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := h.ds.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, stats)
}

type styleInfo struct {
	Style        render.Style `json:"style"`
	PageWidth    float64      `json:"pageWidthMm"`
	PageHeight   float64      `json:"pageHeightMm"`
	UsableHeight float64      `json:"usableHeightMm"`
	Banner       bool         `json:"banner"`
	Linkback     bool         `json:"linkback"`
}

func (h *handlers) styles(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var out []styleInfo
	for _, s := range render.Styles {
		t, err := render.ThemeFor(s)
		if err != nil {
			return nil, err
		}
		out = append(out, styleInfo{
			Style:        s,
			PageWidth:    t.Geometry.Width,
			PageHeight:   t.Geometry.Height,
			UsableHeight: t.Geometry.UsableHeight(),
			Banner:       t.ShowBanner,
			Linkback:     t.ShowLinkback,
		})
	}
	return jsonContents(req.Params.URI, out)
}
