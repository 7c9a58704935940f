package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

// ListServices returns the catalogue; lang falls back to the client default when empty.
func (c *Client) ListServices(ctx context.Context, activeOnly bool, lang string) ([]model.Service, error) {
	var out struct {
		Services []model.Service `json:"services"`
	}
	q := url.Values{
		"active": {strconv.FormatBool(activeOnly)},
		"lang":   {c.langOr(lang)},
	}
	err := c.do(ctx, call{method: http.MethodGet, path: "/services", query: q}, &out)
	return out.Services, err
}

func (c *Client) GetService(ctx context.Context, id, lang string) (model.Service, error) {
	var out struct {
		Service model.Service `json:"service"`
	}
	q := url.Values{"lang": {c.langOr(lang)}}
	err := c.do(ctx, call{method: http.MethodGet, path: "/services/" + url.PathEscape(id), query: q}, &out)
	return out.Service, err
}

func (c *Client) langOr(lang string) string {
	if lang == "" {
		return c.lang
	}
	return lang
}
