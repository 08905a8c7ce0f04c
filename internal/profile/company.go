// Package profile decodes user-profile and session-timeline payloads.
//
// Unlike content decoding, everything here is best-effort personalization
// data: decoding never fails, malformed fields are dropped or defaulted.
package profile

import "net/url"

// Employment is the visitor's position within their company.
type Employment struct {
	Title string `json:"title,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Geolocation is the company's location.
type Geolocation struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
}

// Company is the visitor's organization.
type Company struct {
	Name        string       `json:"name"`
	URL         *url.URL     `json:"-"`
	Description string       `json:"companyDescription,omitempty"`
	Employment  *Employment  `json:"employment,omitempty"`
	Geolocation *Geolocation `json:"geolocation,omitempty"`
}

// DecodeCompany converts an untyped payload into a Company. A missing or
// mistyped name becomes the empty string; a malformed url is dropped.
func DecodeCompany(payload map[string]any) Company {
	company := Company{}
	company.Name, _ = payload["name"].(string)
	company.Description, _ = payload["companyDescription"].(string)

	if raw, ok := payload["url"].(string); ok {
		if u, err := url.ParseRequestURI(raw); err == nil {
			company.URL = u
		}
	}
	if raw, ok := payload["employment"].(map[string]any); ok {
		company.Employment = decodeEmployment(raw)
	}
	if raw, ok := payload["geolocation"].(map[string]any); ok {
		company.Geolocation = decodeGeolocation(raw)
	}
	return company
}

func decodeEmployment(payload map[string]any) *Employment {
	e := &Employment{}
	e.Title, _ = payload["title"].(string)
	e.Role, _ = payload["role"].(string)
	return e
}

func decodeGeolocation(payload map[string]any) *Geolocation {
	g := &Geolocation{}
	g.Country, _ = payload["country"].(string)
	g.City, _ = payload["city"].(string)
	return g
}
