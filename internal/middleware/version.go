package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion describes one published version of the API.
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active" or "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type VersionMiddleware struct {
	versions map[string]APIVersion
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{versions: map[string]APIVersion{
		"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
	}}
}

// Deprecate marks version as deprecated until sunset.
func (vm *VersionMiddleware) Deprecate(version string, sunset time.Time) {
	v := vm.versions[version]
	v.Version = version
	v.Status = "deprecated"
	v.SunsetDate = &sunset
	vm.versions[version] = v
}

// VersionHeader stamps responses with the API version and any deprecation notice.
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			if v, ok := vm.versions[version]; ok {
				if v.Status == "deprecated" && v.SunsetDate != nil {
					h.Set("X-API-Deprecated", "true")
					h.Set("X-API-Sunset", v.SunsetDate.Format(time.RFC3339))
					h.Set("Warning", `299 dine "This API version is deprecated and will be removed on `+v.SunsetDate.Format("2006-01-02")+`"`)
				}
				if v.Message != "" {
					h.Set("X-API-Message", v.Message)
				}
			}
			return next(c)
		}
	}
}

// VersionRoute creates the route group of a version.
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string, m ...echo.MiddlewareFunc) *echo.Group {
	return e.Group("/"+version, append([]echo.MiddlewareFunc{vm.VersionHeader(version)}, m...)...)
}

// Versions returns every known version.
func (vm *VersionMiddleware) Versions() []APIVersion {
	out := make([]APIVersion, 0, len(vm.versions))
	for _, v := range vm.versions {
		out = append(out, v)
	}
	return out
}
