package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
	"github.com/pinpoint-collective/pinpoint/pkg/httpapi"
)

// RequireOrganization resolves the active organization from the Host
// subdomain, falling back to the configured header, and rejects requests it
// cannot scope.
func RequireOrganization(app application.Application) mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgService := app.Service(services.OrganizationService{}).(*services.OrganizationService)

			var org organization.Organization
			var err error
			if sub := subdomainOf(normalizeHost(r.Host), conf.Domain); sub != "" {
				org, err = orgService.GetBySubdomain(r.Context(), sub)
			} else if id := strings.TrimSpace(r.Header.Get(conf.OrganizationHeader)); id != "" {
				org, err = orgService.GetByID(r.Context(), id)
			} else {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "ORG_REQUIRED", "organization could not be resolved from request", nil)
				return
			}
			if err != nil {
				composables.UseLogger(r.Context()).
					WithField("host", r.Host).
					WithField("path", r.URL.Path).
					WithError(err).
					Warn("organization not found for request")
				_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithOrgID(r.Context(), org.ID())))
		})
	}
}

// ResolveMembership loads the caller's membership in the active organization
// for the boundary validators. Anonymous callers and non-members pass
// through; the validators report the missing membership themselves.
func ResolveMembership(app application.Application) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			u, err := composables.UseUser(ctx)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			orgID, err := composables.UseOrgID(ctx)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			membershipService := app.Service(services.MembershipService{}).(*services.MembershipService)
			m, err := membershipService.GetByUserAndOrganization(ctx, u.ID(), orgID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithMembership(ctx, m.Boundary())))
		})
	}
}

func subdomainOf(host, baseDomain string) string {
	if host == "" || baseDomain == "" {
		return ""
	}
	suffix := "." + strings.ToLower(strings.TrimSpace(baseDomain))
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	sub := strings.TrimSuffix(host, suffix)
	if sub == "" || strings.Contains(sub, ".") {
		return ""
	}
	return sub
}

func normalizeHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = strings.ToLower(raw)
	if h, _, err := net.SplitHostPort(raw); err == nil {
		return strings.ToLower(strings.TrimSpace(h))
	}
	return raw
}
