package routelint

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	internalserver "github.com/pinpoint-collective/pinpoint/internal/server"
	"github.com/pinpoint-collective/pinpoint/modules"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
	"github.com/pinpoint-collective/pinpoint/pkg/routing"
	pkgserver "github.com/pinpoint-collective/pinpoint/pkg/server"
)

func TestServerRoutes_AllPrefixesMustBeAllowlisted(t *testing.T) {
	srv := buildMainServerHTTPServer(t)
	router := srv.Router()

	rules, err := routing.LoadAllowlist("", "server")
	require.NoError(t, err)
	classifier := routing.NewClassifier(rules)

	paths := collectRoutePaths(t, router)

	offendingSet := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" || p == "/" {
			continue
		}
		if _, ok := classifier.MatchAllowlist(p); ok {
			continue
		}
		offendingSet[p] = struct{}{}
	}

	if len(offendingSet) > 0 {
		offending := make([]string, 0, len(offendingSet))
		for p := range offendingSet {
			offending = append(offending, p)
		}
		sort.Strings(offending)
		t.Fatalf("found routes outside the allowlisted prefixes (register the prefix in config/routing/allowlist.yaml or move the route):\n%s", strings.Join(offending, "\n"))
	}
}

func TestServerRoutes_APIRoutesClassifyAsAPI(t *testing.T) {
	srv := buildMainServerHTTPServer(t)
	router := srv.Router()

	rules, err := routing.LoadAllowlist("", "server")
	require.NoError(t, err)
	classifier := routing.NewClassifier(rules)

	paths := collectRoutePaths(t, router)

	var offending []string
	for _, p := range paths {
		if !routing.HasPathPrefixOnBoundary(p, "/api") {
			continue
		}
		if !classifier.ClassifyPath(p).IsAPI() {
			offending = append(offending, p)
		}
	}

	if len(offending) > 0 {
		sort.Strings(offending)
		t.Fatalf("found /api routes whose allowlist class is not an API class:\n%s", strings.Join(offending, "\n"))
	}
}

func collectRoutePaths(t *testing.T, router *mux.Router) []string {
	t.Helper()

	var paths []string
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		p := routePath(route)
		if strings.TrimSpace(p) != "" {
			paths = append(paths, p)
		}
		return nil
	})
	require.NoError(t, err)

	sort.Strings(paths)
	return paths
}

func routePath(route *mux.Route) string {
	if route == nil {
		return ""
	}
	if tmpl, err := route.GetPathTemplate(); err == nil {
		return tmpl
	}
	regexp, err := route.GetPathRegexp()
	if err != nil {
		return ""
	}
	result := strings.TrimPrefix(regexp, "^")
	return strings.TrimSuffix(result, "$")
}

func buildMainServerHTTPServer(t *testing.T) *pkgserver.HTTPServer {
	t.Helper()

	conf := configuration.Use()
	logger := conf.Logger()

	pool := newLazyPool(t, conf.Database.Opts)

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
	})

	require.NoError(t, modules.Load(app, modules.BuiltInModules...))

	srv, err := internalserver.Default(&internalserver.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	require.NoError(t, err)

	return srv
}

func newLazyPool(t *testing.T, opts string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		pool.Close()
	})
	return pool
}
