package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/pinpoint-collective/pinpoint/modules"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
)

// bootstrap connects the pool and registers every built-in module. The
// returned context carries the pool so repository calls work outside a
// request. Callers close the pool.
func bootstrap(ctx context.Context) (context.Context, application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, nil, nil, err
	}
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	return composables.WithPool(ctx, pool), app, pool, nil
}
