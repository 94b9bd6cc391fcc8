package main

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	authservice "carehub/internal/auth/service"
	userstore "carehub/internal/auth/store/user"
	medservice "carehub/internal/medication/service"
	medstore "carehub/internal/medication/store"
	"carehub/internal/platform/config"
	"carehub/internal/platform/database"
	"carehub/internal/platform/mongodb"
)

// storeSet is the persistence selected by STORE_BACKEND.
type storeSet struct {
	users       authservice.UserStore
	medications medservice.Store
	health      func(ctx context.Context) error
	close       func()
}

func openStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*storeSet, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		dbCfg := database.DefaultConfig()
		dbCfg.URL = cfg.DatabaseURL
		pool, err := database.New(ctx, dbCfg)
		if err != nil {
			return nil, oops.In("startup").With("store", cfg.StoreBackend).Wrapf(err, "connect postgres")
		}
		log.Info("connected to postgres")
		return &storeSet{
			users:       userstore.NewPostgres(pool.Pool()),
			medications: medstore.NewPostgres(pool.Pool()),
			health:      pool.Health,
			close:       pool.Close,
		}, nil

	case config.StoreMongo:
		mongoCfg := mongodb.DefaultConfig()
		mongoCfg.URL = cfg.MongoURL
		mongoCfg.Database = cfg.MongoDatabase
		client, err := mongodb.Connect(ctx, mongoCfg)
		if err != nil {
			return nil, oops.In("startup").With("store", cfg.StoreBackend).Wrapf(err, "connect mongo")
		}
		users := userstore.NewMongo(client.Database())
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Close(context.Background())
			return nil, err
		}
		log.Info("connected to mongo", "database", mongoCfg.Database)
		return &storeSet{
			users:       users,
			medications: medstore.NewMongo(client.Database()),
			health:      client.Health,
			close: func() {
				if err := client.Close(context.Background()); err != nil {
					log.Warn("closing mongo client", "error", err)
				}
			},
		}, nil

	default:
		users := userstore.New()
		log.Warn("using in-memory store; data is lost on restart")
		return &storeSet{
			users:       users,
			medications: medstore.New(users),
			health:      users.Health,
			close:       func() {},
		}, nil
	}
}
