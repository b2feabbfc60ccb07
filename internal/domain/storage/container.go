package storage

import (
	"storefront/internal/domain/admins"
	"storefront/internal/domain/products"
	"storefront/internal/domain/settings"
	"storefront/internal/infra/dbx"
)

// Container groups the repositories that share one connection pool.
type Container struct {
	Products products.Store
	Settings settings.Store
	Admins   admins.Store
}

func NewContainer(db dbx.Querier) *Container {
	return &Container{
		Products: products.NewRepository(db),
		Settings: settings.NewRepository(db),
		Admins:   admins.NewRepository(db),
	}
}
