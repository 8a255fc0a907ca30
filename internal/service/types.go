package service

import (
	"context"
	"time"

	"github.com/goodnatureofminers/sentinelmesh/internal/resolver"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Resolver interface {
		Resolve(ctx context.Context) (resolver.Result, error)
	}
	SyncMetrics interface {
		ObserveSync(err error, started time.Time)
	}
)
