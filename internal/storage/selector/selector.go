// Package selector picks the storage adapter once at startup.
package selector

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"manvan/internal/storage"
	"manvan/internal/storage/document"
	"manvan/internal/storage/relational"
)

type Options struct {
	MongoURI       string
	MongoDatabase  string
	ConnectTimeout time.Duration
	DatabaseURL    string
}

// dialers are swapped in tests.
type dialers struct {
	document   func(ctx context.Context, uri, database string) (storage.Storage, error)
	relational func(dsn string) (storage.Storage, error)
}

var defaultDialers = dialers{
	document: func(ctx context.Context, uri, database string) (storage.Storage, error) {
		return document.Connect(ctx, uri, database)
	},
	relational: func(dsn string) (storage.Storage, error) {
		return relational.Open(dsn)
	},
}

// Select connects to MongoDB when a URI is configured and answers a ping
// within the timeout. Otherwise it opens the relational store. The returned
// adapter is owned by the caller.
func Select(ctx context.Context, opts Options) (storage.Storage, error) {
	return defaultDialers.selectStore(ctx, opts)
}

func (d dialers) selectStore(ctx context.Context, opts Options) (storage.Storage, error) {
	if opts.MongoURI != "" {
		probeCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
		s, err := d.document(probeCtx, opts.MongoURI, opts.MongoDatabase)
		cancel()
		if err == nil {
			log.Info().Str("database", opts.MongoDatabase).Msg("using MongoDB storage")
			return s, nil
		}
		log.Warn().Err(err).Msg("MongoDB unavailable, falling back to relational storage")
	}

	s, err := d.relational(opts.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("using relational storage")
	return s, nil
}
