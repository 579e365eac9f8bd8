// Package app wires configuration into running components: the auth core
// over its store, the gRPC server and the interactive CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/auth"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/idcodec"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/users"
)

// Core is the auth service together with the resources backing it.
type Core struct {
	DB      *sql.DB
	Manager repomanager.RepositoryManager
	Auth    *auth.Service

	cache *users.CachedRepository
}

// NewCore opens the database, runs migrations and builds the auth service
// described by cfg.
func NewCore(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	verifier, tokens, err := newCrypto(cfg)
	if err != nil {
		return nil, err
	}

	ids, err := idcodec.NewSqidsCodec(cfg.IDAlphabet, cfg.IDMinLength)
	if err != nil {
		return nil, err
	}

	db, m, err := repomanager.Open(logging.WithLogger(ctx, logger), cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	c := &Core{DB: db, Manager: m}

	var repo users.Repository = m.Users(db)
	if cfg.CacheTTL > 0 {
		c.cache, err = users.NewCachedRepository(ctx, repo, cfg.CacheTTL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("cache init error: %w", err)
		}
		repo = c.cache
	}

	c.Auth = auth.NewService(users.NewStore(repo, ids), verifier, tokens, logger)
	return c, nil
}

// newCrypto derives the secret and token keys from the configured
// passphrase and builds the verifier and token codec.
func newCrypto(cfg *config.Config) (auth.Verifier, *auth.TokenCodec, error) {
	root := cryptox.DeriveMasterKey([]byte(cfg.SecretKey), []byte(cfg.KeySalt))
	defer common.WipeByteArray(root)

	tokenKey, err := cryptox.DeriveKey(root, cryptox.InfoTokenKey)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(tokenKey)
	siv, err := cryptox.NewSIVCipher(tokenKey)
	if err != nil {
		return nil, nil, err
	}
	tokens := auth.NewTokenCodec(siv)

	if cfg.SecretScheme == config.SchemeHash {
		return auth.NewHashVerifier(), tokens, nil
	}

	secretKey, err := cryptox.DeriveKey(root, cryptox.InfoSecretKey)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(secretKey)
	gcm, err := cryptox.NewGCMCipher(secretKey)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewCipherVerifier(gcm), tokens, nil
}

func (c *Core) Close() error {
	var errs []error
	if c.cache != nil {
		errs = append(errs, c.cache.Close())
	}
	errs = append(errs, c.DB.Close())
	return errors.Join(errs...)
}
