// Package badgerdb keeps token records in an embedded Badger database.
//
// Records are stored as JSON under "<table>/<ReqId>" keys. Without a directory
// the database lives in memory, which is handy for local runs and tests.
package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/models"
)

type Config struct {
	// Database directory. Empty means in-memory database
	Dir string

	// Key prefix for token records
	Table string
}

// item is the persisted form of models.TokenRecord
type item struct {
	ReqID       string `json:"ReqId"`
	User        string `json:"User"`
	RequestTime string `json:"RequestTime"`
}

type Storage struct {
	db     *badger.DB
	prefix []byte
}

func Open(cfg Config, l logger.Logger) (*Storage, error) {
	if cfg.Table == "" {
		return nil, errors.New("badger: table must not be empty")
	}

	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.Dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(&badgerLogger{logger: l.With("component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	return &Storage{db: db, prefix: []byte(cfg.Table + "/")}, nil
}

func (s *Storage) key(reqID string) []byte {
	return append(append([]byte{}, s.prefix...), reqID...)
}

// Save token record if key is free
// Check and write happen in one transaction; concurrent saves of the same key conflict on commit
func (s *Storage) Save(ctx context.Context, token models.TokenRecord) error {
	value, err := json.Marshal(item{
		ReqID:       token.ReqID,
		User:        token.User,
		RequestTime: token.RequestTimeString(),
	})
	if err != nil {
		return fmt.Errorf("badger: encode token: %w", err)
	}

	key := s.key(token.ReqID)
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return apperrors.ErrTokenExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		return txn.Set(key, value)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrTokenExists), errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("repo error: %w", apperrors.ErrTokenExists)
	default:
		return fmt.Errorf("badger: save token: %w", err)
	}
}

func (s *Storage) Get(ctx context.Context, reqID string) (models.TokenRecord, error) {
	var raw []byte

	err := s.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get(s.key(reqID))
		if err != nil {
			return err
		}

		raw, err = it.ValueCopy(nil)
		return err
	})

	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return models.TokenRecord{}, fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	case err != nil:
		return models.TokenRecord{}, fmt.Errorf("badger: get token: %w", err)
	}

	var stored item
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.TokenRecord{}, fmt.Errorf("badger: decode token: %w", err)
	}

	requestTime, err := models.ParseRequestTime(stored.RequestTime)
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("badger: decode request time: %w", err)
	}

	return models.TokenRecord{
		ReqID:       stored.ReqID,
		User:        stored.User,
		RequestTime: requestTime,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// badgerLogger adapts application logger to Badger's Logger interface
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
