package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/pancake"
)

const (
	PairsBucket = "pancake_pairs"

	DefaultDBPath = "./data/pairs.db"
)

var _ pancake.PairStore = (*BoltPairStore)(nil)

// BoltPairStore keeps discovered pairs in an embedded bolt file.
type BoltPairStore struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewBoltPairStore(dbPath string) (*BoltPairStore, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database dir: %w", err)
	}

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[pairStore] opened bolt database")

	return &BoltPairStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *BoltPairStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *BoltPairStore) SavePair(_ context.Context, token common.Address, info *domain.PancakePairInfo) error {
	data, err := encodePair(token, info)
	if err != nil {
		return err
	}
	return s.db.Set(PairsBucket, []byte(pairKey(token)), data)
}

func (s *BoltPairStore) LoadPairs(_ context.Context) (map[common.Address]*domain.PancakePairInfo, error) {
	data, err := s.db.List(PairsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list pairs: %w", err)
	}
	return decodeAll(data), nil
}
