package database

import (
	"context"
	"database/sql"
	"sync"

	"cayo/errs"
	"cayo/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 200

// Store is the gorm-backed store.Store. Records are never deleted, so
// persisting a State is an upsert of every row it holds.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// readOptions pins every table read to one point in time. sqlite runs on a
// single connection, so a plain transaction already excludes writers there.
func (s *Store) readOptions() []*sql.TxOptions {
	if s.db.Dialector.Name() == "postgres" {
		return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
	}
	return nil
}

// LoadAll reads every table inside one transaction so the snapshot never
// mixes rows from before and after a concurrent Update.
func (s *Store) LoadAll(ctx context.Context) (*store.Snapshot, error) {
	var st *store.State
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		st, err = load(tx)
		return err
	}, s.readOptions()...)
	if err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	return store.NewSnapshot(st), nil
}

func (s *Store) Persist(ctx context.Context, st *store.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return persist(tx, st)
	})
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, fn func(*store.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := load(tx)
		if err != nil {
			return err
		}
		snap := store.NewSnapshot(st)
		if fnErr = fn(snap); fnErr != nil {
			return fnErr
		}
		return persist(tx, &snap.State)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.NewStoreUnavailable(err)
	}
	return nil
}

func load(tx *gorm.DB) (*store.State, error) {
	var st store.State
	if err := tx.Order("created_at, id").Find(&st.Accounts).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("created_at, id").Find(&st.Players).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("created_at, id").Find(&st.Transactions).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("created_at, id").Find(&st.Bets).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("key").Find(&st.Settings).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func persist(tx *gorm.DB, st *store.State) error {
	upsert := tx.Clauses(clause.OnConflict{UpdateAll: true}).Session(&gorm.Session{})
	if len(st.Accounts) > 0 {
		if err := upsert.CreateInBatches(&st.Accounts, batchSize).Error; err != nil {
			return err
		}
	}
	if len(st.Players) > 0 {
		if err := upsert.CreateInBatches(&st.Players, batchSize).Error; err != nil {
			return err
		}
	}
	if len(st.Transactions) > 0 {
		if err := upsert.CreateInBatches(&st.Transactions, batchSize).Error; err != nil {
			return err
		}
	}
	if len(st.Bets) > 0 {
		if err := upsert.CreateInBatches(&st.Bets, batchSize).Error; err != nil {
			return err
		}
	}
	if len(st.Settings) > 0 {
		if err := upsert.CreateInBatches(&st.Settings, batchSize).Error; err != nil {
			return err
		}
	}
	return nil
}
