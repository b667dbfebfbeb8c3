// Package sqlite stores a btcfolio ledger in a SQLite database.
package sqlite

import (
	"fmt"
	"log"
	"time"

	"github.com/etnz/btcfolio"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// row is one transaction of the ledger. Position is its index in the ledger.
type row struct {
	Position int    `gorm:"primaryKey;autoIncrement:false"`
	ID       string `gorm:"index"`
	Date     time.Time
	Type     string          `gorm:"not null"`
	Amount   decimal.Decimal `gorm:"type:text;not null"`
	Price    decimal.Decimal `gorm:"type:text;not null"`
	Memo     string
}

func (row) TableName() string { return "transactions" }

func newRow(i int, tx btcfolio.Transaction) row {
	return row{
		Position: i,
		ID:       tx.ID,
		Date:     tx.Date.UTC(),
		Type:     tx.Type.String(),
		Amount:   tx.Amount.Decimal(),
		Price:    tx.Price.Decimal(),
		Memo:     tx.Memo,
	}
}

func (r row) transaction() (btcfolio.Transaction, error) {
	typ, err := btcfolio.ParseTxType(r.Type)
	if err != nil {
		return btcfolio.Transaction{}, err
	}
	tx := btcfolio.Transaction{
		ID:     r.ID,
		Date:   r.Date.UTC(),
		Type:   typ,
		Amount: btcfolio.Q(r.Amount),
		Price:  btcfolio.M(r.Price),
		Memo:   r.Memo,
	}
	return tx, tx.Validate()
}

// Store implements btcfolio.Store on top of gorm.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		return nil, fmt.Errorf("cannot migrate %s: %w", path, err)
	}
	log.Printf("ledger database %s ready", path)
	return &Store{db: db}, nil
}

// Load returns the ledger in insertion order.
func (s *Store) Load() ([]btcfolio.Transaction, error) {
	var rows []row
	if err := s.db.Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}
	txs := make([]btcfolio.Transaction, 0, len(rows))
	for _, r := range rows {
		tx, err := r.transaction()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.Position, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Save replaces the stored ledger with txs in a single database transaction.
func (s *Store) Save(txs []btcfolio.Transaction) error {
	rows := make([]row, 0, len(txs))
	for i, tx := range txs {
		rows = append(rows, newRow(i, tx))
	}
	return s.db.Transaction(func(db *gorm.DB) error {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&row{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return db.CreateInBatches(rows, 100).Error
	})
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
