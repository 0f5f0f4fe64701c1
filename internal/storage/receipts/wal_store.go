// Package receipts persists committed ledger operations in a WAL so the
// transaction history survives restarts and can be streamed to the
// dashboard.
package receipts

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/orbitalfinances/orbital/internal/domain"
)

const (
	// DefaultDir default location of the receipts WAL.
	DefaultDir = "./wal/receipts"

	segmentLimit = 1000
	maxSegments  = 100

	receiptKeyPrefix = "receipt_"
)

// WALStore persists receipts in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed receipt store.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "receipt_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init receipts WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends a receipt to the journal.
func (s *WALStore) Save(receipt domain.Receipt) error {
	if s == nil || s.wal == nil {
		return errors.New("receipt store is not initialized")
	}
	if receipt.OperationID == "" {
		return errors.New("receipt operation id is required")
	}

	payload, err := json.Marshal(receipt)
	if err != nil {
		return errors.Wrap(err, "marshal receipt")
	}

	key := fmt.Sprintf("%s%s", receiptKeyPrefix, receipt.OperationID)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// RecordsAfter returns all receipts written after the provided WAL index.
func (s *WALStore) RecordsAfter(index uint64) ([]domain.ReceiptRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("receipt store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.ReceiptRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		_, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}

		var receipt domain.Receipt
		if err := json.Unmarshal(payload, &receipt); err != nil {
			return nil, errors.Wrap(err, "decode receipt")
		}
		records = append(records, domain.ReceiptRecord{Index: idx, Receipt: receipt})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("receipt store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
