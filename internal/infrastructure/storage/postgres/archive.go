package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "onghub/internal/core/context"
)

// ArchiveStore writes snapshots to organization_archive.
type ArchiveStore struct {
	txManager *TxManager
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewArchiveStore creates an archive store.
func NewArchiveStore(txManager *TxManager) (*ArchiveStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &ArchiveStore{txManager: txManager, encoder: encoder, decoder: decoder}, nil
}

// Compress encodes snapshot as zstd-compressed JSON.
func (s *ArchiveStore) Compress(snapshot any) ([]byte, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.encoder.EncodeAll(raw, nil), nil
}

// Decompress returns the JSON snapshot stored in an entry.
func (s *ArchiveStore) Decompress(data []byte) (json.RawMessage, error) {
	raw, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	return raw, nil
}

// Archive stores a snapshot of entityType/entityID in the current transaction.
func (s *ArchiveStore) Archive(ctx context.Context, entityType string, entityID int, snapshot any) error {
	data, err := s.Compress(snapshot)
	if err != nil {
		return err
	}

	var deletedBy *int
	if uid := appctx.GetUserID(ctx); uid != 0 {
		deletedBy = &uid
	}

	_, err = s.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO organization_archive (entity_type, entity_id, snapshot_zstd, deleted_by, created_on)
		VALUES ($1, $2, $3, $4, $5)
	`, entityType, entityID, data, deletedBy, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert archive entry: %w", err)
	}
	return nil
}
