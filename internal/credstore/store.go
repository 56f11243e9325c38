// Package credstore reads the email credential table.
package credstore

import (
	"context"

	"stockreport/internal/model"
)

// Store returns every credential record. Records are read fresh on each call.
type Store interface {
	Scan(ctx context.Context) ([]model.Credential, error)
}

// StaticStore serves a fixed set of records, typically declared in config.
type StaticStore struct {
	Records []model.Credential
}

func NewStaticStore(records []model.Credential) *StaticStore {
	return &StaticStore{Records: records}
}

func (s *StaticStore) Scan(_ context.Context) ([]model.Credential, error) {
	out := make([]model.Credential, len(s.Records))
	copy(out, s.Records)
	return out, nil
}
