package mock

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/vulnwatch/image-scanner-api/pkg/persistence"
	"github.com/vulnwatch/image-scanner-api/pkg/record"
)

type Store struct {
	mock.Mock
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Create(ctx context.Context, image string, report json.RawMessage, summary record.Summary) (record.ScanRecord, error) {
	args := s.Called(ctx, image, report, summary)
	return args.Get(0).(record.ScanRecord), args.Error(1)
}

func (s *Store) List(ctx context.Context, params persistence.ListParams) ([]record.ScanRecord, error) {
	args := s.Called(ctx, params)
	return args.Get(0).([]record.ScanRecord), args.Error(1)
}

func (s *Store) Get(ctx context.Context, id int64) (record.ScanRecord, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(record.ScanRecord), args.Error(1)
}
