package mock

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Wrapper struct {
	mock.Mock
}

func NewWrapper() *Wrapper {
	return &Wrapper{}
}

func (w *Wrapper) Scan(ctx context.Context, imageRef string) ([]byte, error) {
	args := w.Called(ctx, imageRef)
	return args.Get(0).([]byte), args.Error(1)
}
