package mock

import (
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/vulnwatch/image-scanner-api/pkg/record"
)

type Transformer struct {
	mock.Mock
}

func NewTransformer() *Transformer {
	return &Transformer{}
}

func (t *Transformer) Transform(raw []byte) (json.RawMessage, record.Summary, error) {
	args := t.Called(raw)
	return args.Get(0).(json.RawMessage), args.Get(1).(record.Summary), args.Error(2)
}
