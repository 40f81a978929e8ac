package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vulnwatch/image-scanner-api/pkg/record"
)

type Controller struct {
	mock.Mock
}

func NewController() *Controller {
	return &Controller{}
}

func (c *Controller) Scan(ctx context.Context, image string) (record.ScanRecord, error) {
	args := c.Called(ctx, image)
	return args.Get(0).(record.ScanRecord), args.Error(1)
}
