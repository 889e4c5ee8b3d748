package rsrc

import (
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/data"
)

func noopLogger() *zap.Logger { return zap.NewNop() }

func newBEBlock(b []byte) *data.Block { return data.NewBlockFromBytes(b) }
