package reqctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RID(ctx))
	assert.Empty(t, UserID(ctx))

	ctx = WithUserID(WithRID(ctx, "req-1"), "user-1")
	assert.Equal(t, "req-1", RID(ctx))
	assert.Equal(t, "user-1", UserID(ctx))
}
