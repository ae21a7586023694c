package context_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infracontext "github.com/yujin9907/cloud-naitive/infrastructure/context"
)

func TestWithPingTimeout(t *testing.T) {
	ctx, cancel := infracontext.WithPingTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(infracontext.DefaultPingTimeout), deadline, time.Second)
}

func TestWithPingTimeout_InheritsCancellation(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := infracontext.WithPingTimeout(parent)
	defer cancel()

	cancelParent()

	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWithShutdownTimeout(t *testing.T) {
	ctx, cancel := infracontext.WithShutdownTimeout()
	defer cancel()

	require.NoError(t, ctx.Err())
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(infracontext.DefaultShutdownTimeout), deadline, time.Second)
}
