package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPingReportsUnreachableRedis(t *testing.T) {
	client := NewTaskClient("127.0.0.1:1", "", "", 0)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, client.Ping(ctx))
}
