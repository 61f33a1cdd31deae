package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func TestHealthWorkerCheck(t *testing.T) {
	db := &fakePinger{}
	w := NewHealthWorker(db)
	assert.Equal(t, "unknown", w.Status().Database)

	status := w.Check(context.Background())
	assert.True(t, status.Healthy())
	assert.Equal(t, status, w.Status())

	db.err = errors.New("connection refused")
	status = w.Check(context.Background())
	assert.False(t, status.Healthy())
	assert.Equal(t, "down", status.Database)
	assert.Equal(t, "connection refused", w.Status().Error)
}

func TestHealthWorkerStops(t *testing.T) {
	w := NewHealthWorker(&fakePinger{})
	w.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, w.Status().Healthy())
}
