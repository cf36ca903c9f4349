package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProducerPublishSafeUntilClose(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "test.topic", 8)
	p.Start(context.Background())

	// sinyal shutdown datang, handler yang masih drain tetap boleh publish
	sig, cancel := context.WithCancel(context.Background())
	cancel()
	<-sig.Done()

	require.NotPanics(t, func() { p.Publish([]byte("1"), []byte(`{}`)) })

	p.Close()
	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("producer goroutine did not stop after Close")
	}
}
