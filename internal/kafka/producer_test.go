package kafka

import (
	"context"
	"testing"
)

// Shutdown cancels the context and the caller's defer still runs Close;
// neither order may panic on a closed inbox.
func TestProducerCloseAfterCancel(t *testing.T) {
	p := NewProducer([]string{"localhost:9"}, "order.created", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	p.WaitClosed()

	p.Close()
	p.Close()
}

func TestProducerCloseThenWait(t *testing.T) {
	p := NewProducer([]string{"localhost:9"}, "order.created", 8)
	p.Start(context.Background())

	p.Close()
	p.WaitClosed()
	p.Close()
}
