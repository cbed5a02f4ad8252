package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dotsetgreg/gembot/pkg/bus"
	"github.com/dotsetgreg/gembot/pkg/tools"
)

func newTestLoop(provider *scriptedProvider) (*Loop, *bus.MessageBus) {
	msgBus := bus.NewMessageBus()
	registry := NewRegistry(provider, tools.NewToolRegistry(), "", 20)
	return NewLoop(msgBus, registry), msgBus
}

func consumeOutbound(t *testing.T, msgBus *bus.MessageBus) bus.OutboundMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg, ok := msgBus.SubscribeOutbound(ctx)
	if !ok {
		t.Fatal("timed out waiting for outbound message")
	}
	return msg
}

func TestLoop_InboundProducesOutboundReply(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"hello back"}}
	loop, msgBus := newTestLoop(provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	msgBus.PublishInbound(bus.InboundMessage{
		Channel:    "discord",
		SenderName: "alice",
		ChatID:     "chan-1",
		Content:    "hi",
		SessionKey: "discord:chan-1",
	})

	reply := consumeOutbound(t, msgBus)
	if reply.Channel != "discord" || reply.ChatID != "chan-1" {
		t.Fatalf("reply routed to %s/%s", reply.Channel, reply.ChatID)
	}
	if reply.Content != "hello back" {
		t.Fatalf("reply content = %q", reply.Content)
	}
}

func TestLoop_SameSessionRepliesStayInOrder(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"first", "second", "third"}}
	loop, msgBus := newTestLoop(provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	for _, content := range []string{"one", "two", "three"} {
		msgBus.PublishInbound(bus.InboundMessage{
			Channel:    "discord",
			SenderName: "bob",
			ChatID:     "chan-1",
			Content:    content,
			SessionKey: "discord:chan-1",
		})
	}

	for _, want := range []string{"first", "second", "third"} {
		if got := consumeOutbound(t, msgBus).Content; got != want {
			t.Fatalf("out-of-order reply: got %q, want %q", got, want)
		}
	}
}

func TestLoop_ProviderFailureRepliesWithApology(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("upstream down")}
	loop, msgBus := newTestLoop(provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	msgBus.PublishInbound(bus.InboundMessage{
		Channel:    "discord",
		SenderName: "carol",
		ChatID:     "chan-2",
		Content:    "hello?",
		SessionKey: "discord:chan-2",
	})

	reply := consumeOutbound(t, msgBus)
	if reply.Content != apologyMessage {
		t.Fatalf("reply = %q, want the apology message", reply.Content)
	}
}

func TestLoop_ProcessDirectSharesSessionMemory(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"noted", "recalled"}}
	loop, _ := newTestLoop(provider)

	ctx := context.Background()
	if _, err := loop.ProcessDirect(ctx, "cli:default", "cli", "remember this"); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if _, err := loop.ProcessDirect(ctx, "cli:default", "cli", "what did I say?"); err != nil {
		t.Fatalf("second turn: %v", err)
	}

	agent := loop.registry.GetOrCreate("cli:default")
	if got := agent.Memory().Len(); got != 4 {
		t.Fatalf("session memory has %d entries, want 4", got)
	}
}
