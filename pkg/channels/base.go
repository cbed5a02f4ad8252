package channels

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotsetgreg/gembot/pkg/bus"
	"github.com/dotsetgreg/gembot/pkg/providers"
)

type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg bus.OutboundMessage) error
	IsRunning() bool
	IsAllowed(senderID string) bool
}

type BaseChannel struct {
	bus       *bus.MessageBus
	running   bool
	name      string
	allowList []string
}

func NewBaseChannel(name string, messageBus *bus.MessageBus, allowList []string) *BaseChannel {
	return &BaseChannel{
		bus:       messageBus,
		name:      name,
		allowList: allowList,
		running:   false,
	}
}

func (c *BaseChannel) Name() string {
	return c.name
}

func (c *BaseChannel) IsRunning() bool {
	return c.running
}

func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}

	for _, allowed := range c.allowList {
		candidate := strings.TrimPrefix(strings.TrimSpace(allowed), "@")
		if candidate == "" {
			continue
		}
		if candidate == senderID {
			return true
		}
	}

	return false
}

// HandleMessage normalizes an inbound platform message and publishes it to
// the bus. The session key isolates one conversation context per chat.
func (c *BaseChannel) HandleMessage(senderID, senderName, chatID, content string, images []providers.ImagePart, metadata map[string]string) {
	if !c.IsAllowed(senderID) {
		return
	}

	c.bus.PublishInbound(bus.InboundMessage{
		Channel:    c.name,
		SenderID:   senderID,
		SenderName: senderName,
		ChatID:     chatID,
		Content:    content,
		Images:     images,
		SessionKey: fmt.Sprintf("%s:%s", c.name, chatID),
		Metadata:   metadata,
	})
}

func (c *BaseChannel) setRunning(running bool) {
	c.running = running
}
