package bus

import "github.com/dotsetgreg/gembot/pkg/providers"

// InboundMessage is a user message received from a channel, normalized for
// the agent loop.
type InboundMessage struct {
	Channel    string
	SenderID   string
	SenderName string
	ChatID     string
	Content    string
	Images     []providers.ImagePart
	SessionKey string
	Metadata   map[string]string
}

// OutboundMessage is a reply the agent wants delivered to a channel.
type OutboundMessage struct {
	Channel string
	ChatID  string
	Content string
}
