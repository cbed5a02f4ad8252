package channels

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dotsetgreg/gembot/pkg/bus"
	"github.com/dotsetgreg/gembot/pkg/config"
	"github.com/dotsetgreg/gembot/pkg/logger"
	"github.com/dotsetgreg/gembot/pkg/providers"
	"github.com/dotsetgreg/gembot/pkg/utils"
)

const (
	sendTimeout           = 10 * time.Second
	typingRefreshInterval = 8 * time.Second
)

type DiscordChannel struct {
	*BaseChannel
	session    *discordgo.Session
	config     config.DiscordConfig
	httpClient *http.Client
	typing     map[string]*typingSession
	typingMu   sync.Mutex
}

type typingSession struct {
	pending int
	cancel  context.CancelFunc
}

func NewDiscordChannel(cfg config.DiscordConfig, messageBus *bus.MessageBus) (*DiscordChannel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &DiscordChannel{
		BaseChannel: NewBaseChannel("discord", messageBus, cfg.AllowFrom),
		session:     session,
		config:      cfg,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		typing:      make(map[string]*typingSession),
	}, nil
}

func (c *DiscordChannel) Start(ctx context.Context) error {
	logger.InfoC("discord", "Starting Discord bot")

	c.session.AddHandler(c.handleMessage)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	c.setRunning(true)

	botUser, err := c.session.User("@me")
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}
	logger.InfoCF("discord", "Discord bot connected", map[string]interface{}{
		"username": botUser.Username,
		"user_id":  botUser.ID,
	})

	return nil
}

func (c *DiscordChannel) Stop(ctx context.Context) error {
	logger.InfoC("discord", "Stopping Discord bot")
	c.setRunning(false)
	c.stopAllTyping()

	if err := c.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}

	return nil
}

// Send delivers one reply, chunked to the platform's message-length limit.
// A short delay between chunks keeps us under Discord's rate limits.
func (c *DiscordChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("discord bot not running")
	}

	channelID := msg.ChatID
	if channelID == "" {
		return fmt.Errorf("channel ID is empty")
	}
	defer c.endTyping(channelID)

	if strings.TrimSpace(msg.Content) == "" {
		return nil
	}

	chunks := SplitMessage(msg.Content, c.maxMessageLength())
	for i, chunk := range chunks {
		if i > 0 {
			select {
			case <-time.After(c.sendDelay()):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := c.sendChunk(ctx, channelID, chunk); err != nil {
			return err
		}
	}

	return nil
}

func (c *DiscordChannel) maxMessageLength() int {
	if c.config.MaxMessageLength > 0 {
		return c.config.MaxMessageLength
	}
	return 2000
}

func (c *DiscordChannel) sendDelay() time.Duration {
	if c.config.SendDelayMS > 0 {
		return time.Duration(c.config.SendDelayMS) * time.Millisecond
	}
	return 500 * time.Millisecond
}

func (c *DiscordChannel) sendChunk(ctx context.Context, channelID, content string) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := c.session.ChannelMessageSend(channelID, content)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send discord message: %w", err)
		}
		return nil
	case <-sendCtx.Done():
		return fmt.Errorf("send message timeout: %w", sendCtx.Err())
	}
}

func (c *DiscordChannel) sendTyping(channelID string) {
	if channelID == "" || c.session == nil {
		return
	}
	if err := c.session.ChannelTyping(channelID); err != nil {
		logger.ErrorCF("discord", "Failed to send typing indicator", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *DiscordChannel) beginTyping(channelID string) {
	if channelID == "" {
		return
	}

	c.typingMu.Lock()
	if sess, ok := c.typing[channelID]; ok {
		sess.pending++
		c.typingMu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.typing[channelID] = &typingSession{
		pending: 1,
		cancel:  cancel,
	}
	c.typingMu.Unlock()

	c.sendTyping(channelID)

	go func() {
		ticker := time.NewTicker(typingRefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !c.IsRunning() {
					return
				}
				c.sendTyping(channelID)
			}
		}
	}()
}

func (c *DiscordChannel) endTyping(channelID string) {
	if channelID == "" {
		return
	}

	c.typingMu.Lock()
	defer c.typingMu.Unlock()

	sess, ok := c.typing[channelID]
	if !ok {
		return
	}
	sess.pending--
	if sess.pending > 0 {
		return
	}
	delete(c.typing, channelID)
	sess.cancel()
}

func (c *DiscordChannel) stopAllTyping() {
	c.typingMu.Lock()
	defer c.typingMu.Unlock()

	for channelID, sess := range c.typing {
		sess.cancel()
		delete(c.typing, channelID)
	}
}

// isBotMentioned reports whether the bot user appears in the message's
// mention list. Replies are mention-gated; everything else is ignored.
func isBotMentioned(m *discordgo.MessageCreate, botID string) bool {
	for _, mention := range m.Mentions {
		if mention.ID == botID {
			return true
		}
	}
	return false
}

// stripMention removes the bot's mention tokens from the message text.
func stripMention(content, botID string) string {
	content = strings.ReplaceAll(content, fmt.Sprintf("<@%s>", botID), "")
	content = strings.ReplaceAll(content, fmt.Sprintf("<@!%s>", botID), "")
	return strings.TrimSpace(content)
}

func (c *DiscordChannel) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Author == nil {
		return
	}

	// Ignore our own messages to avoid feedback loops.
	if m.Author.ID == s.State.User.ID {
		return
	}

	if !isBotMentioned(m, s.State.User.ID) {
		return
	}

	if !c.IsAllowed(m.Author.ID) {
		logger.DebugCF("discord", "Message rejected by allowlist", map[string]interface{}{
			"user_id": m.Author.ID,
		})
		return
	}

	content := stripMention(m.Content, s.State.User.ID)
	images := c.collectImages(m)

	// Nothing usable left after stripping the mention and filtering
	// attachments: drop before it reaches the model.
	if content == "" && len(images) == 0 {
		logger.DebugCF("discord", "Ignoring empty mention", map[string]interface{}{
			"sender":  m.Author.Username,
			"chat_id": m.ChannelID,
		})
		return
	}

	c.beginTyping(m.ChannelID)

	logger.DebugCF("discord", "Received message", map[string]interface{}{
		"sender":  m.Author.Username,
		"chat_id": m.ChannelID,
		"images":  len(images),
		"preview": utils.Truncate(content, 50),
	})

	metadata := map[string]string{
		"message_id": m.ID,
		"guild_id":   m.GuildID,
		"is_dm":      fmt.Sprintf("%t", m.GuildID == ""),
	}

	c.HandleMessage(m.Author.ID, displayName(m), m.ChannelID, content, images, metadata)
}

// collectImages downloads supported image attachments as base64 parts.
// Unsupported types and failed downloads are skipped, not fatal.
func (c *DiscordChannel) collectImages(m *discordgo.MessageCreate) []providers.ImagePart {
	var images []providers.ImagePart
	for _, attachment := range m.Attachments {
		if !utils.IsSupportedImageType(attachment.ContentType) {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		part, err := utils.FetchImageAsBase64(ctx, c.httpClient, attachment.URL)
		cancel()
		if err != nil {
			logger.WarnCF("discord", "Skipping attachment", map[string]interface{}{
				"filename": attachment.Filename,
				"error":    err.Error(),
			})
			continue
		}
		images = append(images, part)
	}
	return images
}

func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
