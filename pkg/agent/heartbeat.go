package agent

import (
	"context"
	"time"

	"github.com/adhocore/gronx"
	"github.com/dotsetgreg/gembot/pkg/bus"
	"github.com/dotsetgreg/gembot/pkg/config"
	"github.com/dotsetgreg/gembot/pkg/logger"
)

// Heartbeat periodically runs a configured self-prompt through the agent and
// delivers the answer to a fixed channel/chat. Each beat uses its own
// session so heartbeats don't pollute user conversation history.
type Heartbeat struct {
	cfg  config.HeartbeatConfig
	loop *Loop
	bus  *bus.MessageBus
	cron *gronx.Gronx
}

func NewHeartbeat(cfg config.HeartbeatConfig, loop *Loop, msgBus *bus.MessageBus) *Heartbeat {
	return &Heartbeat{
		cfg:  cfg,
		loop: loop,
		bus:  msgBus,
		cron: gronx.New(),
	}
}

// Run checks the cron schedule once a minute and fires when due. Blocks
// until ctx is cancelled.
func (h *Heartbeat) Run(ctx context.Context) {
	if !h.cfg.Enabled {
		return
	}
	if !h.cron.IsValid(h.cfg.Schedule) {
		logger.ErrorCF("heartbeat", "Invalid schedule, heartbeat disabled", map[string]interface{}{
			"schedule": h.cfg.Schedule,
		})
		return
	}

	logger.InfoCF("heartbeat", "Heartbeat started", map[string]interface{}{
		"schedule": h.cfg.Schedule,
	})

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due, err := h.cron.IsDue(h.cfg.Schedule, now)
			if err != nil || !due {
				continue
			}
			h.beat(ctx)
		}
	}
}

func (h *Heartbeat) beat(ctx context.Context) {
	response, err := h.loop.ProcessDirect(ctx, "heartbeat", "system", h.cfg.Prompt)
	if err != nil {
		logger.ErrorCF("heartbeat", "Heartbeat turn failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if response == "" || h.cfg.ChatID == "" {
		return
	}

	h.bus.PublishOutbound(bus.OutboundMessage{
		Channel: h.cfg.Channel,
		ChatID:  h.cfg.ChatID,
		Content: response,
	})
}
