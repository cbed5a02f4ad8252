package agent

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dotsetgreg/gembot/pkg/bus"
	"github.com/dotsetgreg/gembot/pkg/logger"
	"github.com/dotsetgreg/gembot/pkg/utils"
	"github.com/google/uuid"
)

// apologyMessage is the single user-visible failure string. Specific errors
// go to the log, never to the channel.
const apologyMessage = "Sorry! Something went wrong while processing your request. Please try again later."

const sessionQueueSize = 16

// Loop consumes inbound messages from the bus and routes each to its
// session's agent. Every session gets its own worker goroutine, so messages
// within one channel are processed in FIFO order while different channels
// proceed concurrently. One failed turn never takes down the loop or other
// sessions' agents.
type Loop struct {
	bus      *bus.MessageBus
	registry *Registry
	queues   map[string]chan bus.InboundMessage
	queueMu  sync.Mutex
	wg       sync.WaitGroup
	running  atomic.Bool
}

func NewLoop(msgBus *bus.MessageBus, registry *Registry) *Loop {
	return &Loop{
		bus:      msgBus,
		registry: registry,
		queues:   make(map[string]chan bus.InboundMessage),
	}
}

func (l *Loop) Run(ctx context.Context) error {
	l.running.Store(true)
	logger.InfoC("agent", "Agent loop started")

	for l.running.Load() {
		select {
		case <-ctx.Done():
			// Workers exit via ctx cancellation; wait so in-flight turns
			// finish logging before Run returns.
			l.wg.Wait()
			return nil
		default:
			msg, ok := l.bus.ConsumeInbound(ctx)
			if !ok {
				continue
			}
			l.dispatch(ctx, msg)
		}
	}

	return nil
}

func (l *Loop) Stop() {
	l.running.Store(false)
}

// ProcessDirect runs one turn synchronously, bypassing the bus. Used by the
// local REPL and the heartbeat.
func (l *Loop) ProcessDirect(ctx context.Context, sessionKey, author, content string) (string, error) {
	agent := l.registry.GetOrCreate(sessionKey)
	return agent.GetResponse(ctx, author, content, nil)
}

// dispatch hands the message to the session's worker, starting one on first
// contact. If a session's queue is full the message is dropped rather than
// stalling every other session.
func (l *Loop) dispatch(ctx context.Context, msg bus.InboundMessage) {
	l.queueMu.Lock()
	queue, ok := l.queues[msg.SessionKey]
	if !ok {
		queue = make(chan bus.InboundMessage, sessionQueueSize)
		l.queues[msg.SessionKey] = queue
		l.wg.Add(1)
		go l.sessionWorker(ctx, queue)
	}
	l.queueMu.Unlock()

	select {
	case queue <- msg:
	default:
		logger.WarnCF("agent", "Session queue full, dropping message", map[string]interface{}{
			"session_key": msg.SessionKey,
		})
	}
}

func (l *Loop) sessionWorker(ctx context.Context, queue chan bus.InboundMessage) {
	defer l.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-queue:
			l.handleMessage(ctx, msg)
		}
	}
}

func (l *Loop) handleMessage(ctx context.Context, msg bus.InboundMessage) {
	turnID := uuid.NewString()
	logger.InfoCF("agent", "Processing message", map[string]interface{}{
		"turn_id":     turnID,
		"channel":     msg.Channel,
		"sender":      msg.SenderName,
		"session_key": msg.SessionKey,
		"preview":     utils.Truncate(msg.Content, 80),
	})

	agent := l.registry.GetOrCreate(msg.SessionKey)

	response, err := agent.GetResponse(ctx, msg.SenderName, msg.Content, msg.Images)
	if err != nil {
		logger.ErrorCF("agent", "Turn failed", map[string]interface{}{
			"turn_id":     turnID,
			"session_key": msg.SessionKey,
			"error":       err.Error(),
		})
		response = apologyMessage
	}

	if response == "" {
		return
	}

	l.bus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: response,
	})

	logger.InfoCF("agent", "Turn completed", map[string]interface{}{
		"turn_id":         turnID,
		"session_key":     msg.SessionKey,
		"response_length": len(response),
	})
}
