// Package packet carries custom byte payloads between scripts and
// connected players. Payload contents are opaque here; mods define
// their own framing per packet type.
package packet

import (
	"sync"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/modules/metrics"
)

// Envelope is one packet crossing the channel. For outbound packets
// the id is the target player; for inbound it is the sender.
type Envelope struct {
	PlayerID int32
	Type     int32
	Payload  []byte
}

// Handler consumes an inbound packet.
type Handler func(senderID, packetType int32, payload []byte)

// Channel is the two-way packet queue. Send may be called from any
// goroutine; the host flushes outbound packets on its network thread
// and delivers inbound ones through the dispatch engine, so handlers
// run under the same serialization as every other event handler.
type Channel struct {
	log *zap.Logger

	mu       sync.Mutex
	outbound []Envelope

	hmu      sync.RWMutex
	handlers map[int32]Handler
	catchAll Handler
}

// NewChannel returns an empty channel.
func NewChannel(log *zap.Logger) *Channel {
	return &Channel{log: log, handlers: make(map[int32]Handler)}
}

// Send queues a packet for a player. The payload is cloned so the
// caller may reuse its buffer.
func (c *Channel) Send(targetID, packetType int32, payload []byte) {
	cp := make([]byte, len(payload))
	copy(cp, payload)

	c.mu.Lock()
	c.outbound = append(c.outbound, Envelope{PlayerID: targetID, Type: packetType, Payload: cp})
	c.mu.Unlock()
	metrics.ObservePacket("out")
}

// FlushOutbound hands every queued outbound packet to send, in order.
func (c *Channel) FlushOutbound(send func(Envelope)) {
	c.mu.Lock()
	batch := c.outbound
	c.outbound = nil
	c.mu.Unlock()

	for _, env := range batch {
		send(env)
	}
}

// OutboundLen reports queued outbound packets.
func (c *Channel) OutboundLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outbound)
}

// OnType installs the handler for one packet type. Last writer wins.
func (c *Channel) OnType(packetType int32, h Handler) {
	c.hmu.Lock()
	c.handlers[packetType] = h
	c.hmu.Unlock()
}

// OnAny installs the catch-all for types with no dedicated handler.
func (c *Channel) OnAny(h Handler) {
	c.hmu.Lock()
	c.catchAll = h
	c.hmu.Unlock()
}

// Deliver routes an inbound packet to its handler. A type nobody
// handles is logged and dropped. The payload is cloned before the
// handler sees it; the host may reuse its buffer immediately.
func (c *Channel) Deliver(senderID, packetType int32, payload []byte) {
	c.hmu.RLock()
	h, ok := c.handlers[packetType]
	if !ok {
		h = c.catchAll
	}
	c.hmu.RUnlock()

	if h == nil {
		c.log.Warn("dropping packet with no handler",
			zap.Int32("type", packetType),
			zap.Int32("sender", senderID),
			zap.Int("bytes", len(payload)))
		return
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)
	metrics.ObservePacket("in")
	h(senderID, packetType, cp)
}
