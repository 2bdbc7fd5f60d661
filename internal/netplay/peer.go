package netplay

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 15 * time.Second
	pingPeriod     = pongWait / 3
	maxMessageSize = 1 << 20
	outboxSize     = 32
)

// Peer is an established connection to the other player. Reads and writes
// run on their own goroutines; Post never blocks.
type Peer struct {
	conn   *websocket.Conn
	logger *log.Logger

	inbox  chan Message
	outbox chan Message

	closing     chan struct{}
	closingOnce sync.Once
	done        chan struct{}
	closeOnce   sync.Once

	mu  sync.Mutex
	err error
}

func newPeer(conn *websocket.Conn, logger *log.Logger) *Peer {
	return &Peer{
		conn:    conn,
		logger:  logger,
		inbox:   make(chan Message, outboxSize),
		outbox:  make(chan Message, outboxSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start launches the read and write pumps once the handshake is over.
func (p *Peer) start() {
	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go p.readPump()
	go p.writePump()
}

func (p *Peer) readPump() {
	defer close(p.inbox)
	defer p.shutdown()

	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			select {
			case <-p.done:
				// Closed locally.
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					p.fail(err)
				}
			}
			return
		}
		p.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck

		select {
		case p.inbox <- msg:
		case <-p.done:
			return
		}
	}
}

func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-p.outbox:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := p.conn.WriteJSON(msg); err != nil {
				p.fail(err)
				p.shutdown()
				return
			}
		case <-p.closing:
			p.flush()
			return
		case <-ticker.C:
			if err := p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				p.fail(err)
				p.shutdown()
				return
			}
		case <-p.done:
			return
		}
	}
}

// Post queues a message for sending. When the queue is full the oldest
// queued message is dropped. Returns false once the peer is closed.
func (p *Peer) Post(msg Message) bool {
	select {
	case <-p.done:
		return false
	default:
	}

	msg.Ver = ProtocolVersion
	select {
	case p.outbox <- msg:
		return true
	default:
	}
	select {
	case <-p.outbox:
	default:
	}
	select {
	case p.outbox <- msg:
	default:
	}
	return true
}

// Messages returns received messages. Closed when the connection ends.
func (p *Peer) Messages() <-chan Message {
	return p.inbox
}

// Done closes when the connection ends for any reason.
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// Err returns the error that ended the connection, nil for a clean close.
func (p *Peer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close flushes queued messages, sends a close frame and waits briefly
// for the other side to acknowledge it.
func (p *Peer) Close() error {
	p.closingOnce.Do(func() { close(p.closing) })
	select {
	case <-p.done:
	case <-time.After(2 * writeWait):
		p.shutdown()
	}
	return nil
}

// flush writes whatever is still queued, then starts the close handshake.
// The read pump finishes the shutdown when the close reply arrives.
func (p *Peer) flush() {
	deadline := time.Now().Add(writeWait)
	p.conn.SetWriteDeadline(deadline) //nolint:errcheck
drain:
	for {
		select {
		case msg := <-p.outbox:
			if err := p.conn.WriteJSON(msg); err != nil {
				p.shutdown()
				return
			}
		default:
			break drain
		}
	}

	data := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	if err := p.conn.WriteControl(websocket.CloseMessage, data, deadline); err != nil {
		p.shutdown()
	}
}

func (p *Peer) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
		p.logger.Debug("peer connection failed", "error", err)
	}
}

func (p *Peer) shutdown() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}
