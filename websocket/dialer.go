package websocket

import (
	"context"
	"fmt"

	"golang.org/x/net/websocket"
)

// NetDialer dials with golang.org/x/net/websocket.
type NetDialer struct{}

func (NetDialer) Dial(ctx context.Context, wsURL string, origin string) (Conn, error) {
	wsConfig, err := websocket.NewConfig(wsURL, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebSocket config: %w", err)
	}

	conn, err := wsConfig.DialContext(ctx)
	if err != nil {
		return nil, err
	}
	return &netConn{conn: conn}, nil
}

type netConn struct {
	conn *websocket.Conn
}

func (c *netConn) Receive() (string, error) {
	var frame string
	if err := websocket.Message.Receive(c.conn, &frame); err != nil {
		return "", err
	}
	return frame, nil
}

func (c *netConn) Send(frame string) error {
	return websocket.Message.Send(c.conn, frame)
}

func (c *netConn) Close() error {
	return c.conn.Close()
}
