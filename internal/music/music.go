// Package music wraps the mpd client behind the Player interface: a
// best-effort poll of the server's transport state.
package music

import (
	"github.com/fhs/gompd/v2/mpd"

	"github.com/dwynings/tid"
)

// Client polls an mpd server for its transport state. A broken connection
// is redialed on the next poll rather than surfaced to the caller, so the
// status element simply freezes while the server is away.
type Client struct {
	addr string
	conn *mpd.Client
}

// Dial connects to the mpd server at addr (host:port).
func Dial(addr string) (*Client, error) {
	conn, err := mpd.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{addr: addr, conn: conn}, nil
}

// Status reports the current transport state. ok is false while the
// server is unreachable or reports an unknown state.
func (c *Client) Status() (tid.PlaybackState, bool) {
	if c.conn == nil {
		conn, err := mpd.Dial("tcp", c.addr)
		if err != nil {
			return tid.Stop, false
		}
		c.conn = conn
	}

	attrs, err := c.conn.Status()
	if err != nil {
		c.conn.Close()
		c.conn = nil
		return tid.Stop, false
	}

	switch attrs["state"] {
	case "play":
		return tid.Play, true
	case "pause":
		return tid.Pause, true
	case "stop":
		return tid.Stop, true
	}
	return tid.Stop, false
}

// Close tears down the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
