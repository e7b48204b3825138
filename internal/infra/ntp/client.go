// internal/infra/ntp/client.go
package ntp

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"wake_sync_bot/internal/domain/clock"

	"github.com/sirupsen/logrus"
)

const (
	packetSize   = 48
	defaultPort  = 123
	seventyYears = 2208988800 // Seconds between the NTP era (1900) and the Unix epoch
)

// ErrNoReply is returned when every attempt ended without a usable reply.
var ErrNoReply = errors.New("no valid NTP reply")

// ErrShortReply marks a datagram that was not exactly one NTP packet.
var ErrShortReply = errors.New("unexpected NTP reply size")

// Client asks an NTP server for the current time over a fresh UDP socket.
type Client struct {
	server    string // host or host:port
	timeout   time.Duration
	retries   int
	tzOffset  time.Duration
	localAddr string
	logger    *logrus.Entry
}

// NewClient builds a client that makes at most 1+retries attempts,
// each waiting up to timeout for a reply. tzOffset is added to the result.
func NewClient(server string, timeout time.Duration, retries int, tzOffset time.Duration, logger *logrus.Entry) *Client {
	return &Client{
		server:    server,
		timeout:   timeout,
		retries:   retries,
		tzOffset:  tzOffset,
		localAddr: ":0",
		logger:    logger,
	}
}

// Fetch returns the server time as a local wall-clock reading.
// On failure it returns 0, which is never a valid result.
func (c *Client) Fetch(ctx context.Context) (clock.Reading, error) {
	laddr, err := net.ResolveUDPAddr("udp", c.localAddr)
	if err != nil {
		return 0, fmt.Errorf("invalid local address %q: %w", c.localAddr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return 0, fmt.Errorf("failed to open UDP socket: %w", err)
	}
	defer conn.Close()

	logCtx := c.logger.WithField("server", c.server)
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		r, err := c.attempt(ctx, conn)
		if err == nil {
			return r, nil
		}
		lastErr = err
		logCtx.WithError(err).WithField("attempt", attempt+1).Debug("NTP attempt failed")
	}
	return 0, fmt.Errorf("%w from %s after %d attempts: %w", ErrNoReply, c.server, c.retries+1, lastErr)
}

func (c *Client) attempt(ctx context.Context, conn *net.UDPConn) (clock.Reading, error) {
	raddr, err := net.ResolveUDPAddr("udp", c.serverAddr())
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %s: %w", c.server, err)
	}

	req := newRequest()
	if _, err := conn.WriteToUDP(req[:], raddr); err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}

	// One byte more than a packet so oversized replies are detected instead of truncated
	var buf [packetSize + 1]byte
	n, _, err := conn.ReadFromUDP(buf[:])
	if err != nil {
		return 0, fmt.Errorf("failed to read reply: %w", err)
	}
	if n != packetSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrShortReply, n)
	}
	return c.parse(buf[:packetSize]), nil
}

func (c *Client) serverAddr() string {
	if _, _, err := net.SplitHostPort(c.server); err == nil {
		return c.server
	}
	return net.JoinHostPort(c.server, strconv.Itoa(defaultPort))
}

// parse reads the transmit timestamp seconds at offset 40.
func (c *Client) parse(r []byte) clock.Reading {
	secs := binary.BigEndian.Uint32(r[40:44]) - seventyYears
	return clock.Reading(int64(secs) + int64(c.tzOffset/time.Second))
}

func newRequest() [packetSize]byte {
	var req [packetSize]byte
	req[0] = 0xE3 // LI unsynchronised, version 4, client mode
	req[1] = 0    // Stratum
	req[2] = 6    // Poll interval
	req[3] = 0xEC // Precision
	// Root delay and dispersion stay zero
	copy(req[12:16], "1N14") // Reference identifier
	return req
}
