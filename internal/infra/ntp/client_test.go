package ntp

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"wake_sync_bot/internal/domain/clock"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// fakeServer answers the n-th request with replies[n]; a nil reply means no answer.
type fakeServer struct {
	conn    *net.UDPConn
	replies [][]byte

	mu       sync.Mutex
	requests [][]byte
}

func startFakeServer(t *testing.T, replies ...[]byte) *fakeServer {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	s := &fakeServer{conn: conn, replies: replies}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 512)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			s.mu.Lock()
			idx := len(s.requests)
			s.requests = append(s.requests, append([]byte(nil), buf[:n]...))
			s.mu.Unlock()
			if idx < len(s.replies) && s.replies[idx] != nil {
				_, _ = conn.WriteToUDP(s.replies[idx], from)
			}
		}
	}()
	return s
}

func (s *fakeServer) addr() string {
	return s.conn.LocalAddr().String()
}

func (s *fakeServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func reply(unix uint32) []byte {
	pkt := make([]byte, packetSize)
	pkt[0] = 0x24
	binary.BigEndian.PutUint32(pkt[40:44], unix+seventyYears)
	return pkt
}

func TestFetchParsesFirstReply(t *testing.T) {
	srv := startFakeServer(t, reply(1700000000))
	c := NewClient(srv.addr(), time.Second, 3, 0, discardLogger())

	got, err := c.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, clock.Reading(1700000000), got)

	// No further requests once a reply was parsed
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, srv.requestCount())
}

func TestFetchRequestPacket(t *testing.T) {
	srv := startFakeServer(t, reply(1700000000))
	c := NewClient(srv.addr(), time.Second, 0, 0, discardLogger())

	_, err := c.Fetch(context.Background())
	require.NoError(t, err)

	srv.mu.Lock()
	req := srv.requests[0]
	srv.mu.Unlock()

	require.Len(t, req, packetSize)
	assert.Equal(t, []byte{0xE3, 0x00, 0x06, 0xEC}, req[0:4])
	assert.Equal(t, make([]byte, 8), req[4:12])
	assert.Equal(t, "1N14", string(req[12:16]))
	assert.Equal(t, make([]byte, packetSize-16), req[16:])
}

func TestFetchAppliesTimezone(t *testing.T) {
	srv := startFakeServer(t, reply(1700000000))
	c := NewClient(srv.addr(), time.Second, 0, 3*time.Hour, discardLogger())

	got, err := c.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, clock.Reading(1700000000+3*3600), got)
}

func TestFetchShortReplyIsAFailedAttempt(t *testing.T) {
	srv := startFakeServer(t, make([]byte, 20), reply(1700000050))
	c := NewClient(srv.addr(), time.Second, 1, 0, discardLogger())

	got, err := c.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, clock.Reading(1700000050), got)
	assert.Equal(t, 2, srv.requestCount())
}

func TestFetchOversizedReplyIsAFailedAttempt(t *testing.T) {
	srv := startFakeServer(t, make([]byte, 68))
	c := NewClient(srv.addr(), time.Second, 0, 0, discardLogger())

	got, err := c.Fetch(context.Background())

	assert.ErrorIs(t, err, ErrNoReply)
	assert.ErrorIs(t, err, ErrShortReply)
	assert.Equal(t, clock.Reading(0), got)
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	srv := startFakeServer(t) // never answers
	c := NewClient(srv.addr(), 30*time.Millisecond, 2, 0, discardLogger())

	got, err := c.Fetch(context.Background())

	assert.ErrorIs(t, err, ErrNoReply)
	assert.Equal(t, clock.Reading(0), got)
	require.Eventually(t, func() bool { return srv.requestCount() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 3, srv.requestCount(), "at most retries+1 requests")
}

func TestFetchHonoursContext(t *testing.T) {
	srv := startFakeServer(t)
	c := NewClient(srv.addr(), time.Second, 5, 0, discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Fetch(ctx)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		server   string
		expected string
	}{
		{"pool.ntp.org", "pool.ntp.org:123"},
		{"time.cloudflare.com:123", "time.cloudflare.com:123"},
		{"127.0.0.1:10123", "127.0.0.1:10123"},
		{"::1", "[::1]:123"},
	}

	for _, tc := range tests {
		c := &Client{server: tc.server}
		assert.Equal(t, tc.expected, c.serverAddr(), "server %q", tc.server)
	}
}
