package ssdp

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rokuReply = "HTTP/1.1 200 OK\r\n" +
	"Cache-Control: max-age=3600\r\n" +
	"ST: roku:ecp\r\n" +
	"LOCATION: http://192.168.1.134:8060/\r\n" +
	"USN: uuid:roku:ecp:P0A070000007\r\n" +
	"\r\n"

func TestParseResponse(t *testing.T) {
	h, err := parseResponse([]byte(rokuReply))
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.134:8060/", h.Location)
	assert.Equal(t, "uuid:roku:ecp:P0A070000007", h.ID)
	assert.Equal(t, "ssdp", h.Origin)
}

func TestParseResponse_Invalid(t *testing.T) {
	for name, raw := range map[string]string{
		"Garbage":     "hello",
		"No Location": "HTTP/1.1 200 OK\r\nST: roku:ecp\r\n\r\n",
		"Not OK":      "HTTP/1.1 404 Not Found\r\nLOCATION: http://x/\r\n\r\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseResponse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestSearchRequest(t *testing.T) {
	req := string(searchRequest(SearchTarget, 3*time.Second))
	assert.True(t, strings.HasPrefix(req, "M-SEARCH * HTTP/1.1\r\n"))
	assert.Contains(t, req, "ST: roku:ecp\r\n")
	assert.Contains(t, req, "MX: 3\r\n")
	assert.True(t, strings.HasSuffix(req, "\r\n\r\n"))
}

// responder answers every search with replies.
func responder(t *testing.T, replies ...string) string {
	t.Helper()
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 2048)
		for {
			n, from, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			if !strings.Contains(string(buf[:n]), "ST: roku:ecp") {
				continue
			}
			for _, r := range replies {
				_, _ = conn.WriteTo([]byte(r), from)
			}
		}
	}()
	return conn.LocalAddr().String()
}

func TestDiscover_CollectsReplies(t *testing.T) {
	second := strings.Replace(rokuReply, "192.168.1.134", "192.168.1.135", 1)
	d := New(300*time.Millisecond, nil)
	d.Target = responder(t, rokuReply, "junk", rokuReply, second)

	handles, err := d.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, handles, 2)
	assert.Equal(t, "http://192.168.1.134:8060/", handles[0].Location)
	assert.Equal(t, "http://192.168.1.135:8060/", handles[1].Location)
}

func TestDiscover_NoReplies(t *testing.T) {
	d := New(100*time.Millisecond, nil)
	d.Target = responder(t)

	handles, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, handles)
}

func TestDiscover_Cancelled(t *testing.T) {
	d := New(5*time.Second, nil)
	d.Target = responder(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := d.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
