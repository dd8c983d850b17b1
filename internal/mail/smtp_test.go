package mail

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_Multipart(t *testing.T) {
	msg := Message{
		From:    "album@example.com",
		To:      "album@example.com",
		Subject: "Àlbum - Nova imatge publicada",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	}

	raw, err := buildMessage(msg, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, "From: album@example.com\r\n")
	assert.Contains(t, out, "To: album@example.com\r\n")
	assert.Contains(t, out, "Subject: =?utf-8?q?")
	assert.Contains(t, out, "MIME-Version: 1.0\r\n")
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, out, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, out, "plain body")
	assert.Contains(t, out, "<p>html body</p>")
}

func TestBuildMessage_TextOnly(t *testing.T) {
	raw, err := buildMessage(Message{From: "a@b.c", To: "a@b.c", Subject: "s", Text: "only text"}, time.Now())
	require.NoError(t, err)

	out := string(raw)
	assert.NotContains(t, out, "multipart")
	assert.Contains(t, out, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, out, "only text")
}

func TestNewSMTPSender_RequiresHost(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{})
	assert.Error(t, err)
}

// fakeSMTP accepts one session and records the DATA payload.
func fakeSMTP(t *testing.T) (string, int, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	data := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		r := bufio.NewReader(conn)
		write := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }
		write("220 localhost ESMTP")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				write("250 localhost")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				write("250 OK")
			case cmd == "DATA":
				write("354 go ahead")
				var body strings.Builder
				for {
					l, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if l == ".\r\n" {
						break
					}
					body.WriteString(l)
				}
				data <- body.String()
				write("250 queued")
			case cmd == "QUIT":
				write("221 bye")
				return
			default:
				write("502 unsupported")
			}
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port, data
}

func TestSMTPSender_Send(t *testing.T) {
	host, port, data := fakeSMTP(t)

	sender, err := NewSMTPSender(SMTPConfig{Host: host, Port: port, Timeout: 5 * time.Second})
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{
		From:    "album@example.com",
		To:      "album@example.com",
		Subject: "Album - New image published",
		Text:    "hello",
	})
	require.NoError(t, err)

	select {
	case body := <-data:
		assert.Contains(t, body, "Subject: Album - New image published")
		assert.Contains(t, body, "hello")
	case <-time.After(5 * time.Second):
		t.Fatal("smtp server never received DATA")
	}
}

func TestSMTPSender_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	sender, err := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: addr.Port, Timeout: time.Second})
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{From: "a@b.c", To: "a@b.c", Text: "x"})
	assert.ErrorContains(t, err, "failed to connect")
}
