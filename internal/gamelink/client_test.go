package gamelink

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeGame 启动一个只处理一次连接的本地监听器
func fakeGame(t *testing.T, handle func(cmd string, conn net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				line, err := bufio.NewReader(conn).ReadString('\n')
				if err != nil {
					return
				}
				handle(line[:len(line)-1], conn)
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func newTestClient(t *testing.T, addr string) *Client {
	return NewClient(zaptest.NewLogger(t), Options{
		Address:      addr,
		ProbeTimeout: 200 * time.Millisecond,
		DataTimeout:  300 * time.Millisecond,
	})
}

func TestSendReadsUntilNewline(t *testing.T) {
	addr := fakeGame(t, func(cmd string, conn net.Conn) {
		if cmd == CmdPing {
			conn.Write([]byte("PONG\n"))
			// 连接保持打开，客户端应在换行处停止读取
			time.Sleep(time.Second)
		}
	})

	start := time.Now()
	resp, err := newTestClient(t, addr).Send(context.Background(), CmdPing)
	require.NoError(t, err)
	assert.Equal(t, "PONG", resp)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestSendReadsUntilClose(t *testing.T) {
	addr := fakeGame(t, func(cmd string, conn net.Conn) {
		conn.Write([]byte(`{"a":`))
		conn.Write([]byte(`1}`))
	})

	resp, err := newTestClient(t, addr).Send(context.Background(), CmdAllWands)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, resp)
}

func TestSendDropsInvalidBytes(t *testing.T) {
	addr := fakeGame(t, func(cmd string, conn net.Conn) {
		conn.Write([]byte("ok\xff\xfe!\n"))
	})

	resp, err := newTestClient(t, addr).Send(context.Background(), CmdPing)
	require.NoError(t, err)
	assert.Equal(t, "ok!", resp)
}

func TestSendTimeoutIsNoResponse(t *testing.T) {
	addr := fakeGame(t, func(cmd string, conn net.Conn) {
		time.Sleep(time.Second)
	})

	_, err := newTestClient(t, addr).Send(context.Background(), CmdAllSpells)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoResponse))
	assert.True(t, errors.Is(err, apperr.Unreachable))
}

func TestSendRefusedIsNoResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = newTestClient(t, addr).Send(context.Background(), CmdPing)
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestGameRootAndActiveMods(t *testing.T) {
	addr := fakeGame(t, func(cmd string, conn net.Conn) {
		switch cmd {
		case CmdGameInfo:
			conn.Write([]byte(`{"root":"C:/Games/Noita"}` + "\n"))
		case CmdActiveMods:
			conn.Write([]byte(`["wand_sync","grahamsperks"]` + "\n"))
		}
	})
	c := newTestClient(t, addr)

	root, err := c.GameRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "C:/Games/Noita", root)

	mods, err := c.ActiveMods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wand_sync", "grahamsperks"}, mods)
}

func TestFetchRejectsEmptyAndInvalid(t *testing.T) {
	addr := fakeGame(t, func(cmd string, conn net.Conn) {
		switch cmd {
		case CmdAllWands:
			conn.Write([]byte("\n"))
		case CmdAllSpells:
			conn.Write([]byte("not json\n"))
		}
	})
	c := newTestClient(t, addr)

	_, err := c.Fetch(context.Background(), CmdAllWands)
	assert.ErrorIs(t, err, ErrNoResponse)

	_, err = c.Fetch(context.Background(), CmdAllSpells)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoResponse))
}

func TestPushSendsJSONLine(t *testing.T) {
	got := make(chan string, 1)
	addr := fakeGame(t, func(cmd string, conn net.Conn) {
		got <- cmd
		conn.Write([]byte("OK\n"))
	})

	ack, err := newTestClient(t, addr).Push(context.Background(), map[string]any{"slot": 1})
	require.NoError(t, err)
	assert.Equal(t, "OK", ack)
	assert.Equal(t, `{"slot":1}`, <-got)
}
