// Package gamelink 通过本地套接字与游戏内的同步模组通信。
// 每次调用都建立新连接，发送一行指令并读取一行响应。
package gamelink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/apperr"
	"go.uber.org/zap"
)

// 同步模组识别的指令
const (
	CmdPing           = "PING"
	CmdGameInfo       = "GET_GAME_INFO"
	CmdActiveMods     = "GET_ACTIVE_MODS"
	CmdAllSpells      = "GET_ALL_SPELLS"
	CmdAllWands       = "GET_ALL_WANDS"
	CmdWandEditorData = "GET_WAND_EDITOR_DATA"
	CmdSpellLabData   = "GET_SPELL_LAB_DATA"
)

const readChunk = 64 * 1024

// ErrNoResponse 表示游戏不可达：连接被拒绝、超时或被重置。调用方应回退到离线数据。
var ErrNoResponse = fmt.Errorf("%w: 游戏无响应", apperr.Unreachable)

// Options 配置客户端的地址和两类超时
type Options struct {
	Address      string
	ProbeTimeout time.Duration
	DataTimeout  time.Duration
}

// Client 是无状态的，可以被多个请求并发使用
type Client struct {
	log  *zap.Logger
	opts Options
}

func NewClient(log *zap.Logger, opts Options) *Client {
	return &Client{log: log, opts: opts}
}

// Address 返回游戏监听地址
func (c *Client) Address() string {
	return c.opts.Address
}

// Send 发送一条指令并使用数据超时读取响应
func (c *Client) Send(ctx context.Context, cmd string) (string, error) {
	return c.exchange(ctx, []byte(cmd+"\n"), c.opts.DataTimeout)
}

// Probe 与 Send 相同，但使用短超时，用于探测性的查询
func (c *Client) Probe(ctx context.Context, cmd string) (string, error) {
	return c.exchange(ctx, []byte(cmd+"\n"), c.opts.ProbeTimeout)
}

func (c *Client) exchange(ctx context.Context, payload []byte, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.opts.Address)
	if err != nil {
		c.log.Debug("无法连接到游戏", zap.String("address", c.opts.Address), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(payload); err != nil {
		c.log.Debug("发送指令失败", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrNoResponse, err)
	}

	var buf bytes.Buffer
	chunk := make([]byte, readChunk)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if bytes.IndexByte(chunk[:n], '\n') >= 0 {
				break
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.log.Debug("读取游戏响应失败", zap.Int("received", buf.Len()), zap.Error(err))
			return "", fmt.Errorf("%w: %v", ErrNoResponse, err)
		}
	}

	// 非法的UTF-8字节直接丢弃
	return strings.TrimSpace(strings.ToValidUTF8(buf.String(), "")), nil
}

// Ping 检查游戏是否在线
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Send(ctx, CmdPing)
	return err
}

// GameRoot 通过握手查询游戏安装目录
func (c *Client) GameRoot(ctx context.Context) (string, error) {
	resp, err := c.Probe(ctx, CmdGameInfo)
	if err != nil {
		return "", err
	}
	var info struct {
		Root string `json:"root"`
	}
	if err := json.Unmarshal([]byte(resp), &info); err != nil {
		return "", fmt.Errorf("无法解析游戏信息: %w", err)
	}
	return info.Root, nil
}

// ActiveMods 查询当前启用的模组ID列表
func (c *Client) ActiveMods(ctx context.Context) ([]string, error) {
	resp, err := c.Send(ctx, CmdActiveMods)
	if err != nil {
		return nil, err
	}
	var mods []string
	if err := json.Unmarshal([]byte(resp), &mods); err != nil {
		return nil, fmt.Errorf("无法解析模组列表: %w", err)
	}
	return mods, nil
}

// Fetch 发送数据类指令，要求响应非空并返回原始JSON
func (c *Client) Fetch(ctx context.Context, cmd string) (json.RawMessage, error) {
	resp, err := c.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if resp == "" {
		return nil, fmt.Errorf("%w: %s 返回空响应", ErrNoResponse, cmd)
	}
	if !json.Valid([]byte(resp)) {
		return nil, fmt.Errorf("游戏返回了无效的JSON (%s)", cmd)
	}
	return json.RawMessage(resp), nil
}

// Push 将一个JSON负载发送给游戏，例如更新某根法杖。不会重试。
func (c *Client) Push(ctx context.Context, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("无法序列化推送数据: %w", err)
	}
	return c.exchange(ctx, append(data, '\n'), c.opts.DataTimeout)
}
