package browserrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
)

const defaultClientTimeout = 90 * time.Second

var ErrWorkerUnreachable = errors.New("browser worker unreachable")

// CommandError is a well-formed error reply from the worker.
type CommandError struct {
	Command Command
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("browser worker error on %s: %s", e.Command, e.Message)
}

var _ output.BrowserWorkerPort = (*Client)(nil)

type Client struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer
}

func NewClient(addr string, timeout time.Duration) *Client {
	if addr == "" {
		addr = DefaultAddr
	}
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{addr: addr, timeout: timeout}
}

// Call performs one exchange on a fresh connection and decodes the success
// result into out (which may be nil).
func (c *Client) Call(ctx context.Context, cmd Command, params any, out any) error {
	req := Request{Command: cmd}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode params: %w", err)
		}
		req.Params = raw
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWorkerUnreachable, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkerUnreachable, err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		if isDisconnect(err) {
			return fmt.Errorf("%w: %v", ErrWorkerUnreachable, err)
		}
		return fmt.Errorf("decode browser worker response: %w", err)
	}

	if resp.Status != StatusSuccess {
		msg := resp.Message
		if msg == "" {
			msg = "unknown error"
		}
		return &CommandError{Command: cmd, Message: msg}
	}

	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", cmd, err)
	}
	return nil
}

func isDisconnect(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

func (c *Client) callString(ctx context.Context, cmd Command, params any) (string, error) {
	var out string
	if err := c.Call(ctx, cmd, params, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) OpenURL(ctx context.Context, url string) (string, error) {
	return c.callString(ctx, CmdOpenURL, OpenURLParams{URL: url})
}

func (c *Client) ListInteractiveElements(ctx context.Context) ([]entity.InteractiveElement, error) {
	var items []entity.InteractiveElement
	if err := c.Call(ctx, CmdListInteractiveElements, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ClickElement(ctx context.Context, selector string) (string, error) {
	return c.callString(ctx, CmdClickElement, SelectorParams{Selector: selector})
}

func (c *Client) TypeText(ctx context.Context, selector, text string) (string, error) {
	return c.callString(ctx, CmdTypeText, TypeTextParams{Selector: selector, Text: text})
}

func (c *Client) ReadPageContent(ctx context.Context) (string, error) {
	return c.callString(ctx, CmdReadPageContent, nil)
}

func (c *Client) TakeScreenshot(ctx context.Context) ([]byte, error) {
	var shot ScreenshotResult
	if err := c.Call(ctx, CmdTakeScreenshot, nil, &shot); err != nil {
		return nil, err
	}
	return shot.Data, nil
}

func (c *Client) CloseBrowser(ctx context.Context) (string, error) {
	return c.callString(ctx, CmdCloseBrowser, nil)
}
