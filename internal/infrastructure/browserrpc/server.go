package browserrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"crew-agent/internal/application/port/output"
)

const defaultReadTimeout = 30 * time.Second

// Server owns the browser page for its whole lifetime and serves one
// connection at a time until close_browser is received.
type Server struct {
	browser     output.BrowserPort
	logger      output.LoggerPort
	readTimeout time.Duration
}

func NewServer(browser output.BrowserPort, logger output.LoggerPort) *Server {
	return &Server{
		browser:     browser,
		logger:      logger,
		readTimeout: defaultReadTimeout,
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve returns nil after close_browser or when ctx is cancelled. The
// listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stopped:
		}
	}()
	defer ln.Close()

	s.logger.Info("Browser worker listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if !s.handleConn(ctx, conn) {
			s.logger.Info("Browser worker stopping after close_browser")
			return nil
		}
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) bool {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.logger.Warn("Bad worker request", "error", err)
		s.reply(conn, Response{Status: StatusError, Message: fmt.Sprintf("invalid request: %v", err)})
		return true
	}

	log := s.logger.WithField("command", string(req.Command))
	start := time.Now()

	result, err := s.dispatch(ctx, req)
	if err != nil {
		log.Warn("Worker command failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		s.reply(conn, Response{Status: StatusError, Message: err.Error()})
		return true
	}

	raw, err := json.Marshal(result)
	if err != nil {
		s.reply(conn, Response{Status: StatusError, Message: fmt.Sprintf("encode result: %v", err)})
		return true
	}

	log.Debug("Worker command completed", "duration_ms", time.Since(start).Milliseconds())
	s.reply(conn, Response{Status: StatusSuccess, Result: raw})

	if req.Command == CmdCloseBrowser {
		s.browser.Close()
		return false
	}
	return true
}

func (s *Server) reply(conn net.Conn, resp Response) {
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.logger.Warn("Failed to write worker response", "error", err)
	}
}

func (s *Server) dispatch(ctx context.Context, req Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", req.Command, r)
		}
	}()

	switch req.Command {
	case CmdOpenURL:
		var p OpenURLParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if p.URL == "" {
			return nil, errors.New("missing param: url")
		}
		if err := s.browser.Navigate(ctx, p.URL); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Page '%s' opened.", p.URL), nil

	case CmdListInteractiveElements:
		items, err := s.browser.InteractiveElements(ctx)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].Text = truncateRunes(items[i].Text, maxElementText)
		}
		return items, nil

	case CmdClickElement:
		var p SelectorParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if p.Selector == "" {
			return nil, errors.New("missing param: selector")
		}
		if err := s.browser.Click(ctx, p.Selector); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Clicked '%s'. Current URL: %s", p.Selector, s.browser.CurrentURL()), nil

	case CmdTypeText:
		var p TypeTextParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if p.Selector == "" {
			return nil, errors.New("missing param: selector")
		}
		if err := s.browser.Type(ctx, p.Selector, p.Text); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Typed '%s' into '%s'.", p.Text, p.Selector), nil

	case CmdReadPageContent:
		text, err := s.browser.PageText(ctx)
		if err != nil {
			return nil, err
		}
		return truncateRunes(text, maxPageContent), nil

	case CmdTakeScreenshot:
		shot, err := s.browser.Screenshot(ctx)
		if err != nil {
			return nil, err
		}
		return ScreenshotResult{Format: shot.Format, Width: shot.Width, Height: shot.Height, Data: shot.Data}, nil

	case CmdCloseBrowser:
		return "Browser closed.", nil

	default:
		return nil, fmt.Errorf("unknown command: %q", req.Command)
	}
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
