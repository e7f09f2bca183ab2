package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/browser/htmltext"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultNavigateTimeout = 60 * time.Second
	interactiveSelector    = "a, button, input, textarea, select"
	maxScreenshotWidth     = 1024
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type BrowserAdapter struct {
	browser         *rod.Browser
	launcher        *launcher.Launcher
	page            *rod.Page
	timeout         time.Duration
	navigateTimeout time.Duration
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	// Bin overrides the browser binary; empty lets the launcher find one.
	Bin string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:  false,
		Timeout:   defaultTimeout,
		NoSandbox: true,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if cfg.SlowMotion > 0 {
		browser = browser.SlowMotion(cfg.SlowMotion)
	}
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &BrowserAdapter{
		browser:         browser,
		launcher:        l,
		page:            page,
		timeout:         timeout,
		navigateTimeout: defaultNavigateTimeout,
	}, nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	p := b.page.Context(ctx).Timeout(b.navigateTimeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	_ = b.page.Context(ctx).WaitIdle(5 * time.Second)
	return nil
}

func (b *BrowserAdapter) element(ctx context.Context, selector string) (*rod.Element, error) {
	p := b.page.Context(ctx).Timeout(b.timeout)
	if strings.HasPrefix(selector, "/") {
		return p.ElementX(selector)
	}
	return p.Element(selector)
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	el, err := b.element(ctx, selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	_ = b.page.Context(ctx).WaitIdle(2 * time.Second)
	return nil
}

func (b *BrowserAdapter) Type(ctx context.Context, selector, text string) error {
	el, err := b.element(ctx, selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}

	return nil
}

func (b *BrowserAdapter) InteractiveElements(ctx context.Context) ([]entity.InteractiveElement, error) {
	elements, err := b.page.Context(ctx).Timeout(b.timeout).Elements(interactiveSelector)
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}

	result := make([]entity.InteractiveElement, 0, len(elements))
	for _, el := range elements {
		tag, err := el.Eval(`() => this.tagName`)
		if err != nil {
			continue
		}
		text, _ := el.Text()
		id, _ := el.Attribute("id")
		name, _ := el.Attribute("name")

		result = append(result, entity.InteractiveElement{
			Tag:  tag.Value.Str(),
			Text: strings.TrimSpace(text),
			ID:   ptrToString(id),
			Name: ptrToString(name),
		})
	}

	return result, nil
}

func (b *BrowserAdapter) PageText(ctx context.Context) (string, error) {
	html, err := b.page.Context(ctx).Timeout(b.timeout).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return htmltext.ExtractText(html, nil), nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := b.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func ptrToString(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}
