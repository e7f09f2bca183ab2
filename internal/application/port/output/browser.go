package output

import (
	"context"

	"crew-agent/internal/domain/entity"
)

// BrowserPort is the single stateful page owned by the browser worker.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	InteractiveElements(ctx context.Context) ([]entity.InteractiveElement, error)
	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	PageText(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	CurrentURL() string
	Close()
}

// BrowserWorkerPort is the client view of the browser worker. Each call is
// one request/response exchange.
type BrowserWorkerPort interface {
	OpenURL(ctx context.Context, url string) (string, error)
	ListInteractiveElements(ctx context.Context) ([]entity.InteractiveElement, error)
	ClickElement(ctx context.Context, selector string) (string, error)
	TypeText(ctx context.Context, selector, text string) (string, error)
	ReadPageContent(ctx context.Context) (string, error)
	TakeScreenshot(ctx context.Context) ([]byte, error)
	CloseBrowser(ctx context.Context) (string, error)
}
