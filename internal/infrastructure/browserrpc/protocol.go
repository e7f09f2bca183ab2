// Package browserrpc carries commands from short-lived tool connections to
// the long-lived browser worker.
//
// Every TCP connection holds exactly one exchange: the client writes one JSON
// request object, the worker answers with one JSON response object and
// closes the connection. The worker accepts connections one at a time, so
// commands against its single page never interleave.
package browserrpc

import (
	"encoding/json"
	"unicode/utf8"
)

const DefaultAddr = "127.0.0.1:8001"

type Command string

const (
	CmdOpenURL                 Command = "open_url"
	CmdListInteractiveElements Command = "list_interactive_elements"
	CmdClickElement            Command = "click_element"
	CmdTypeText                Command = "type_text"
	CmdReadPageContent         Command = "read_page_content"
	CmdTakeScreenshot          Command = "take_screenshot"
	CmdCloseBrowser            Command = "close_browser"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const (
	maxElementText = 100
	maxPageContent = 5000
)

type Request struct {
	Command Command         `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

type OpenURLParams struct {
	URL string `json:"url"`
}

type SelectorParams struct {
	Selector string `json:"selector"`
}

type TypeTextParams struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
}

type ScreenshotResult struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Data is base64 encoded by encoding/json.
	Data []byte `json:"data"`
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
