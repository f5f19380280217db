package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// BrowserTokenProvider obtains a real reCAPTCHA Enterprise token by loading
// the landing page in headless Chrome and calling execute() there. Checkbox
// challenges need a human and are not supported.
type BrowserTokenProvider struct {
	// PageURL is a page that loads the Enterprise SDK for the site key
	PageURL string
	// ChromePath overrides the Chrome binary (defaults to CHROME_PATH)
	ChromePath string
	// SDKTimeout bounds the wait for the SDK global to appear
	SDKTimeout time.Duration
}

const sdkReadyExpr = `typeof grecaptcha !== 'undefined' && typeof grecaptcha.enterprise !== 'undefined' && typeof grecaptcha.enterprise.execute === 'function'`

func (p *BrowserTokenProvider) chromePath() string {
	if p.ChromePath != "" {
		return p.ChromePath
	}
	return os.Getenv("CHROME_PATH")
}

// executeScript builds the promise that resolves to a token
func executeScript(siteKey, action string) (string, error) {
	key, err := json.Marshal(siteKey)
	if err != nil {
		return "", err
	}
	act, err := json.Marshal(action)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`new Promise(function(resolve, reject) {
  grecaptcha.enterprise.ready(function() {
    grecaptcha.enterprise.execute(%s, {action: %s}).then(resolve, reject);
  });
})`, key, act), nil
}

func (p *BrowserTokenProvider) AcquireToken(ctx context.Context, req TokenRequest) (string, error) {
	if req.Handle != "" {
		return "", fmt.Errorf("%w: checkbox challenges cannot be solved headlessly", ErrChallengeFailed)
	}
	if p.PageURL == "" {
		return "", fmt.Errorf("%w: no page URL", ErrProviderUnavailable)
	}

	script, err := executeScript(req.SiteKey, req.Action)
	if err != nil {
		return "", fmt.Errorf("failed to build execute script: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if chromePath := p.chromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := p.SDKTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	var ready bool
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(p.PageURL),
		chromedp.Poll(sdkReadyExpr, &ready, chromedp.WithPollingTimeout(timeout)),
	)
	if err != nil {
		if errors.Is(err, chromedp.ErrPollingTimeout) {
			return "", fmt.Errorf("%w: SDK not loaded on %s", ErrProviderUnavailable, p.PageURL)
		}
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var token string
	err = chromedp.Run(browserCtx, chromedp.Evaluate(script, &token, func(params *runtime.EvaluateParams) *runtime.EvaluateParams {
		return params.WithAwaitPromise(true)
	}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChallengeFailed, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrChallengeFailed)
	}
	return token, nil
}

// Reset is a no-op; every acquisition uses a fresh browser
func (p *BrowserTokenProvider) Reset(handle WidgetHandle) {}
