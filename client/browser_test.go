package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteScript(t *testing.T) {
	script, err := executeScript(`key"with'quotes`, "submit_form")
	assert.NoError(t, err)
	assert.Contains(t, script, `grecaptcha.enterprise.execute("key\"with'quotes", {action: "submit_form"})`)
}

func TestBrowserTokenProviderGuards(t *testing.T) {
	p := &BrowserTokenProvider{PageURL: "http://localhost:8080/"}
	_, err := p.AcquireToken(context.Background(), TokenRequest{Handle: "w-0"})
	assert.ErrorIs(t, err, ErrChallengeFailed)

	p = &BrowserTokenProvider{}
	_, err = p.AcquireToken(context.Background(), TokenRequest{SiteKey: "k", Action: "submit_form"})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestBrowserTokenProviderChromePath(t *testing.T) {
	t.Setenv("CHROME_PATH", "/usr/bin/headless-shell")
	assert.Equal(t, "/usr/bin/headless-shell", (&BrowserTokenProvider{}).chromePath())
	assert.Equal(t, "/opt/chrome", (&BrowserTokenProvider{ChromePath: "/opt/chrome"}).chromePath())
}
