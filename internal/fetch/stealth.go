package fetch

import (
	"fmt"
	"math/rand"

	"github.com/playwright-community/playwright-go"
)

// clientIdentity is the spoofed fingerprint for one browser context.
type clientIdentity struct {
	UserAgent string
	Width     int
	Height    int
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
}

var viewports = []struct{ W, H int }{
	{1920, 1080},
	{1680, 1050},
	{1536, 864},
	{1440, 900},
}

// randomIdentity picks a fresh UA/viewport combination per session so
// repeated runs don't present an identical fingerprint.
func randomIdentity() clientIdentity {
	vp := viewports[rand.Intn(len(viewports))]
	return clientIdentity{
		UserAgent: userAgents[rand.Intn(len(userAgents))],
		Width:     vp.W,
		Height:    vp.H,
	}
}

// stealthScript runs before any page script and masks the signals headless
// Chromium leaks: the webdriver flag, the empty plugin list and the missing
// languages array.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
window.chrome = window.chrome || { runtime: {} };
`

// Session owns the Playwright runtime, browser and stealth context for one
// run. Construct it, pass it around explicitly, and Close it when the run
// ends; nothing here is global.
type Session struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	ctx      playwright.BrowserContext
	identity clientIdentity
}

func NewSession(headless bool) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-first-run",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	identity := randomIdentity()
	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(identity.UserAgent),
		Viewport: &playwright.Size{
			Width:  identity.Width,
			Height: identity.Height,
		},
		Locale: playwright.String("en-US"),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if err := browserCtx.AddInitScript(playwright.Script{
		Content: playwright.String(stealthScript),
	}); err != nil {
		browserCtx.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to inject stealth script: %w", err)
	}

	return &Session{
		pw:       pw,
		browser:  browser,
		ctx:      browserCtx,
		identity: identity,
	}, nil
}

func (s *Session) NewPage() (playwright.Page, error) {
	return s.ctx.NewPage()
}

func (s *Session) Close() error {
	if s.ctx != nil {
		s.ctx.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.pw != nil {
		return s.pw.Stop()
	}
	return nil
}
