package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenShotDebugger captures full-page screenshots when the scraper hits a
// block page or captcha, so selector drift and anti-bot challenges can be
// diagnosed after an unattended run.
type ScreenShotDebugger struct {
	outputDir string
}

// NewScreenShotDebugger writes captures under outputDir. The directory is
// created lazily on first capture, so a run that never gets blocked leaves
// no empty directories behind.
func NewScreenShotDebugger(outputDir string) *ScreenShotDebugger {
	return &ScreenShotDebugger{
		outputDir: outputDir,
	}
}

// capturePath builds the destination filename for one capture.
func (s *ScreenShotDebugger) capturePath(name string, now time.Time) string {
	filename := fmt.Sprintf("%s_%s.png", name, now.Format("2006-01-02_15-04-05"))
	return filepath.Join(s.outputDir, filename)
}

// CaptureAndLog saves a full-page screenshot and returns its path so the
// caller can reference it in its own diagnostics.
func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) (string, error) {
	log.Printf("📸 %s", message)

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot dir %s: %w", s.outputDir, err)
	}

	path := s.capturePath(name, time.Now())
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}

	log.Printf("   Screenshot saved: %s", path)
	return path, nil
}
