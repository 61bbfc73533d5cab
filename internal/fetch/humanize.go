package fetch

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-zephyr-scraper/utils"
)

// MouseJiggle moves the pointer to a few random spots so the session never
// looks idle between navigations.
func MouseJiggle(page playwright.Page, sleeper utils.Sleeper) {
	viewport := page.ViewportSize()
	width, height := 1280, 720
	if viewport != nil {
		width = viewport.Width
		height = viewport.Height
	}

	for i := 0; i < 3; i++ {
		x := float64(rand.Intn(width))
		y := float64(rand.Intn(height))
		if err := page.Mouse().Move(x, y); err != nil {
			return
		}
		sleeper.Pause(100*time.Millisecond, 300*time.Millisecond)
	}
}

// HumanScroll walks down the page in uneven steps with reading pauses, then
// corrects upward a little. Also triggers lazy-loaded cards.
func HumanScroll(page playwright.Page, sleeper utils.Sleeper) {
	for i := 0; i < 5; i++ {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return
		}
		sleeper.Pause(500*time.Millisecond, 1500*time.Millisecond)
	}

	//scroll back up a bit (human-like correction)
	page.Mouse().Wheel(0, -200)
	sleeper.Pause(300*time.Millisecond, 800*time.Millisecond)

	//bottom of page to trigger lazy loading
	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
}
