package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"
	flashMaxAge = 60
	flashSep    = "\n"
)

// addFlash queues a one-shot notice for the next GetLocation response.
func addFlash(c *gin.Context, msg string) {
	msgs := readFlash(c)
	msgs = append(msgs, msg)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, strings.Join(msgs, flashSep), flashMaxAge, "/", "", false, true)
}

// popFlash returns the queued notices and clears the cookie.
func popFlash(c *gin.Context) []string {
	msgs := readFlash(c)
	if len(msgs) > 0 {
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	return msgs
}

func readFlash(c *gin.Context) []string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return []string{}
	}
	out := []string{}
	for _, msg := range strings.Split(raw, flashSep) {
		if msg = strings.TrimSpace(msg); msg != "" {
			out = append(out, msg)
		}
	}
	return out
}
