// Package cookie centralizes the token cookie policy: names, flags and
// lifetimes live here so handlers and middleware cannot drift apart.
package cookie

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dchaban/taskdeck-server/internal/token"
)

const (
	AccessName  = "taskdeck_access"
	RefreshName = "taskdeck_refresh"
)

// Writer stamps token cookies on responses. Secure is dropped only in
// dev mode; SameSite=None supports cross-origin front ends.
type Writer struct {
	secure bool
}

func NewWriter(secure bool) *Writer {
	return &Writer{secure: secure}
}

// SetPair writes both token cookies with lifetimes matching the token
// TTLs.
func (w *Writer) SetPair(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(AccessName, accessToken, int(token.AccessTTL/time.Second), "/", "", w.secure, true)
	c.SetCookie(RefreshName, refreshToken, int(token.RefreshTTL/time.Second), "/", "", w.secure, true)
}

// Clear expires both token cookies.
func (w *Writer) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(AccessName, "", -1, "/", "", w.secure, true)
	c.SetCookie(RefreshName, "", -1, "/", "", w.secure, true)
}
