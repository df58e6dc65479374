package httputil

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"socialplay/internal/model"
)

const flashCookie = "flash"

// Flash categories
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// AddFlash queues a notice for the next rendered page. Notices already queued
// in this request or carried by the incoming cookie are kept.
func AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	flashes := append(pendingFlashes(w, r), model.Flash{Category: category, Message: message})

	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns and clears the notices carried by the request.
func PopFlashes(w http.ResponseWriter, r *http.Request) []model.Flash {
	flashes := decodeFlashes(r)
	if len(flashes) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return flashes
}

// Redirect sends a 303 so that form posts are followed by a GET.
func Redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// pendingFlashes prefers a flash cookie already set on this response.
func pendingFlashes(w http.ResponseWriter, r *http.Request) []model.Flash {
	for _, raw := range w.Header().Values("Set-Cookie") {
		c, err := http.ParseSetCookie(raw)
		if err == nil && c.Name == flashCookie && c.Value != "" {
			return decodeFlashValue(c.Value)
		}
	}
	return decodeFlashes(r)
}

func decodeFlashes(r *http.Request) []model.Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	return decodeFlashValue(c.Value)
}

func decodeFlashValue(value string) []model.Flash {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []model.Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
