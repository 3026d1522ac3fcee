package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/sgiordano45/KidsWallet/src/store"
)

// streamEvents bridges a live subscription onto a server-sent-events
// response: every snapshot becomes one data frame. The subscription is
// cancelled when the client goes away.
func streamEvents(w http.ResponseWriter, r *http.Request, subscribe func(send func(v any)) store.Cancel) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := make(chan []byte, 8)
	cancel := subscribe(func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			log.Printf("ERROR: encode stream event: %v", err)
			return
		}
		// Drop when the client lags; the next snapshot supersedes this one.
		select {
		case events <- data:
		default:
		}
	})
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-events:
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
