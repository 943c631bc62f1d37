package handlers

import "net/http"

const HeartbeatMessage = "I am alive!"

// HeartbeatHandler - liveness probe, answers 200 with a fixed text.
func HeartbeatHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(HeartbeatMessage)); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
