package jwks

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Handler serves set as an application/json key set document. Only GET
// and HEAD are allowed; other methods get 405 with an Allow header.
func Handler(set *Set) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(set); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if r.Method == http.MethodHead {
			return
		}

		w.Write(buf.Bytes())
	})
}
