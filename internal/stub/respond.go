package stub

import (
	"net/http"

	"github.com/goccy/go-json"
)

// The stub intentionally answers errors in the assorted body shapes the
// production backend emits, so the console's error extraction stays
// exercised against all of them.

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// messageError answers {"message": "..."}.
func messageError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"message": msg})
}

// pascalError answers {"Message": "..."}.
func pascalError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"Message": msg})
}

// fieldErrors answers {"errors": {field: [messages]}}.
func fieldErrors(w http.ResponseWriter, statusCode int, errs map[string][]string) {
	writeJSON(w, statusCode, map[string]interface{}{"errors": errs})
}

// rawError answers a bare text body.
func rawError(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(msg))
}
