// Package httpx holds the small JSON response helpers shared by every
// handler package.
//
// All mutating routes identify the acting address via the x-caller-address
// header forwarded by the Gateway.
package httpx

import (
	"encoding/json"
	"net/http"
)

// CallerHeader carries the acting address on every authenticated route.
const CallerHeader = "x-caller-address"

// Caller extracts the acting address from the request.
func Caller(r *http.Request) (string, bool) {
	addr := r.Header.Get(CallerHeader)
	return addr, addr != ""
}

// OK writes v as a 200 JSON response.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error body with the given status code.
func Error(w http.ResponseWriter, msg string, code int) {
	JSON(w, code, map[string]string{"error": msg})
}
