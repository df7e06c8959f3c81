package httpx

import (
	"fmt"
	"net/http"

	"github.com/drugis/mcda-patient/log"
)

// Will log an error, and send an HTTP response with status 500 and the
// error text in the body. This is an internal admin tool: echoing the
// raw persistence error back is deliberate.
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404
// and the formatted message as plain text
func LogNotFoundf(w http.ResponseWriter, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Debugf("%s: %s", code, errMsg)
	http.Error(w, errMsg, http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}
