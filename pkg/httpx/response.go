package httpx

import "strconv"

// Status lines written by the server.
const (
	StatusOK       = "HTTP/1.1 200 OK"
	StatusNotFound = "HTTP/1.1 404 NOT FOUND"
)

// FormatResponse frames body as
//
//	STATUS\r\nContent-Length: N\r\n\r\nBODY
//
// where N is len(body) in bytes.
func FormatResponse(status string, body []byte) []byte {
	const header = "\r\nContent-Length: "
	n := strconv.Itoa(len(body))

	out := make([]byte, 0, len(status)+len(header)+len(n)+4+len(body))
	out = append(out, status...)
	out = append(out, header...)
	out = append(out, n...)
	out = append(out, "\r\n\r\n"...)
	out = append(out, body...)
	return out
}
