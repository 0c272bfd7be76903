package httpx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatResponse(t *testing.T) {
	got := FormatResponse(StatusOK, []byte("<h1>hi</h1>"))
	require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 11\r\n\r\n<h1>hi</h1>", string(got))

	got = FormatResponse(StatusNotFound, nil)
	require.Equal(t, "HTTP/1.1 404 NOT FOUND\r\nContent-Length: 0\r\n\r\n", string(got))
}

func TestFormatResponse_LengthIsBytes(t *testing.T) {
	body := []byte("héllo ✓")
	got := FormatResponse(StatusOK, body)
	require.Contains(t, string(got), "Content-Length: 10\r\n")
	require.Equal(t, len(body), 10)
}
