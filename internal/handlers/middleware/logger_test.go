package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type loggerFunc func(string, ...any)

func (f loggerFunc) Info(msg string, v ...any) { f(msg, v...) }

func logFields(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		fields[args[i].(string)] = args[i+1]
	}
	return fields
}

func TestLoggerMiddleware(t *testing.T) {
	called := 0
	var msg string
	var args []any

	logger := loggerFunc(func(m string, v ...any) {
		called++
		msg = m
		args = v
	})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, err := w.Write([]byte("hi"))
		require.NoError(t, err, "should write response")
	})

	middleware := LoggerMiddleware(logger)
	srv := httptest.NewServer(middleware(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/test")
	require.NoError(t, err, "should make request to test server")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "should read response body")
	defer resp.Body.Close() // nolint:errcheck

	require.Equalf(t, http.StatusTeapot, resp.StatusCode, "should return status Teapot. Resp: %s", string(body))
	require.Equal(t, "hi", string(body), "should return 'hi' in response")

	require.Equal(t, 1, called, "logger should be called once")
	require.Equal(t, "got HTTP request", msg, "logger should log 'got HTTP request'")

	fields := logFields(args)
	require.Len(t, fields, 7, "logger should log 7 fields")
	require.Equal(t, "GET", fields["method"])
	require.Equal(t, "/test", fields["uri"])
	require.NotEmpty(t, fields["client_ip"])
	require.NotEmpty(t, fields["duration"], "duration should not be empty")
	require.Equal(t, http.StatusTeapot, fields["status"])
	require.Equal(t, 2, fields["size"], "size should be 2 (length of 'hi')")

	requestID, ok := fields["request_id"].(string)
	require.True(t, ok, "request_id should be logged")
	_, err = uuid.Parse(requestID)
	require.NoError(t, err, "generated request id should be a uuid")
	require.Equal(t, requestID, resp.Header.Get("X-Request-ID"), "request id should be echoed in the response")
}

func TestLoggerMiddleware_KeepsUpstreamRequestID(t *testing.T) {
	var args []any
	logger := loggerFunc(func(_ string, v ...any) { args = v })

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(LoggerMiddleware(logger)(h))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "assigned-by-proxy")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	require.Equal(t, "assigned-by-proxy", resp.Header.Get("X-Request-ID"))
	require.Equal(t, "assigned-by-proxy", logFields(args)["request_id"])
}
