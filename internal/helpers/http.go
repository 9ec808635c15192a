package helpers

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/isometry/zoom-webhook-app/internal/models"
)

// RespondHTTP writes the response verbatim. A zero status code is sent as 200.
// A 204 carrying a body is written on the raw connection when the writer supports hijacking,
// as net/http drops bodies on 204 responses. Otherwise the body is dropped with a warning.
func RespondHTTP(response models.Response, rw http.ResponseWriter, logger *slog.Logger) error {
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	if statusCode == http.StatusNoContent && response.Body != "" {
		if hj, ok := rw.(http.Hijacker); ok {
			return writeRawResponse(hj, statusCode, response)
		}
	}

	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	rw.WriteHeader(statusCode)
	if response.Body == "" {
		return nil
	}
	_, err := rw.Write([]byte(response.Body))
	if errors.Is(err, http.ErrBodyNotAllowed) {
		logger.Warn("204 body dropped", slog.Int("status", statusCode), slog.Int("size", len(response.Body)))
		return nil
	}
	return err
}

func writeRawResponse(hj http.Hijacker, statusCode int, response models.Response) error {
	conn, buf, err := hj.Hijack()
	if err != nil {
		return fmt.Errorf("failed to hijack connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	header := http.Header{}
	for k, v := range response.Headers {
		header.Set(k, v)
	}
	header.Set("Content-Length", strconv.Itoa(len(response.Body)))
	header.Set("Connection", "close")

	return writeStatusAndBody(buf.Writer, statusCode, header, response.Body)
}

func writeStatusAndBody(w *bufio.Writer, statusCode int, header http.Header, body string) error {
	if _, err := fmt.Fprintf(w, "HTTP/1.1 %03d %s\r\n", statusCode, http.StatusText(statusCode)); err != nil {
		return err
	}
	if err := header.Write(w); err != nil {
		return err
	}
	if _, err := w.WriteString("\r\n" + body); err != nil {
		return err
	}
	return w.Flush()
}
