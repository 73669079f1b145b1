package scraper

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/jarcoal/httpmock"
)

func encodedResponder(t *testing.T, encoding string, payload []byte) httpmock.Responder {
	t.Helper()

	var buf bytes.Buffer
	switch encoding {
	case "br":
		w := brotli.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("brotli write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("brotli close: %v", err)
		}
	case "gzip":
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}
	default:
		buf.Write(payload)
	}
	body := buf.Bytes()

	return func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewBytesResponse(http.StatusOK, body)
		resp.Header.Set("X-Accept-Encoding", req.Header.Get("Accept-Encoding"))
		if encoding != "" {
			resp.Header.Set("Content-Encoding", encoding)
		}
		return resp, nil
	}
}

func TestDecodingTransport(t *testing.T) {
	payload := []byte("<html><body><div id=\"gridItemRoot\">compressed</div></body></html>")

	for _, encoding := range []string{"br", "gzip", ""} {
		t.Run("encoding_"+encoding, func(t *testing.T) {
			mock := httpmock.NewMockTransport()
			mock.RegisterResponder("GET", "http://example.test/page", encodedResponder(t, encoding, payload))

			req, err := http.NewRequest(http.MethodGet, "http://example.test/page", nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			resp, err := newDecodingTransport(mock).RoundTrip(req)
			if err != nil {
				t.Fatalf("round trip: %v", err)
			}
			defer resp.Body.Close()

			if got := resp.Header.Get("X-Accept-Encoding"); got != acceptEncoding {
				t.Fatalf("accept-encoding sent=%q, want %q", got, acceptEncoding)
			}
			if got := resp.Header.Get("Content-Encoding"); got != "" {
				t.Fatalf("content-encoding should be removed, got %q", got)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if !bytes.Equal(body, payload) {
				t.Fatalf("body=%q, want %q", body, payload)
			}
		})
	}
}

func TestDecodingTransportKeepsCallerEncoding(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder("GET", "http://example.test/page", encodedResponder(t, "", []byte("plain")))

	req, err := http.NewRequest(http.MethodGet, "http://example.test/page", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := newDecodingTransport(mock).RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Accept-Encoding"); got != "identity" {
		t.Fatalf("accept-encoding sent=%q, want identity", got)
	}
}
