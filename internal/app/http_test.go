package app

import (
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestNewLLMHTTPClient_Config(t *testing.T) {
	c := newLLMHTTPClient(0)
	if c.Timeout != 90*time.Second {
		t.Fatalf("default timeout = %v", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected http.Transport")
	}
	if tr.TLSClientConfig != nil && tr.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("TLS verification must stay on")
	}
	if reflect.ValueOf(http.DefaultTransport).Pointer() == reflect.ValueOf(tr).Pointer() {
		t.Fatalf("transport should not be default")
	}
	if c := newLLMHTTPClient(time.Second); c.Timeout != time.Second {
		t.Fatalf("explicit timeout ignored")
	}
}
