package gate

import (
	"log"
	"net/http"
)

// logTransport logs every round trip.
type logTransport struct {
	base http.RoundTripper
	log  *log.Logger
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.log.Printf("%v %v%v: %v", req.Method, req.URL.Host, req.URL.Path, err)
		return nil, err
	}
	t.log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	return resp, nil
}
