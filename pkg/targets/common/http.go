package common

import (
	"context"
	"encoding/base64"

	"github.com/valyala/fasthttp"
)

const (
	headerAuthorization = "Authorization"
	httpClientName      = "tdbench"
)

var methodPost = []byte("POST")

// HTTPClientConfig is the configuration used to create an HTTPClient.
type HTTPClientConfig struct {
	// Addr of the server, in form "localhost:6041"
	Addr     string
	User     string
	Password string

	// Dial replaces the default dialer; nil uses TCP
	Dial fasthttp.DialFunc
}

// HTTPClient posts request bodies to one server with basic authentication.
type HTTPClient struct {
	client fasthttp.Client
	base   string
	auth   string
}

func NewHTTPClient(c HTTPClientConfig) *HTTPClient {
	creds := base64.StdEncoding.EncodeToString([]byte(c.User + ":" + c.Password))
	return &HTTPClient{
		client: fasthttp.Client{
			Name: httpClientName,
			Dial: c.Dial,
		},
		base: "http://" + c.Addr,
		auth: "Basic " + creds,
	}
}

// Post sends body to path and returns the response status and a copy of the
// response body. A deadline on ctx bounds the request.
func (h *HTTPClient) Post(ctx context.Context, path, contentType string, body []byte) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.Header.SetMethodBytes(methodPost)
	req.SetRequestURI(h.base + path)
	req.Header.Set(headerAuthorization, h.auth)
	req.Header.SetContentType(contentType)
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = h.client.DoDeadline(req, resp, deadline)
	} else {
		err = h.client.Do(req, resp)
	}
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}
