package errors

import (
	"errors"
	"fmt"
)

// remoteFailure is implemented by errors that carry a backend HTTP response.
type remoteFailure interface {
	StatusCode() int
	Detail() string
	Endpoint() string
}

type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	RemoteStatus   int    `json:"remote_status,omitempty"`
	RemoteDetail   string `json:"remote_detail,omitempty"`
	RemoteEndpoint string `json:"remote_endpoint,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var remote remoteFailure
	if errors.As(err, &remote) {
		d.RemoteStatus = remote.StatusCode()
		d.RemoteDetail = remote.Detail()
		d.RemoteEndpoint = remote.Endpoint()
	}

	return d
}
