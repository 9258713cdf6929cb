package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/notekeep/internal/pkg/goerror"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Request is what a Handler receives.
type Request struct {
	*http.Request
}

func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetHeader returns the header value with surrounding whitespace removed.
func (r *Request) GetHeader(key string) string {
	return strings.TrimSpace(r.Header.Get(key))
}

// DecodeBody strictly decodes a single JSON object into dst: unknown fields,
// trailing data and bodies over 1 MiB are all rejected as invalid format.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes+1))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}
	if dec.InputOffset() > maxBodyBytes {
		return goerror.NewInvalidFormat("Request body too large")
	}
	return nil
}
