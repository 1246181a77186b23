package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"mobhub/internal/pkg/errs"
)

// Reply is an outbound envelope. Exactly one of Msg and Err is set.
type Reply struct {
	Msg string `json:"msg,omitempty"`
	Err string `json:"err,omitempty"`
}

// Info builds an informational reply carrying msg verbatim.
func Info(msg string) Reply {
	return Reply{Msg: msg}
}

// Infof builds an informational reply from a format template.
func Infof(format string, args ...any) Reply {
	return Reply{Msg: fmt.Sprintf(format, args...)}
}

// Failure builds an error reply. CustomErrors contribute their user-facing message;
// any other error is reported generically.
func Failure(err error) Reply {
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		return Reply{Err: customErr.Message}
	}
	return Reply{Err: errs.NewError(errs.ErrUnknown).Message}
}

// Encode marshals r into its wire form.
func (r Reply) Encode() ([]byte, error) {
	return json.Marshal(r)
}
