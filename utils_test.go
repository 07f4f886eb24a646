package itol_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/sagarc03/itol"
	"github.com/stretchr/testify/assert"
)

func TestTreeURL(t *testing.T) {
	assert.Equal(t, "https://itol.embl.de/tree/42", itol.TreeURL("", "42"))
	assert.Equal(t, "http://localhost:8080/tree/42", itol.TreeURL("http://localhost:8080/tree/", "42"))
	assert.Equal(t, "http://localhost:8080/tree/42", itol.TreeURL("http://localhost:8080/tree", "42"))
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestExitCode(t *testing.T) {
	tt := []struct {
		Name string
		Err  error
		Want int
	}{
		{Name: "nil", Err: nil, Want: 0},
		{Name: "configuration", Err: itol.NewConfigurationError("project", itol.ErrProjectRequired), Want: 2},
		{Name: "format", Err: &itol.FormatError{Kind: "pie", Record: -1, Err: itol.ErrValueCount}, Want: 3},
		{Name: "transport", Err: &itol.TransportError{Op: "upload", Err: errors.New("connection refused")}, Want: 4},
		{Name: "timeout", Err: &itol.TransportError{Op: "upload", Err: timeoutErr{}}, Want: 4},
		{Name: "server", Err: &itol.ServerError{Op: "download", StatusCode: 200, Message: "ERROR: tree not found"}, Want: 5},
		{Name: "local io", Err: &itol.LocalIOError{Op: "write", Path: "out.png", Err: errors.New("denied")}, Want: 6},
		{Name: "wrapped", Err: fmt.Errorf("run: %w", &itol.ServerError{StatusCode: 500}), Want: 5},
		{Name: "other", Err: context.Canceled, Want: 1},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, itol.ExitCode(tc.Err))
		})
	}
}

func TestTransportError_Timeout(t *testing.T) {
	err := &itol.TransportError{Op: "upload", URL: "https://example", Sent: true, Err: fmt.Errorf("do request: %w", timeoutErr{})}
	assert.True(t, err.Timeout())
	assert.True(t, err.Ambiguous())
	assert.Equal(t, itol.CodeTimeout, err.Code())

	plain := &itol.TransportError{Op: "upload", Err: errors.New("no route")}
	assert.False(t, plain.Timeout())
	assert.Equal(t, itol.CodeNetwork, plain.Code())
}

func TestFormatError_Message(t *testing.T) {
	err := &itol.FormatError{Kind: "label", Record: 2, Field: "color", Err: itol.ErrInvalidColor}
	assert.Equal(t, "format label record 2 field color: invalid color", err.Error())
	assert.ErrorIs(t, err, itol.ErrInvalidColor)

	whole := &itol.FormatError{Kind: "pie", Record: -1, Err: itol.ErrEmptyDataset}
	assert.Equal(t, "format pie: no records", whole.Error())
}

func TestServerError_Retryable(t *testing.T) {
	assert.True(t, (&itol.ServerError{StatusCode: 503}).Retryable())
	assert.False(t, (&itol.ServerError{StatusCode: 200}).Retryable())
	assert.False(t, (&itol.ServerError{StatusCode: 404}).Retryable())
}
