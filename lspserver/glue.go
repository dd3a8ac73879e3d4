// Package lspserver is the stdio glue for a jsonrpc2 language server: a
// method table plus a reflective adaptor that unmarshals params into the
// handler's own parameter type.
package lspserver

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"reflect"

	"github.com/sourcegraph/jsonrpc2"
)

type Method func(ctx context.Context, conn jsonrpc2.JSONRPC2, params json.RawMessage) interface{}

type MethodMap map[string]Method

var ErrMethodNotFound = errors.New("method not found")

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// Adapt wraps a handler of the form
//
//	func(ctx, conn, params T)                // notification
//	func(ctx, conn, params T) (R, E)         // request
//
// into a Method, unmarshalling the raw params into T.
func Adapt(fn interface{}) Method {
	val := reflect.ValueOf(fn)
	paramType := val.Type().In(2)

	return func(ctx context.Context, conn jsonrpc2.JSONRPC2, params json.RawMessage) interface{} {
		p := reflect.New(paramType)
		_ = json.Unmarshal(params, p.Interface())

		ret := val.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(conn), p.Elem()})
		switch len(ret) {
		case 0:
			return nil
		case 2:
			if !ret[0].IsNil() {
				return ret[0].Interface()
			}
			if !ret[1].IsNil() {
				return ret[1].Interface()
			}
			return nil
		default:
			panic("handler must return nothing or a (result, error) pair")
		}
	}
}

// StartServer serves the method map over stdio until the client disconnects.
func StartServer(methods MethodMap) {
	handler := jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		m, ok := methods[req.Method]
		if !ok {
			return nil, ErrMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return m(ctx, conn, params), nil
	})

	<-jsonrpc2.NewConn(
		context.Background(),
		jsonrpc2.NewBufferedStream(stdrwc{}, jsonrpc2.VSCodeObjectCodec{}),
		handler,
	).DisconnectNotify()
}
