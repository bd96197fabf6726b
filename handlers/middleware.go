package handlers

import (
	"net/http"

	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/sideshift"
	"github.com/2HgO/chainrelief-go/utils"
	"go.uber.org/zap"
)

type MiddleWareHandler interface {
	Recover(http.HandlerFunc) http.HandlerFunc
	ForwardClientIP(http.HandlerFunc) http.HandlerFunc
	Attach(http.HandlerFunc) http.HandlerFunc
}

type middlewareHandler struct {
	log *zap.Logger
}

func NewMiddlewareHandler(log *zap.Logger) MiddleWareHandler {
	return &middlewareHandler{log: log}
}

// Recover serializes AppError panics raised while binding requests.
func (m *middlewareHandler) Recover(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			var appErr errors.AppError
			switch v := rec.(type) {
			case errors.AppError:
				appErr = v
			case error:
				appErr = errors.NewFatalError(v)
			default:
				appErr = errors.NewUnknownError(v)
			}
			if appErr.Code >= http.StatusInternalServerError {
				m.log.Error("request panicked", zap.String("path", r.URL.Path), zap.String("error", appErr.Internal))
			}
			appErr.Serialize(w)
		}()
		h(w, r)
	}
}

// ForwardClientIP makes the caller's IP available to swap provider requests.
func (m *middlewareHandler) ForwardClientIP(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := sideshift.ContextWithUserIP(r.Context(), utils.ClientIP(r))
		h(w, r.WithContext(ctx))
	}
}

func (m *middlewareHandler) Attach(h http.HandlerFunc) http.HandlerFunc {
	return utils.Middleware(h, m.Recover, m.ForwardClientIP)
}
