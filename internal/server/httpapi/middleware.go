package httpapi

import (
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/newwork/core-api/internal/server/auth"
)

const principalKey = "principal"

// Recovery turns handler panics into 500s without killing the server.
func (s *Service) Recovery(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.log.Error(ctx, "recovered from panic",
					"panic", rvr,
					"method", string(ctx.Method()),
					"path", string(ctx.Path()),
					"stack", string(debug.Stack()),
				)
				ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
			}
		}()

		next(ctx)
	}
}

// RequestLogging records one line per completed request.
func (s *Service) RequestLogging(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		requestID, ok := ctx.UserValue("request-id").(string)
		if !ok {
			requestID = uuid.New().String()
			ctx.SetUserValue("request-id", requestID)
		}

		begin := time.Now()
		next(ctx)

		s.log.Info(ctx, "completed request",
			"request_id", requestID,
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"latency", time.Since(begin),
		)
	}
}

func CORS(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, If-Match")
		ctx.Response.Header.Set("Access-Control-Expose-Headers", "ETag, Location")

		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		next(ctx)
	}
}

// Authenticate extracts the bearer token and attaches the verified principal
// to the request. An invalid or expired token leaves the request anonymous;
// the access guards downstream decide whether that matters.
func (s *Service) Authenticate(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		header := string(ctx.Request.Header.Peek("Authorization"))
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if p, err := s.tokens.Verify(strings.TrimSpace(token)); err == nil {
				ctx.SetUserValue(principalKey, p)
			}
		}
		next(ctx)
	}
}

// principal returns the authenticated caller, or nil for anonymous requests.
func principal(ctx *fasthttp.RequestCtx) *auth.Principal {
	p, _ := ctx.UserValue(principalKey).(*auth.Principal)
	return p
}
