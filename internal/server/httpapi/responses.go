package httpapi

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/server/etag"
	"github.com/newwork/core-api/internal/server/httperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

type versionMismatchResponse struct {
	Error          string `json:"error"`
	CurrentVersion int    `json:"currentVersion"`
}

func writeJSON(ctx *fasthttp.RequestCtx, statusCode int, body any) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(statusCode)

	_ = json.NewEncoder(ctx).Encode(body)
}

// writeVersioned writes a JSON body plus the ETag of the entity version.
func writeVersioned(ctx *fasthttp.RequestCtx, statusCode int, version int, body any) {
	ctx.Response.Header.Set("ETag", etag.ToETag(version))
	writeJSON(ctx, statusCode, body)
}

// writeError is the single error translator. Typed errors carry their HTTP
// status; everything else is a 500 and gets logged upstream of here.
func (s *Service) writeError(ctx *fasthttp.RequestCtx, err error) {
	var vm *httperr.VersionMismatchError
	if errors.As(err, &vm) {
		writeJSON(ctx, fasthttp.StatusConflict, versionMismatchResponse{
			Error:          "version_mismatch",
			CurrentVersion: vm.Current,
		})
		return
	}

	var se *httperr.StatusError
	if errors.As(err, &se) {
		writeJSON(ctx, se.Status, errorResponse{Error: se.Error()})
		return
	}

	// Upstream failures pass through status and body unchanged.
	var ue *httperr.UpstreamError
	if errors.As(err, &ue) {
		s.log.Warn(ctx, "upstream error passed through", "status", ue.Status, "body", ue.Body)
		ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
		ctx.SetStatusCode(ue.Status)
		ctx.SetBodyString(ue.Body)
		return
	}

	if errors.Is(err, common.ErrorNotFound) {
		writeJSON(ctx, fasthttp.StatusNotFound, errorResponse{Error: "not_found"})
		return
	}

	s.log.Error(ctx, "request failed", "err", err)
	writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{Error: "internal"})
}

// readJSON decodes the request body; malformed JSON is a 400 invalid_request.
func readJSON(ctx *fasthttp.RequestCtx, dst any) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		return httperr.BadRequest("invalid_request")
	}
	return nil
}

// pathUUID parses a route parameter as a UUID; anything else is a 400.
func pathUUID(ctx *fasthttp.RequestCtx, name string) (uuid.UUID, error) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, httperr.BadRequest("invalid_request")
	}
	return id, nil
}

func ifMatch(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Request.Header.Peek("If-Match"))
}
