package handlers

import (
	"encoding/json"
	"strings"

	xhttp "github.com/nimasrn/transaction-dashboard/pkg/http"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode response", "error", err, "path", string(ctx.Path()))
		writeText(ctx, xhttp.StatusInternalServerError, xhttp.StatusText(xhttp.StatusInternalServerError))
		return
	}
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeMessage(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, messageResponse{Message: msg})
}

func writeText(ctx *xhttp.RequestCtx, status int, text string) {
	ctx.Response.Header.Set("Content-Type", "text/plain; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyString(text)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func pathParam(ctx *xhttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return strings.TrimSpace(v)
}
