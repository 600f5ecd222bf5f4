package logs

import (
	"context"
	"log/slog"
)

type programKeyType struct{}

var ProgramKey programKeyType

// WithProgram tags the context with the name of the program being run.
// Records logged with that context carry the name.
func WithProgram(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ProgramKey, name)
}

type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v := ctx.Value(ProgramKey); v != nil {
		record.Add("program", v.(string))
	}
	return h.Handler.Handle(ctx, record)
}
