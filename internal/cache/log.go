package cache

import (
	"context"
	"log/slog"
)

func slogDebug(ctx context.Context, msg string, err error) {
	slog.Default().DebugContext(ctx, msg, "err", err)
}
