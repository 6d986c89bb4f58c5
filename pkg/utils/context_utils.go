// Файл: pkg/utils/context_utils.go

package utils

import (
	"context"

	"records-system/pkg/contextkeys"
	apperrors "records-system/pkg/errors"
	"records-system/pkg/types"
)

// GetActorFromCtx достаёт актора, положенного в контекст auth-middleware.
func GetActorFromCtx(ctx context.Context) (types.Actor, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(types.Actor)
	if !ok || actor.ID == 0 {
		return types.Actor{}, apperrors.ErrActorNotFoundInContext
	}
	return actor, nil
}

func ContextWithActor(ctx context.Context, actor types.Actor) context.Context {
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}
