package domain

import "context"

// SystemActor es el identificador estampado en data_creator/data_updater cuando
// la operación no viene de un usuario autenticado (seeds, tareas internas).
const SystemActor = "sistema"

type actorKey struct{}

// WithActor guarda en el contexto el identificador del usuario que ejecuta la
// operación. El middleware de autenticación lo fija con el email del token.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom devuelve el actor del contexto, o SystemActor si no hay ninguno.
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return SystemActor
}
