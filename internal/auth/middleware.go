package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/guidepost-hq/guidepost/internal/shared"
)

// ActorResolver places the authenticated actor into the request context
// as an explicit value. Decision code never reads ambient state: the
// HTTP layer pulls the actor back out and passes it as an argument.
type ActorResolver struct {
	Service *Service
	Logger  *slog.Logger
}

// Resolve loads the session's account and attaches the actor snapshot.
// Requests without a valid session pass through unauthenticated.
func (ar ActorResolver) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		raw := strings.TrimSpace(sess.User())
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			if ar.Logger != nil {
				ar.Logger.Error("parse session user id", slog.String("value", raw))
			}
			next.ServeHTTP(w, r)
			return
		}
		user, err := ar.Service.ResolveUser(r.Context(), id)
		if err != nil {
			// Stale session for a deleted account; continue unauthenticated.
			next.ServeHTTP(w, r)
			return
		}
		ctx := shared.ContextWithActor(r.Context(), user.Actor())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireActor rejects requests that did not resolve an actor.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.ActorFromContext(r.Context()); !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
