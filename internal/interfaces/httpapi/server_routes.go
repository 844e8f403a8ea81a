package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/insights", handler.ListMatchInsights)
	mux.HandleFunc("GET /v1/teams/search", handler.SearchTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/ws", handler.ServeWebsocket)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches/{matchID}/insights", RequireAuth(verifier, http.HandlerFunc(handler.GenerateMatchInsight)))
	mux.Handle("POST /v1/teams/{teamID}/follow", RequireAuth(verifier, http.HandlerFunc(handler.FollowTeam)))
	mux.Handle("DELETE /v1/teams/{teamID}/follow", RequireAuth(verifier, http.HandlerFunc(handler.UnfollowTeam)))
	mux.Handle("GET /v1/users/me/follows", RequireAuth(verifier, http.HandlerFunc(handler.ListMyFollows)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync/run", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSync)))
	mux.Handle("POST /v1/internal/sync/range", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncRange)))
	mux.Handle("GET /v1/internal/sync/status", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSyncStatus)))
	mux.Handle("PUT /v1/internal/sync/enabled", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SetSyncEnabled)))
}
