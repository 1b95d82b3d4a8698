package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Sessions: deps.Sessions}
	videos := VideoHandler{
		Catalog:  deps.Catalog,
		Sessions: deps.Sessions,
		Media:    deps.Media,
		Limiter:  deps.UploadLimiter,
	}
	profile := ProfileHandler{Sessions: deps.Sessions, Media: deps.Media}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/auth/login", auth.Login)
	mux.HandleFunc("/api/v1/auth/logout", auth.Logout)
	mux.HandleFunc("/api/v1/auth/me", auth.Me)
	mux.HandleFunc("/api/v1/videos", videos.Handle)
	mux.HandleFunc("/api/v1/videos/view", videos.View)
	mux.HandleFunc("/api/v1/channel/stats", videos.Stats)
	mux.HandleFunc("/api/v1/profile", profile.Update)
}
