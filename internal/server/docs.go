package server

// apiDoc is the OpenAPI document served at /api-docs.json.
type apiDoc struct {
	OpenAPI string                         `json:"openapi"`
	Info    apiInfo                        `json:"info"`
	Servers []apiServer                    `json:"servers"`
	Paths   map[string]map[string]apiRoute `json:"paths"`
}

type apiInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type apiServer struct {
	URL string `json:"url"`
}

type apiRoute struct {
	Summary   string                 `json:"summary"`
	Responses map[string]apiResponse `json:"responses"`
}

type apiResponse struct {
	Description string `json:"description"`
}

func newAPIDoc(baseURL, version string) apiDoc {
	ok := func(desc string) map[string]apiResponse {
		return map[string]apiResponse{"200": {Description: desc}}
	}
	return apiDoc{
		OpenAPI: "3.0.3",
		Info:    apiInfo{Title: "campus", Version: version},
		Servers: []apiServer{{URL: baseURL}},
		Paths: map[string]map[string]apiRoute{
			"/healthz": {"get": {Summary: "Liveness check", Responses: ok("Server is up")}},
			"/api/v1/status": {"get": {
				Summary: "Fresh data store status snapshot",
				Responses: map[string]apiResponse{
					"200": {Description: "Database reachable"},
					"503": {Description: "Database unreachable; the body still carries the snapshot"},
				},
			}},
			"/metrics": {"get": {Summary: "Prometheus metrics", Responses: ok("Metrics in text exposition format")}},
		},
	}
}
