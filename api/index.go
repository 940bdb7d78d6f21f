package handler

import (
	"net/http"
	"sync"

	"hostly/config"
	"hostly/di"
	"hostly/shared/logger"
	transport "hostly/transport/http"
)

var (
	once   sync.Once
	server *transport.HTTP
)

// Handler is the serverless entrypoint. The dependency graph is built on the first request
// and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
