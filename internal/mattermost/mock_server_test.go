package mattermost

import (
	"net/http"
	"net/http/httptest"
)

// mockServer creates a test HTTP server that mocks Mattermost REST v4 responses
type mockServer struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
}

func newMockServer() *mockServer {
	m := &mockServer{
		handlers: make(map[string]http.HandlerFunc),
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Try exact match first
		if handler, ok := m.handlers[path]; ok {
			handler(w, r)
			return
		}

		// Not found
		http.Error(w, "mock not found: "+path, http.StatusNotFound)
	}))

	return m
}

func (m *mockServer) close() {
	m.server.Close()
}

func (m *mockServer) addHandler(path string, handler http.HandlerFunc) {
	m.handlers[path] = handler
}
