package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/On-Jun9/dngprobe/internal/config"
	"github.com/On-Jun9/dngprobe/internal/log"
)

type Server struct {
	router  *mux.Router
	hub     *Hub
	version string
	history *config.UserDataManager
	logger  *log.Logger
}

func NewServer() *Server {
	s := &Server{
		router:  mux.NewRouter(),
		hub:     NewHub(),
		version: "unknown",
	}

	go s.hub.Run()

	s.setupRoutes()
	return s
}

func (s *Server) SetVersion(v string) {
	s.version = v
}

// SetHistory enables the inspection history. Without it /api/history
// answers 404 and inspections are not recorded.
func (s *Server) SetHistory(m *config.UserDataManager) {
	s.history = m
}

func (s *Server) SetLogger(l *log.Logger) {
	s.logger = l
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", s.handleVersion).Methods("GET")
	api.HandleFunc("/browse", s.handleBrowse).Methods("GET")
	api.HandleFunc("/inspect", s.handleInspect).Methods("GET")
	api.HandleFunc("/tags", s.handleTags).Methods("GET")
	api.HandleFunc("/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/ws", s.handleWebSocket)
}

func (s *Server) Start(addr string) error {
	fmt.Printf("Starting dngprobe inspector at http://%s\n", addr)
	return http.ListenAndServe(addr, s.router)
}
