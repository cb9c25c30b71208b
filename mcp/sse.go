package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foomo/recorddescription-mcp/service"
	"github.com/foomo/recorddescription-mcp/service/vo"
)

const (
	EventConnected          = "connected"
	EventKeepalive          = "keepalive"
	EventDescribeStart      = "describe_start"
	EventDescribeError      = "describe_error"
	EventDescribeComplete   = "describe_complete"
	EventDescriptionCreated = "description_created"
)

var errClientClosed = errors.New("client closed")

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func newEvent(name string, data any) SSEEvent {
	return SSEEvent{
		ID:        uuid.NewString(),
		Event:     name,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	Writer   http.ResponseWriter
	Flusher  http.Flusher
	Done     chan struct{}
	LastSeen time.Time

	mu     sync.Mutex
	closed bool
}

// MCPSSEServer streams descriptions to SSE clients
type MCPSSEServer struct {
	logger       *zap.Logger
	service      service.Service
	config       *SSEServerConfig
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	done         chan struct{}
	closeOnce    sync.Once
	eventsSent   atomic.Int64
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
	ClientTimeout     time.Duration
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
		ClientTimeout:     60 * time.Second,
	}
}

// NewMCPSSEServer creates a new SSE server and starts its broadcast loop.
// Close stops the loop and disconnects all clients.
func NewMCPSSEServer(logger *zap.Logger, serviceInstance service.Service, config *SSEServerConfig) *MCPSSEServer {
	if config == nil {
		config = DefaultSSEServerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sseServer := &MCPSSEServer{
		logger:    logger,
		service:   serviceInstance,
		config:    config,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, config.BufferSize),
		done:      make(chan struct{}),
	}

	go sseServer.broadcastLoop()

	return sseServer
}

// Close stops broadcasting and disconnects all clients
func (s *MCPSSEServer) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.clientsMutex.RLock()
		ids := make([]string, 0, len(s.clients))
		for id := range s.clients {
			ids = append(ids, id)
		}
		s.clientsMutex.RUnlock()
		for _, id := range ids {
			s.removeClient(id)
		}
	})
}

func (s *MCPSSEServer) broadcastLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.broadcast:
			for _, client := range s.snapshot() {
				if err := s.sendEventToClient(client, event); err != nil {
					if !errors.Is(err, errClientClosed) {
						s.logger.Error("failed to send event to client", zap.String("clientID", client.ID), zap.Error(err))
					}
					s.removeClient(client.ID)
				}
			}
		}
	}
}

func (s *MCPSSEServer) snapshot() []*SSEClient {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	clients := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	return clients
}

// sendEventToClient sends an SSE event to a specific client
func (s *MCPSSEServer) sendEventToClient(client *SSEClient, event SSEEvent) error {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.closed {
		return errClientClosed
	}
	if err := writeEvent(client.Writer, client.Flusher, event); err != nil {
		return err
	}
	client.LastSeen = time.Now()
	s.eventsSent.Add(1)
	return nil
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, eventJSON); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	flusher.Flush()
	return nil
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")
}

// addClient adds a new SSE client
func (s *MCPSSEServer) addClient(w http.ResponseWriter) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	client := &SSEClient{
		ID:       uuid.NewString(),
		Writer:   w,
		Flusher:  flusher,
		Done:     make(chan struct{}),
		LastSeen: time.Now(),
	}

	// registered with the write lock held so the connect event is sent first
	client.mu.Lock()
	defer client.mu.Unlock()
	s.clientsMutex.Lock()
	s.clients[client.ID] = client
	s.clientsMutex.Unlock()

	connectEvent := newEvent(EventConnected, map[string]string{
		"clientID": client.ID,
		"message":  "Connected to record description SSE server",
	})
	if err := writeEvent(client.Writer, client.Flusher, connectEvent); err != nil {
		s.logger.Error("failed to send connection event", zap.String("clientID", client.ID), zap.Error(err))
		s.clientsMutex.Lock()
		delete(s.clients, client.ID)
		s.clientsMutex.Unlock()
		return nil
	}
	s.eventsSent.Add(1)

	s.logger.Info("SSE client connected", zap.String("clientID", client.ID))
	return client
}

// removeClient removes a client from the server
func (s *MCPSSEServer) removeClient(clientID string) {
	s.clientsMutex.Lock()
	client, exists := s.clients[clientID]
	delete(s.clients, clientID)
	s.clientsMutex.Unlock()
	if !exists {
		return
	}

	// waits for a write in flight
	client.mu.Lock()
	client.closed = true
	close(client.Done)
	client.mu.Unlock()
	s.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
}

// broadcastEvent queues an event for all connected clients
func (s *MCPSSEServer) broadcastEvent(event SSEEvent) {
	select {
	case <-s.done:
	case s.broadcast <- event:
	default:
		s.logger.Warn("broadcast channel full, dropping event", zap.String("eventID", event.ID))
	}
}

// DescriptionCreated broadcasts a description to all connected clients
func (s *MCPSSEServer) DescriptionCreated(d *vo.RecordDescription) {
	s.broadcastEvent(newEvent(EventDescriptionCreated, d))
}

// HandleSSE keeps a client connected until it goes away or the server closes
func (s *MCPSSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)

	client := s.addClient(w)
	if client == nil {
		return
	}

	ticker := time.NewTicker(s.config.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.removeClient(client.ID)
			return
		case <-client.Done:
			return
		case <-ticker.C:
			keepalive := newEvent(EventKeepalive, map[string]any{"timestamp": time.Now()})
			if err := s.sendEventToClient(client, keepalive); err != nil {
				s.removeClient(client.ID)
				return
			}
		}
	}
}

type describeSSERequest struct {
	ID    string `json:"id"`
	Level string `json:"level"`
}

// HandleDescribeSSE describes a single record and streams the progress
func (s *MCPSSEServer) HandleDescribeSSE(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Description service not available", http.StatusServiceUnavailable)
		return
	}

	var request describeSSERequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if request.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	level, err := parseLevel(request.Level)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)

	send := func(event SSEEvent) {
		if err := writeEvent(w, flusher, event); err != nil {
			s.logger.Warn("failed to stream describe event", zap.String("event", event.Event), zap.Error(err))
		}
	}

	send(newEvent(EventDescribeStart, map[string]string{"id": request.ID, "level": string(level)}))

	d, err := s.service.Describe(r.Context(), request.ID, level)
	if err != nil {
		send(newEvent(EventDescribeError, map[string]string{"error": err.Error()}))
		return
	}
	send(newEvent(EventDescriptionCreated, d))
	s.DescriptionCreated(d)
	send(newEvent(EventDescribeComplete, map[string]string{"status": "completed"}))
}

// ClientInfo describes a connected SSE client
type ClientInfo struct {
	ID        string    `json:"id"`
	LastSeen  time.Time `json:"lastSeen"`
	Connected bool      `json:"connected"`
}

// GetConnectedClients returns information about connected clients
func (s *MCPSSEServer) GetConnectedClients() []ClientInfo {
	clients := s.snapshot()
	infos := make([]ClientInfo, 0, len(clients))
	for _, client := range clients {
		client.mu.Lock()
		lastSeen := client.LastSeen
		client.mu.Unlock()
		infos = append(infos, ClientInfo{
			ID:        client.ID,
			LastSeen:  lastSeen,
			Connected: time.Since(lastSeen) < s.config.ClientTimeout,
		})
	}
	return infos
}

// Stats are the SSE server statistics
type Stats struct {
	ConnectedClients int    `json:"connectedClients"`
	BufferedEvents   int    `json:"bufferedEvents"`
	EventsSent       int64  `json:"eventsSent"`
	ServerVersion    string `json:"serverVersion"`
}

// GetStats returns server statistics
func (s *MCPSSEServer) GetStats() Stats {
	s.clientsMutex.RLock()
	connected := len(s.clients)
	s.clientsMutex.RUnlock()

	return Stats{
		ConnectedClients: connected,
		BufferedEvents:   len(s.broadcast),
		EventsSent:       s.eventsSent.Load(),
		ServerVersion:    Version,
	}
}
