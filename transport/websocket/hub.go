package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

var ErrClientNotFound = errors.New("client not found")

// Hub tracks connected clients and the room channels they are subscribed to.
type Hub struct {
	logger *slog.Logger

	mu       sync.RWMutex
	clients  map[string]*Client
	channels map[string]map[string]*Client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:   logger.With("component", "hub"),
		clients:  make(map[string]*Client),
		channels: make(map[string]map[string]*Client),
	}
}

func (that *Hub) Register(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client.id] = client
}

// Unregister drops the client from every channel and closes its outbound queue.
func (that *Hub) Unregister(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[client.id]; !ok {
		return
	}

	for name, members := range that.channels {
		delete(members, client.id)
		if len(members) == 0 {
			delete(that.channels, name)
		}
	}

	delete(that.clients, client.id)
	close(client.send)
}

func (that *Hub) Join(_ context.Context, clientID, channel string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	client, ok := that.clients[clientID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
	}

	members, ok := that.channels[channel]
	if !ok {
		members = make(map[string]*Client)
		that.channels[channel] = members
	}
	members[clientID] = client

	return nil
}

func (that *Hub) Leave(_ context.Context, clientID, channel string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[clientID]; !ok {
		return fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
	}

	members, ok := that.channels[channel]
	if !ok {
		return nil
	}

	delete(members, clientID)
	if len(members) == 0 {
		delete(that.channels, channel)
	}

	return nil
}

// Active lists the channels that have at least one subscriber, sorted.
func (that *Hub) Active() []string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	names := make([]string, 0, len(that.channels))
	for name := range that.channels {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Broadcast sends to the subscribers of one channel.
func (that *Hub) Broadcast(channel, action string, payload any) error {
	data, err := encode(action, payload)
	if err != nil {
		return err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, client := range that.channels[channel] {
		client.enqueue(data)
	}

	return nil
}

// BroadcastAll sends to every connected client.
func (that *Hub) BroadcastAll(action string, payload any) error {
	data, err := encode(action, payload)
	if err != nil {
		return err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, client := range that.clients {
		client.enqueue(data)
	}

	return nil
}

// SendTo delivers a message to a single client.
func (that *Hub) SendTo(clientID, action string, payload any) error {
	data, err := encode(action, payload)
	if err != nil {
		return err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	client, ok := that.clients[clientID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
	}

	client.enqueue(data)

	return nil
}
