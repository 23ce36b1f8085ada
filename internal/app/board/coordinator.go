/*
Package board contains the real-time coordination core of the whiteboard server.

This file defines the Coordinator, the single dispatcher that orchestrates
join/leave/disconnect transitions and fans content events out to room peers.
All registry and session mutations happen on its one goroutine, so every event
runs to completion before the next is processed and no event-ordering races are
possible. The only latent step of a join (role resolution against the
membership store) runs on the connection's own goroutine before the join
command enters the loop.
*/
package board

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"collabboard/internal/app/user"
	"collabboard/internal/pkg/logx"
	"collabboard/internal/pkg/metrics"
)

const (
	commandChannelBuffer = 1024

	// maxChatBytes bounds a single chat message body.
	maxChatBytes = 4096

	// archiveTimeout bounds best-effort snapshot persistence calls.
	archiveTimeout = 10 * time.Second
)

// joinRequest is a fully resolved join command: role lookup and archived
// snapshot prefetch already happened on the connection goroutine.
type joinRequest struct {
	client     *Client
	room       string
	identity   user.User
	resolution RoleResolution
	archived   string
}

// inboundEvent is one content event received from a connection.
type inboundEvent struct {
	client *Client
	env    Envelope
}

// command is one unit of dispatcher work; exactly one field is set. Joins,
// disconnects, and content events share a single queue, so everything a
// connection submits is processed in submission order.
type command struct {
	join  *joinRequest
	leave *Client
	event *inboundEvent
}

// Coordinator owns the live coordination state. It is created once at process
// start, runs until Shutdown, and is the only writer of rooms and sessions.
type Coordinator struct {
	registry *Registry
	members  MembershipStore
	archive  SnapshotArchive // nil disables snapshot persistence

	commands chan command

	stop chan struct{}
	done chan struct{}

	logger zerolog.Logger
}

// NewCoordinator wires the coordinator to its registry and external stores.
func NewCoordinator(registry *Registry, members MembershipStore, archive SnapshotArchive) *Coordinator {
	return &Coordinator{
		registry: registry,
		members:  members,
		archive:  archive,
		commands: make(chan command, commandChannelBuffer),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logx.Component("Coordinator"),
	}
}

// Run processes commands until Shutdown. It must run on exactly one goroutine.
func (c *Coordinator) Run() {
	defer close(c.done)

	c.logger.Info().Msg("Coordinator loop started.")

	for {
		select {
		case cmd := <-c.commands:
			switch {
			case cmd.join != nil:
				c.handleJoin(*cmd.join)
			case cmd.leave != nil:
				c.leaveRoom(cmd.leave)
			case cmd.event != nil:
				c.handleEvent(*cmd.event)
			}

		case <-c.stop:
			c.logger.Info().Msg("Coordinator loop stopped.")
			return
		}
	}
}

// Shutdown stops the dispatcher and waits for the loop to exit.
func (c *Coordinator) Shutdown() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
}

// Registry exposes the room directory for read-only consumers (handlers).
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Join resolves the role for (room, identity) against the membership store and
// submits the join command. It runs on the connection's goroutine, so the
// store round-trip never blocks the dispatcher, and role resolution completes
// (or fails) before any membership is created. Errors are surfaced to the
// caller, which reports them as a join-error event.
func (c *Coordinator) Join(ctx context.Context, client *Client, p JoinPayload) error {
	// The connect-time identity is immutable; the session's User is loop
	// state and must not be read here.
	identity := client.identity
	if identity.UserType != "registered" && p.Username != "" {
		// guests may pick a display name per join
		identity.Username = p.Username
	}

	res, err := c.members.ResolveRole(ctx, p.Room, identity.Username)
	if err != nil {
		return err
	}

	// If the room is not live yet, try the archive for catch-up material.
	// Best effort: a miss or failure just means the joiner starts blank.
	var archived string
	if c.archive != nil && c.registry.Lookup(p.Room) == nil {
		archived, err = c.archive.GetSnapshot(ctx, p.Room)
		if err != nil {
			c.logger.Warn().Err(err).Str("room", p.Room).Msg("Snapshot archive fetch failed.")
			archived = ""
		}
	}

	req := joinRequest{client: client, room: p.Room, identity: identity, resolution: res, archived: archived}
	select {
	case c.commands <- command{join: &req}:
		return nil
	case <-c.stop:
		return context.Canceled
	}
}

// Submit queues a content event for dispatch.
func (c *Coordinator) Submit(client *Client, env Envelope) {
	select {
	case c.commands <- command{event: &inboundEvent{client: client, env: env}}:
	case <-c.stop:
	}
}

// Unregister queues a disconnect. Safe to call for connections that never
// joined a room; the leave is then a no-op. Blocks when the queue is
// momentarily full rather than dropping: a lost disconnect would leak a ghost
// participant and keep its room alive forever.
func (c *Coordinator) Unregister(client *Client) {
	select {
	case c.commands <- command{leave: client}:
	case <-c.stop:
	}
}

// handleJoin performs the Join transition: implicit leave of any bound room,
// get-or-create the target, bind, then (1) ack the joiner with roster and
// catch-up data and (2) notify the rest of the room.
func (c *Coordinator) handleJoin(req joinRequest) {
	metrics.EventsTotal.WithLabelValues(string(EventJoinRoom)).Inc()

	client := req.client
	sess := client.session

	c.leaveRoom(client)

	room, created := c.registry.EnsureRoom(req.room, req.resolution.Kind)

	role := req.resolution.Role
	if created && !req.resolution.KnownRoom && !req.resolution.Recorded {
		// Nobody has ever owned this board: the founder does.
		role = RoleOwner
	}

	if created && req.archived != "" {
		room.Canvas().SetSnapshot(req.archived)
	}

	sess.User = req.identity
	sess.bindTo(room, role)
	c.registry.AddParticipant(room, client)

	roster := c.registry.Roster(room)

	// Ack before anything else can reach this connection: the roster, the
	// snapshot, and the replay must arrive ahead of any peer event, which the
	// loop's serialization guarantees.
	client.sendEvent(EventRoomJoined, room.Name, RoomJoinedPayload{
		Room:         room.Name,
		Kind:         room.Kind,
		Role:         role,
		ActiveUsers:  len(roster),
		Participants: roster,
		Snapshot:     room.Canvas().Snapshot(),
	})

	if history := room.Canvas().History(); len(history) > 0 {
		client.sendEvent(EventDrawingHistory, room.Name, HistoryPayload{Events: history})
	}

	c.fanout(room, sess.ConnID, EventUserJoined, UserEventPayload{
		Username:     sess.User.Username,
		ActiveUsers:  len(roster),
		Participants: roster,
	})

	c.updateGauges()
}

// leaveRoom vacates the client's bound room, removing the room itself when it
// empties. Idempotent: unbound clients are a no-op.
func (c *Coordinator) leaveRoom(client *Client) {
	sess := client.session
	room := sess.Room()
	if room == nil {
		return
	}

	removed, roomDeleted := c.registry.RemoveParticipant(room, sess.ConnID)
	sess.unbind()
	if !removed {
		return
	}

	if roomDeleted {
		// The live state dies with the room; archive the snapshot so a
		// reborn room can still catch joiners up.
		c.archiveSnapshot(room.Name, room.Canvas().Snapshot())
	} else {
		roster := c.registry.Roster(room)
		c.fanout(room, "", EventUserLeft, UserEventPayload{
			Username:     sess.User.Username,
			ActiveUsers:  len(roster),
			Participants: roster,
		})
	}

	c.updateGauges()
}

// handleEvent gates and routes one content event. Events from connections with
// no bound room, or naming a room other than the sender's, are client bugs and
// are dropped without effect.
func (c *Coordinator) handleEvent(ev inboundEvent) {
	sess := ev.client.session
	room := sess.Room()
	if room == nil {
		c.logger.Debug().
			Str("conn_id", sess.ConnID).
			Str("event", string(ev.env.Type)).
			Msg("Dropping content event from unjoined connection.")
		return
	}
	if ev.env.Room != room.Name {
		c.logger.Debug().
			Str("conn_id", sess.ConnID).
			Str("bound_room", room.Name).
			Str("event_room", ev.env.Room).
			Msg("Dropping content event for mismatched room.")
		return
	}

	metrics.EventsTotal.WithLabelValues(string(ev.env.Type)).Inc()

	switch ev.env.Type {
	case EventDrawing:
		c.handleDrawing(ev.client, room, ev.env.Payload)
	case EventCanvasClear:
		c.handleClear(ev.client, room)
	case EventCursorMove:
		c.handleCursor(ev.client, room, ev.env.Payload)
	case EventChatMessage:
		c.handleChat(ev.client, room, ev.env.Payload)
	case EventSaveCanvasState:
		c.handleSaveCanvas(ev.client, room, ev.env.Payload)
	case EventUpdatePermission:
		c.handleUpdatePermission(ev.client, room, ev.env.Payload)
	default:
		c.logger.Warn().
			Str("conn_id", sess.ConnID).
			Str("event", string(ev.env.Type)).
			Msg("Client sent unsupported event type.")
	}
}

// allow consults the permission table and, on refusal, notifies only the
// offending connection.
func (c *Coordinator) allow(client *Client, action Action) bool {
	if CanPerform(client.session.Role(), action) {
		return true
	}

	metrics.PermissionDeniedTotal.WithLabelValues(string(action)).Inc()

	room := ""
	if r := client.session.Room(); r != nil {
		room = r.Name
	}
	client.sendEvent(EventPermissionDenied, room, PermissionDeniedPayload{
		Action:  action,
		Message: "You do not have permission to perform this action.",
	})
	return false
}

func (c *Coordinator) handleDrawing(client *Client, room *Room, raw []byte) {
	if !c.allow(client, ActionDraw) {
		return
	}

	var p DrawingPayload
	if err := unmarshalPayload(raw, &p); err != nil || !p.Valid() {
		c.logger.Debug().Str("conn_id", client.session.ConnID).Msg("Dropping malformed drawing payload.")
		return
	}

	stamped := DrawingEvent{
		DrawingPayload: p,
		Username:       client.session.User.Username,
		ConnID:         client.session.ConnID,
		Timestamp:      time.Now().UnixMilli(),
	}

	if lost := room.Canvas().Append(stamped); lost {
		c.logger.Warn().Str("room", room.Name).Msg("Op log trimmed with no snapshot cached; oldest history lost.")
	}

	c.fanout(room, client.session.ConnID, EventDrawing, stamped)
	c.maybeRequestSnapshot(client, room)
}

func (c *Coordinator) handleClear(client *Client, room *Room) {
	if !c.allow(client, ActionClear) {
		return
	}

	room.Canvas().Clear()
	c.fanout(room, client.session.ConnID, EventCanvasClear, ClearEvent{
		ClearedBy: client.session.User.Username,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (c *Coordinator) handleCursor(client *Client, room *Room, raw []byte) {
	if !c.allow(client, ActionCursorMove) {
		return
	}

	var p CursorPayload
	if err := unmarshalPayload(raw, &p); err != nil {
		return
	}

	c.fanout(room, client.session.ConnID, EventCursorMove, CursorEvent{
		CursorPayload: p,
		Username:      client.session.User.Username,
		ConnID:        client.session.ConnID,
	})
}

func (c *Coordinator) handleChat(client *Client, room *Room, raw []byte) {
	if !c.allow(client, ActionChat) {
		return
	}

	var p ChatPayload
	if err := unmarshalPayload(raw, &p); err != nil || p.Message == "" || len(p.Message) > maxChatBytes {
		return
	}

	// Chat echoes to the sender too: with the server as the single ordering
	// authority, a multi-device sender sees its own message exactly once.
	c.fanout(room, "", EventChatMessage, ChatMessage{
		Message:   p.Message,
		Username:  client.session.User.Username,
		ConnID:    client.session.ConnID,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (c *Coordinator) handleSaveCanvas(client *Client, room *Room, raw []byte) {
	// A snapshot replaces the authoritative canvas, which is a canvas
	// mutation: only participants who may draw can supply one.
	if !c.allow(client, ActionDraw) {
		return
	}

	var p SnapshotPayload
	if err := unmarshalPayload(raw, &p); err != nil || p.Snapshot == "" {
		return
	}

	room.Canvas().SetSnapshot(p.Snapshot)
	c.archiveSnapshot(room.Name, p.Snapshot)

	// Peers can replace their accumulated replay state with the
	// authoritative rendering.
	c.fanout(room, client.session.ConnID, EventCanvasState, SnapshotPayload{Snapshot: p.Snapshot})

	c.logger.Info().
		Str("room", room.Name).
		Str("supplied_by", client.session.User.Username).
		Int("blob_bytes", len(p.Snapshot)).
		Msg("Canvas snapshot cached.")
}

func (c *Coordinator) handleUpdatePermission(client *Client, room *Room, raw []byte) {
	if !c.allow(client, ActionManageRoles) {
		return
	}

	var p UpdatePermissionPayload
	if err := unmarshalPayload(raw, &p); err != nil {
		return
	}

	newRole, ok := ParseRole(p.NewRole)
	if !ok {
		return
	}

	target := c.registry.FindByUsername(room, p.TargetUsername)
	if target == nil {
		// Target has left or never joined: no-op per the lifecycle contract.
		return
	}

	// The write goes through the registry lock so a concurrent roster read
	// from an HTTP handler never observes it half-applied.
	if !c.registry.SetRole(room, target.session.ConnID, newRole) {
		return
	}

	// Persist the record best-effort; the live role is already authoritative
	// for this room's lifetime.
	go func(roomName, username string, role Role) {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := c.members.RecordRole(ctx, roomName, username, role); err != nil {
			c.logger.Error().Err(err).
				Str("room", roomName).
				Str("username", username).
				Msg("Failed to persist role change.")
		}
	}(room.Name, p.TargetUsername, newRole)

	target.sendEvent(EventPermissionUpdated, room.Name, PermissionUpdatedPayload{
		Username:  p.TargetUsername,
		Role:      newRole,
		UpdatedBy: client.session.User.Username,
	})

	c.fanout(room, "", EventPermissionChanged, PermissionChangedPayload{
		Username:     p.TargetUsername,
		NewRole:      newRole,
		UpdatedBy:    client.session.User.Username,
		Participants: c.registry.Roster(room),
	})

	c.logger.Info().
		Str("room", room.Name).
		Str("target", p.TargetUsername).
		Str("new_role", string(newRole)).
		Str("updated_by", client.session.User.Username).
		Msg("Participant role updated.")
}

// maybeRequestSnapshot asks the sender (who just drew and therefore holds the
// complete rendered state) to upload a snapshot once the op log outgrows what
// replay alone can safely cover. The server has no render capability of its
// own, so any participant doubles as the renderer.
func (c *Coordinator) maybeRequestSnapshot(client *Client, room *Room) {
	if !room.Canvas().NeedsSnapshot() {
		return
	}
	room.Canvas().MarkSnapshotRequested()
	client.sendEvent(EventRequestCanvasState, room.Name, nil)
}

// fanout delivers one event to every participant of a room except the given
// connection; pass an empty connID to include everyone.
func (c *Coordinator) fanout(room *Room, exceptConnID string, eventType EventType, payload any) {
	data, err := EncodeEvent(eventType, room.Name, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event", string(eventType)).Msg("Failed to encode event for fan-out.")
		return
	}

	for _, peer := range c.registry.Peers(room, exceptConnID) {
		peer.enqueue(data)
	}
}

// archiveSnapshot persists a snapshot blob off-loop, best effort.
func (c *Coordinator) archiveSnapshot(roomName, blob string) {
	if c.archive == nil || blob == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := c.archive.PutSnapshot(ctx, roomName, blob); err != nil {
			c.logger.Warn().Err(err).Str("room", roomName).Msg("Snapshot archive write failed.")
		}
	}()
}

func (c *Coordinator) updateGauges() {
	rooms, participants := c.registry.Counts()
	metrics.ActiveRooms.Set(float64(rooms))
	metrics.ActiveParticipants.Set(float64(participants))
}
