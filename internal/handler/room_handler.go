package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"collabboard/internal/app/board"
	"collabboard/internal/app/db"
	"collabboard/internal/pkg/auth/jwt"
	"collabboard/internal/pkg/errs"
	"collabboard/internal/pkg/logx"
	"collabboard/internal/pkg/randx"
	"collabboard/internal/pkg/req"
	"collabboard/internal/pkg/resp"
)

type CreateRoomInput struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// HandleCreateRoom records a room ahead of time so the creator holds the owner
// role durably. Rooms can also come into being on first WebSocket join; this
// endpoint exists for clients that want the metadata pinned before anyone
// connects.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateRoomInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !randx.IsValidRoomName(input.Name) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNameInvalid))
			return
		}

		kind := board.KindCollaborative
		if input.Kind != "" {
			parsed, ok := board.ParseRoomKind(input.Kind)
			if !ok {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomKindInvalid))
				return
			}
			kind = parsed
		}

		record, err := deps.DB.CreateRoom(r.Context(), input.Name, kind, identity.Username)
		if err != nil {
			if db.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomExists))
				return
			}

			logx.Error(err, "failed to create room", "room", input.Name)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("room created", "room", record.Name, "kind", string(record.Kind), "creator", record.Creator)

		resp.RespondSuccess(w, r, map[string]any{
			"name":      record.Name,
			"kind":      string(record.Kind),
			"creator":   record.Creator,
			"createdAt": record.CreatedAt,
		})
	}
}

// HandleRoomInfo returns a room's durable metadata combined with its live
// roster, if anyone is currently connected.
func HandleRoomInfo(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !randx.IsValidRoomName(name) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNameInvalid))
			return
		}

		record, err := deps.DB.GetRoomByName(r.Context(), name)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}

			logx.Error(err, "failed to fetch room", "room", name)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		roster := []board.RosterEntry{}
		registry := deps.Coordinator.Registry()
		if room := registry.Lookup(name); room != nil {
			roster = registry.Roster(room)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"name":         record.Name,
			"kind":         string(record.Kind),
			"creator":      record.Creator,
			"createdAt":    record.CreatedAt,
			"participants": roster,
		})
	}
}
