// Package record contains the HTTP handlers for the record resource —
// the four wire operations the browser client drives.
//
// Each exported function is a factory: it is called once at route
// registration, captures the storage dependency in a closure, and
// returns the handler invoked on every request. The handlers hold no
// state across requests; the store is the only thing they share.
//
// Store failures are logged with full detail and answered with a
// generic message — the underlying driver error never reaches the
// caller.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/revathy-s/student-records-api/internal/storage"
	"github.com/revathy-s/student-records-api/internal/types"
	"github.com/revathy-s/student-records-api/internal/utils/response"
)

// createResponse is the success body for POST /users, shaped the way
// the browser client expects it.
type createResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// New handles POST /users: creates a record from the JSON body.
//
// All five fields are required and checked before the store is touched;
// a missing field is a 400 with a per-field message. Success is a 200
// with the store-assigned id.
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a record")

		var rec types.Record
		err := json.NewDecoder(r.Body).Decode(&rec)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validation happens entirely before any store access: a create
		// rejected here performs no mutation at all.
		if err := validator.New().Struct(rec); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		id, err := store.CreateRecord(r.Context(), rec)
		if err != nil {
			slog.Error("error inserting record", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to insert user")))
			return
		}

		slog.Info("record created", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, createResponse{
			Message: "User added successfully",
			UserID:  id,
		})
	}
}

// GetList handles GET /users: returns every record as a JSON array.
// An empty table yields [] rather than null.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all records")

		records, err := store.ListRecords(r.Context())
		if err != nil {
			slog.Error("error fetching records", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to fetch users")))
			return
		}

		response.WriteJSON(w, http.StatusOK, records)
	}
}

// Update handles PATCH /users/{id}: full-record replacement of all five
// non-id fields. Partial updates are not supported at the protocol
// level — the client always sends the complete attribute set.
//
// A zero-affected-rows result from the store is surfaced as a 404, not
// masked as success, so callers can tell the id matched nothing.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a record", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		var rec types.Record
		err = json.NewDecoder(r.Body).Decode(&rec)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(rec); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		affected, err := store.UpdateRecord(r.Context(), intID, rec)
		if err != nil {
			slog.Error("error updating record",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to update user")))
			return
		}
		if affected == 0 {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(fmt.Errorf("no user found with id: %d", intID)))
			return
		}

		slog.Info("record updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, messageResponse{
			Message: "User updated successfully",
		})
	}
}

// Delete handles DELETE /users/{id}. Deletion is idempotent: removing
// an id that matches nothing is still reported as success, so calling
// it twice never fails the caller.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a record", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		affected, err := store.DeleteRecord(r.Context(), intID)
		if err != nil {
			slog.Error("error deleting record",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to delete user")))
			return
		}
		if affected == 0 {
			slog.Info("delete matched no record", slog.String("id", id))
		}

		response.WriteJSON(w, http.StatusOK, messageResponse{
			Message: "User deleted successfully",
		})
	}
}
