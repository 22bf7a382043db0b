package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/photostudio/internal/catalog"
	"github.com/kalambet/photostudio/internal/storage"
	"github.com/kalambet/photostudio/internal/studio"
)

// Image payloads inline in request bodies get large quickly; the original
// service accepted up to 50MB.
const maxRequestBodySize = 50 << 20

// PortraitGenerator abstracts the generation client for the HTTP layer.
type PortraitGenerator interface {
	Generate(ctx context.Context, req studio.Request) (*studio.Portraits, error)
}

// Deps carries the handler's collaborators.
type Deps struct {
	Store     *storage.Store
	Generator PortraitGenerator
	Catalog   *catalog.Catalog
}

// NewHandler builds the HTTP API router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger)

	r.Get("/health", handleHealth)
	r.Get("/api/dealers", handleDealers(deps))
	r.Get("/api/history", handleListHistory(deps))
	r.Post("/api/history", handleCreateHistory(deps))
	r.Delete("/api/history/{id}", handleDeleteHistory(deps))
	r.Post("/api/generate", handleGenerate(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleDealers(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(deps.Catalog.All())
	}
}

func handleListHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := deps.Store.ListHistory()
		if err != nil {
			slog.Error("listing history failed", "error", err)
			httpError(w, http.StatusInternalServerError, "Failed to fetch history")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

// createHistoryRequest mirrors the history table columns. Fields are passed
// through to the store without validation; empty values are stored as-is.
type createHistoryRequest struct {
	Name           string `json:"name"`
	Dealer         string `json:"dealer"`
	Showroom       string `json:"showroom"`
	ImageFront     string `json:"image_front"`
	ImageSide      string `json:"image_side"`
	ImageFull      string `json:"image_full"`
	BackgroundType string `json:"background_type"`
}

func handleCreateHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req createHistoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		id, err := deps.Store.SaveHistory(storage.Record{
			Name:           req.Name,
			Dealer:         req.Dealer,
			Showroom:       req.Showroom,
			ImageFront:     req.ImageFront,
			ImageSide:      req.ImageSide,
			ImageFull:      req.ImageFull,
			BackgroundType: req.BackgroundType,
		})
		if err != nil {
			slog.Error("saving history failed", "error", err)
			httpError(w, http.StatusInternalServerError, "Failed to save history")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{"id": id})
	}
}

func handleDeleteHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			// Matches the original behavior: a non-numeric id matches no row.
			httpError(w, http.StatusNotFound, "Item not found")
			return
		}

		err = deps.Store.DeleteHistory(id)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("delete target not found", "id", id)
			httpError(w, http.StatusNotFound, "Item not found")
			return
		}
		if err != nil {
			slog.Error("deleting history failed", "id", id, "error", err)
			httpError(w, http.StatusInternalServerError, "Failed to delete item")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}
}

// generateRequest carries the inputs for a server-side portrait generation.
type generateRequest struct {
	Name           string   `json:"name"`
	BackgroundType string   `json:"background_type"`
	SourceImages   []string `json:"source_images"`
}

func handleGenerate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		portraits, err := deps.Generator.Generate(r.Context(), studio.Request{
			SourceImages: req.SourceImages,
			Background:   studio.Background(req.BackgroundType),
			Name:         req.Name,
		})
		if err != nil {
			switch {
			case errors.Is(err, studio.ErrNotConfigured):
				slog.Error("generation rejected: no API key configured")
				httpError(w, http.StatusInternalServerError, "API key is not configured. Please contact an administrator.")
			case errors.Is(err, studio.ErrUnknownBackground):
				httpError(w, http.StatusBadRequest, fmt.Sprintf("Unknown background type %q", req.BackgroundType))
			default:
				slog.Error("generation failed", "error", err)
				httpError(w, http.StatusInternalServerError, "Image generation failed")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(portraits)
	}
}

// httpError writes the {"error": message} body shared by all failure responses.
func httpError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
