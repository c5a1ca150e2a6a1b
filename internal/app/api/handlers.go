package api

import (
	"encoding/json"
	"net/http"

	"github.com/dealdrop/dealdrop/internal/app/tracking"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/gorilla/mux"
)

type addProductRequest struct {
	URL string `json:"url"`
}

type sessionResponse struct {
	Success bool                   `json:"success"`
	Product *models.TrackedProduct `json:"product"`
	Message string                 `json:"message"`
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req addProductRequest

	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.URL == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "URL is required"})
		return
	}

	outcome, err := s.deps.Service.AddOrRefresh(r.Context(), tracking.AddOrRefreshParams{
		Owner: owner,
		URL:   req.URL,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if outcome.Status == models.SessionStatusCreated {
		status = http.StatusCreated
	}

	respondJSON(w, status, sessionResponse{
		Success: true,
		Product: outcome.Product,
		Message: outcome.Message,
	})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	products, err := s.deps.Service.ListProducts(r.Context(), owner.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	productID := mux.Vars(r)["id"]

	err = s.deps.Service.Delete(r.Context(), tracking.DeleteParams{
		OwnerID:   owner.ID,
		ProductID: productID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	entries, err := s.deps.Service.ListHistory(r.Context(), productID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
