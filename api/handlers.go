package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/richinex/nexus/llm"
	"github.com/richinex/nexus/model"
	"github.com/richinex/nexus/storage"
)

const maxUploadBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// storeError maps a store failure onto a response.
func (s *Server) storeError(w http.ResponseWriter, err error, notFound, failed string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	s.logger.Error().Err(err).Msg(failed)
	writeError(w, http.StatusInternalServerError, failed)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	defaultModel := s.config.DefaultModel
	if defaultModel == "" {
		defaultModel = llm.DefaultModelID
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"models":         llm.Models(),
		"defaultModelId": defaultModel,
	})
}

type clientBody struct {
	Name string `json:"name"`
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		s.storeError(w, err, "Client not found", "Failed to list clients")
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var body clientBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	client, err := s.store.CreateClient(r.Context(), strings.TrimSpace(body.Name))
	if err != nil {
		s.storeError(w, err, "Client not found", "Failed to create client")
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.store.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Client not found", "Failed to load client")
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var body clientBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := s.store.UpdateClient(r.Context(), r.PathValue("id"), strings.TrimSpace(body.Name))
	if err != nil {
		s.storeError(w, err, "Client not found", "Failed to update client")
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		s.storeError(w, err, "Client not found", "Failed to delete client")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Client not found", "Failed to list files")
		return
	}

	brandDocs := []model.Document{}
	assets := []model.Document{}
	for _, d := range docs {
		if d.Type == model.KindAsset {
			assets = append(assets, d)
		} else {
			brandDocs = append(brandDocs, d)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"brandDocs": brandDocs,
		"assets":    assets,
	})
}

type uploadedFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (s *Server) handleUploadFiles(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	if _, err := s.store.GetClient(r.Context(), clientID); err != nil {
		s.storeError(w, err, "Client not found", "Failed to upload")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	kind, ok := model.ParseDocumentKind(r.FormValue("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "No files provided")
		return
	}

	uploaded := make([]uploadedFile, 0, len(headers))
	for _, header := range headers {
		if _, err := storage.SanitizeFileName(header.Filename); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid file name: %q", header.Filename))
			return
		}

		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to upload: "+err.Error())
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to upload: "+err.Error())
			return
		}

		doc, err := s.store.SaveDocument(r.Context(), clientID, kind, header.Filename, data)
		if err != nil {
			s.storeError(w, err, "Client not found", "Failed to upload")
			return
		}
		uploaded = append(uploaded, uploadedFile{Name: doc.Name, Size: doc.Size})
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"uploaded": uploaded,
		"message":  fmt.Sprintf("%d file(s) uploaded successfully", len(uploaded)),
	})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "File name required")
		return
	}
	kind, ok := model.ParseDocumentKind(query.Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	}

	if err := s.store.DeleteDocument(r.Context(), r.PathValue("id"), kind, name); err != nil {
		s.storeError(w, err, "File not found", "Failed to delete file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListOutputs(w http.ResponseWriter, r *http.Request) {
	outputs, err := s.store.ListOutputs(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Client not found", "Failed to list outputs")
		return
	}
	writeJSON(w, http.StatusOK, outputs)
}

type outputBody struct {
	FeatureID   string            `json:"featureId"`
	FeatureName string            `json:"featureName"`
	ModelID     string            `json:"modelId"`
	Inputs      map[string]string `json:"inputs"`
	Output      string            `json:"output"`
}

func (s *Server) handleSaveOutput(w http.ResponseWriter, r *http.Request) {
	var body outputBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.FeatureName == "" {
		if f, ok := s.catalog.Get(body.FeatureID); ok {
			body.FeatureName = f.Name
		}
	}

	saved, err := s.store.SaveOutput(r.Context(), model.SavedOutput{
		ClientID:    r.PathValue("id"),
		FeatureID:   body.FeatureID,
		FeatureName: body.FeatureName,
		ModelID:     body.ModelID,
		Inputs:      body.Inputs,
		Output:      body.Output,
	})
	if err != nil {
		s.storeError(w, err, "Client not found", "Failed to save output")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
