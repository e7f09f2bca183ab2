package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

type uploadResponse struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// handleUpload stores the multipart "file" field in the workspace root under
// its base name.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file name provided.")
		return
	}
	defer file.Close()

	name := filepath.Base(filepath.Clean("/" + filepath.ToSlash(header.Filename)))
	if name == "" || name == "." || name == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "No file name provided.")
		return
	}

	path, err := s.workspace.Resolve(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file path.")
		return
	}

	dst, err := os.Create(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Could not save file: %v", err))
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Could not save file: %v", err))
		return
	}

	s.logger.Info("File uploaded", "filename", name)
	writeJSON(w, http.StatusOK, uploadResponse{Filename: name, Message: "File uploaded successfully"})
}

func (s *Server) handleWorkspaceFile(w http.ResponseWriter, r *http.Request) {
	path, err := s.workspace.Resolve(chi.URLParam(r, "filename"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Workspace file stat failed", "path", path, "error", err)
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}

	http.ServeFile(w, r, path)
}
