package handler

import (
	"net/http"

	"github.com/lexflow/backend/internal/service"
)

// CatalogHandler はカタログ参照系の HTTP ハンドラ
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler は CatalogHandler を生成する
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Clients は GET /api/catalog/clients を処理する
func (h *CatalogHandler) Clients(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalogService.Clients(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Client は GET /api/catalog/clients/{id} を処理する
func (h *CatalogHandler) Client(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogService.Client(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Users は GET /api/catalog/users を処理する
func (h *CatalogHandler) Users(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalogService.Users(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Projects は GET /api/catalog/projects?client_id= を処理する。
// 同一クライアントへの問い合わせは最新のリクエストだけが結果を返す。
func (h *CatalogHandler) Projects(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "client_id_required"})
		return
	}
	list, err := h.catalogService.Projects(r.Context(), clientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Tags は GET /api/catalog/tags を処理する
func (h *CatalogHandler) Tags(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalogService.Tags(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
