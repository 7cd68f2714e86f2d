package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dsaps/internal/config"
	"dsaps/internal/model"
	"dsaps/internal/service"
)

// DefaultPageLimit — limit /filtered-items по умолчанию.
const DefaultPageLimit = 100

// ArchiveHandler обслуживает сообщества, коллекции, элементы и поиск.
type ArchiveHandler struct {
	ArchiveService *service.ArchiveService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

func NewArchiveHandler(archiveService *service.ArchiveService, logger *zap.SugaredLogger, cfg *config.Config) *ArchiveHandler {
	return &ArchiveHandler{ArchiveService: archiveService, Logger: logger, Config: cfg}
}

// expansion разбирает ?expand=all|metadata,bitstreams,...
type expansion map[string]bool

func parseExpand(r *http.Request) expansion {
	e := expansion{}
	for _, v := range r.URL.Query()["expand"] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				e[part] = true
			}
		}
	}
	return e
}

func (e expansion) has(part string) bool { return e["all"] || e[part] }

// Handle возвращает объект по handle: GET /handle/{prefix}/{suffix}.
func (h *ArchiveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "*")
	typ, id, err := h.ArchiveService.ResolveHandle(r.Context(), handle)
	if err != nil {
		writeServiceError(w, h.Logger, "Handle", err)
		return
	}
	ctx := r.Context()
	switch typ {
	case model.TypeCommunity:
		c, err := h.ArchiveService.Community(ctx, id, false)
		if err != nil {
			writeServiceError(w, h.Logger, "Handle", err)
			return
		}
		writeJSON(w, http.StatusOK, toCommunityDTO(c, nil))
	case model.TypeCollection:
		c, err := h.ArchiveService.Collection(ctx, id, false)
		if err != nil {
			writeServiceError(w, h.Logger, "Handle", err)
			return
		}
		writeJSON(w, http.StatusOK, toCollectionDTO(c, nil))
	default:
		it, err := h.ArchiveService.Item(ctx, id, false)
		if err != nil {
			writeServiceError(w, h.Logger, "Handle", err)
			return
		}
		writeJSON(w, http.StatusOK, toItemDTO(it, nil))
	}
}

func (h *ArchiveHandler) GetCommunity(w http.ResponseWriter, r *http.Request) {
	e := parseExpand(r)
	c, err := h.ArchiveService.Community(r.Context(), chi.URLParam(r, "id"), e.has("collections"))
	if err != nil {
		writeServiceError(w, h.Logger, "GetCommunity", err)
		return
	}
	var parent *model.Community
	if e.has("parentCommunity") && c.ParentUUID != nil {
		if parent, err = h.ArchiveService.Community(r.Context(), *c.ParentUUID, false); err != nil {
			writeServiceError(w, h.Logger, "GetCommunity", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toCommunityDTO(c, parent))
}

func (h *ArchiveHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	e := parseExpand(r)
	c, err := h.ArchiveService.Collection(r.Context(), chi.URLParam(r, "id"), e.has("items"))
	if err != nil {
		writeServiceError(w, h.Logger, "GetCollection", err)
		return
	}
	var parent *model.Community
	if e.has("parentCommunity") {
		if parent, err = h.ArchiveService.Community(r.Context(), c.CommunityUUID, false); err != nil {
			writeServiceError(w, h.Logger, "GetCollection", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toCollectionDTO(c, parent))
}

func (h *ArchiveHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	e := parseExpand(r)
	it, err := h.ArchiveService.Item(r.Context(), chi.URLParam(r, "id"), e.has("metadata") || e.has("bitstreams"))
	if err != nil {
		writeServiceError(w, h.Logger, "GetItem", err)
		return
	}
	if !e.has("metadata") {
		it.Metadata = nil
	}
	if !e.has("bitstreams") {
		it.Bitstreams = nil
	}
	var parent *model.Collection
	if e.has("parentCollection") {
		if parent, err = h.ArchiveService.Collection(r.Context(), it.CollectionUUID, false); err != nil {
			writeServiceError(w, h.Logger, "GetItem", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toItemDTO(it, parent))
}

// GetItemMetadata — GET /items/{id}/metadata.
func (h *ArchiveHandler) GetItemMetadata(w http.ResponseWriter, r *http.Request) {
	md, err := h.ArchiveService.ItemMetadata(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.Logger, "GetItemMetadata", err)
		return
	}
	writeJSON(w, http.StatusOK, metadataDTOs(md))
}

// FilteredItems — GET /filtered-items. Условия задаются параллельными
// массивами query_field[], query_op[], query_val[]; collSel[] ограничивает коллекции.
func (h *ArchiveHandler) FilteredItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := service.Filter{Limit: DefaultPageLimit}
	fields, ops, vals := q["query_field[]"], q["query_op[]"], q["query_val[]"]
	for i, field := range fields {
		if field == "" {
			continue
		}
		c := service.Condition{Field: field}
		if i < len(ops) {
			c.Op = ops[i]
		}
		if i < len(vals) {
			c.Value = vals[i]
		}
		f.Conditions = append(f.Conditions, c)
	}
	for _, coll := range q["collSel[]"] {
		if coll != "" {
			f.Collections = append(f.Collections, coll)
		}
	}
	var err error
	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil || f.Limit < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		if f.Offset, err = strconv.Atoi(v); err != nil || f.Offset < 0 {
			http.Error(w, "bad offset", http.StatusBadRequest)
			return
		}
	}

	items, err := h.ArchiveService.FilterItems(r.Context(), f)
	if err != nil {
		writeServiceError(w, h.Logger, "FilteredItems", err)
		return
	}
	resp := FilteredItemsResponse{Items: make([]ObjectDTO, 0, len(items)), Limit: f.Limit, Offset: f.Offset}
	for i := range items {
		resp.Items = append(resp.Items, itemRef(&items[i]))
	}
	resp.ItemCount = len(resp.Items)
	writeJSON(w, http.StatusOK, resp)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(service.ErrInvalid, err)
	}
	return nil
}

// PostCommunity — POST /communities, создаёт сообщество верхнего уровня.
func (h *ArchiveHandler) PostCommunity(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, h.Logger, "PostCommunity", err)
		return
	}
	c, err := h.ArchiveService.CreateCommunity(r.Context(), req.Name, "")
	if err != nil {
		writeServiceError(w, h.Logger, "PostCommunity", err)
		return
	}
	writeJSON(w, http.StatusOK, toCommunityDTO(c, nil))
}

func (h *ArchiveHandler) PostCollection(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, h.Logger, "PostCollection", err)
		return
	}
	c, err := h.ArchiveService.CreateCollection(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, h.Logger, "PostCollection", err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionDTO(c, nil))
}

func (h *ArchiveHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, h.Logger, "PostItem", err)
		return
	}
	it, err := h.ArchiveService.CreateItem(r.Context(), chi.URLParam(r, "id"), metadataValues(req.Metadata))
	if err != nil {
		writeServiceError(w, h.Logger, "PostItem", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(it, nil))
}

// PostBitstream — POST /items/{id}/bitstreams?name=..., тело запроса — содержимое файла.
func (h *ArchiveHandler) PostBitstream(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	limit := int64(h.Config.BlobMaxSizeMB) << 20
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			http.Error(w, "bitstream too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	b, err := h.ArchiveService.AddBitstream(r.Context(), chi.URLParam(r, "id"), name, content)
	if err != nil {
		writeServiceError(w, h.Logger, "PostBitstream", err)
		return
	}
	writeJSON(w, http.StatusOK, bitstreamDTO(b))
}
