package http

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"lendbox/internal/domain/document"
	documentuc "lendbox/internal/usecase/document"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type DocumentHandler struct {
	responder
	uc *documentuc.Usecase
}

func NewDocumentHandler(uc *documentuc.Usecase, log *logrus.Logger) *DocumentHandler {
	return &DocumentHandler{responder: responder{log: log}, uc: uc}
}

// parseFolderFilter reads folder_id: an id, "root", or empty/"all" for everything.
func parseFolderFilter(raw string) (document.Filter, bool) {
	switch raw = strings.TrimSpace(raw); raw {
	case "", "all":
		return document.Filter{}, true
	case "root":
		return document.Filter{Root: true}, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return document.Filter{}, false
	}
	return document.Filter{FolderID: &id}, true
}

func (h *DocumentHandler) List(c echo.Context) error {
	f, ok := parseFolderFilter(c.QueryParam("folder_id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "folder_id must be an id, root or all", Code: "validation_error"})
	}
	out, err := h.uc.List(c.Request().Context(), currentUser(c), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "documents": out})
}

func fileInput(fh *multipart.FileHeader) documentuc.FileInput {
	return documentuc.FileInput{
		Name:        filepath.Base(fh.Filename),
		Size:        fh.Size,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Open:        func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// Upload takes multipart "files" (repeatable) and an optional "folder_id".
func (h *DocumentHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return h.badBody(c)
	}
	in := documentuc.UploadInput{}
	if raw := strings.TrimSpace(c.FormValue("folder_id")); raw != "" && raw != "root" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "folder_id must be an id", Code: "validation_error"})
		}
		in.FolderID = &id
	}
	for _, fh := range form.File["files"] {
		in.Files = append(in.Files, fileInput(fh))
	}

	res, err := h.uc.Upload(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "upload": res})
}

func (h *DocumentHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c, "document")
	}
	dto, err := h.uc.Get(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "document": dto})
}

func (h *DocumentHandler) Download(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c, "document")
	}
	dto, rc, err := h.uc.Open(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	defer rc.Close()

	ct := mime.TypeByExtension(filepath.Ext(dto.Name))
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": dto.Name}))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(dto.FileSize, 10))
	return c.Stream(http.StatusOK, ct, rc)
}

func (h *DocumentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c, "document")
	}
	if err := h.uc.Delete(c.Request().Context(), currentUser(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
