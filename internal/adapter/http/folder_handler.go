package http

import (
	"encoding/json"
	"net/http"

	folderuc "lendbox/internal/usecase/folder"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type FolderHandler struct {
	responder
	uc *folderuc.Usecase
}

func NewFolderHandler(uc *folderuc.Usecase, log *logrus.Logger) *FolderHandler {
	return &FolderHandler{responder: responder{log: log}, uc: uc}
}

func (h *FolderHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "folders": out})
}

func (h *FolderHandler) Create(c echo.Context) error {
	var req folderuc.CreateFolderInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "folder": dto})
}

func (h *FolderHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c, "folder")
	}
	dto, err := h.uc.Get(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "folder": dto})
}

// updateFolderReq keeps parent_id raw so an explicit null (move to root)
// differs from an absent field.
type updateFolderReq struct {
	Name     *string         `json:"name"`
	ParentID json.RawMessage `json:"parent_id"`
}

func (h *FolderHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c, "folder")
	}
	var req updateFolderReq
	if err := c.Bind(&req); err != nil {
		return h.badBody(c)
	}
	in := folderuc.UpdateFolderInput{Name: req.Name}
	if len(req.ParentID) > 0 {
		in.ParentSet = true
		if string(req.ParentID) != "null" {
			var pid uint64
			if err := json.Unmarshal(req.ParentID, &pid); err != nil {
				return h.badBody(c)
			}
			in.ParentID = &pid
		}
	}
	if err := c.Validate(&in); err != nil {
		return h.invalid(c, err)
	}
	dto, err := h.uc.Update(c.Request().Context(), currentUser(c), id, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "folder": dto})
}

func (h *FolderHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c, "folder")
	}
	res, err := h.uc.Delete(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "deleted": res})
}
