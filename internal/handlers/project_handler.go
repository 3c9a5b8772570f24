package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/middleware"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/services"
	"github.com/harentsoaR/folio-api/internal/store"
	"github.com/harentsoaR/folio-api/internal/utils"
	"github.com/harentsoaR/folio-api/internal/validation"
)

const projectFolder = "projects"

// projectPatch keeps only the fields the request actually carries.
func projectPatch(req *validation.ProjectRequest) models.ProjectPatch {
	patch := models.ProjectPatch{
		Title:       nonEmpty(req.Title),
		Summary:     nonEmpty(req.Summary),
		Description: nonEmpty(req.Description),
		Link:        nonEmpty(req.Link),
	}
	if req.Skills != "" {
		patch.Skills = utils.ParseList(req.Skills)
	}
	return patch
}

// attachProjectFiles uploads the thumbnail and images, if any, into patch.
func (h *Handler) attachProjectFiles(c *gin.Context, patch *models.ProjectPatch) bool {
	ctx := c.Request.Context()
	if fh := formFile(c, "thumbnail"); fh != nil {
		url, err := h.Media.Upload(ctx, projectFolder, services.KindImage, fh)
		if err != nil {
			h.uploadFailed(c, err)
			return false
		}
		patch.Thumbnail = &url
	}
	if files := formFiles(c, "images"); len(files) > 0 {
		urls, err := h.Media.UploadAll(ctx, projectFolder, services.KindImage, files)
		if err != nil {
			h.uploadFailed(c, err)
			return false
		}
		patch.Images = urls
	}
	return true
}

func (h *Handler) CreateProject(c *gin.Context) {
	userID, ok := objectIDParam(c, "userID", "User")
	if !ok {
		return
	}
	req := middleware.Body[validation.CreateProjectRequest](c)
	ctx := c.Request.Context()

	if _, err := h.Users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "User")
			return
		}
		h.serverError(c, "Server error during project creation", err)
		return
	}

	fields := req.ProjectRequest
	fields.Title = req.Title
	patch := projectPatch(&fields)
	if ok := h.attachProjectFiles(c, &patch); !ok {
		return
	}

	project := patch.Apply(models.Project{
		UserID: userID,
		Skills: []string{},
		Images: []string{},
	})
	if err := h.Projects.Create(ctx, &project); err != nil {
		h.serverError(c, "Server error during project creation", err)
		return
	}
	response.Created(c, "Project created successfully", gin.H{"project": project})
}

func (h *Handler) GetProject(c *gin.Context) {
	projectID, ok := objectIDParam(c, "id", "Project")
	if !ok {
		return
	}
	project, err := h.Projects.FindByID(c.Request.Context(), projectID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "Project")
		return
	}
	if err != nil {
		h.serverError(c, "Server error while fetching project", err)
		return
	}
	response.Success(c, "Project retrieved successfully", gin.H{"project": project})
}

func (h *Handler) GetUserProjects(c *gin.Context) {
	userID, ok := objectIDParam(c, "userID", "User")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.Users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "User")
			return
		}
		h.serverError(c, "Server error while fetching projects", err)
		return
	}
	projects, err := h.Projects.ListByOwner(ctx, userID)
	if err != nil {
		h.serverError(c, "Server error while fetching projects", err)
		return
	}
	response.Success(c, "Projects retrieved successfully", gin.H{"projects": projects, "count": len(projects)})
}
