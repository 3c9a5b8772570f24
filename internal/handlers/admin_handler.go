package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/middleware"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/store"
	"github.com/harentsoaR/folio-api/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardStats is the payload of the admin dashboard.
type DashboardStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalProfiles int64 `json:"totalProfiles"`
	TotalProjects int64 `json:"totalProjects"`
	BlockedUsers  int64 `json:"blockedUsers"`
}

func (h *Handler) GetAllUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "Server error while fetching users", err)
		return
	}
	response.Success(c, "Users retrieved successfully", gin.H{"users": users, "count": len(users)})
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId", "User")
	if !ok {
		return
	}
	user, err := h.Users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, "Server error while fetching user", err)
		return
	}
	response.Success(c, "User retrieved successfully", gin.H{"user": user})
}

func (h *Handler) BlockUser(c *gin.Context) {
	h.setBlocked(c, true)
}

func (h *Handler) UnblockUser(c *gin.Context) {
	h.setBlocked(c, false)
}

// setBlocked flips the blocked flag. Admin accounts can only ever be unblocked.
func (h *Handler) setBlocked(c *gin.Context, blocked bool) {
	action, done := "unblocking", "User unblocked successfully"
	if blocked {
		action, done = "blocking", "User blocked successfully"
	}

	userID, ok := objectIDParam(c, "userId", "User")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.Users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, "Server error while "+action+" user", err)
		return
	}
	if blocked && user.IsAdmin() {
		response.ClientError(c, "Cannot block admin users")
		return
	}

	updated, err := h.Users.SetBlocked(ctx, userID, blocked)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, "Server error while "+action+" user", err)
		return
	}
	h.Log.Info("user block state changed", zap.String("user_id", userID.Hex()), zap.Bool("blocked", blocked))
	response.Success(c, done, gin.H{"user": updated.Summary()})
}

// DeleteUser removes a non-admin user with its profile and projects.
// The steps run in order without a transaction; a failure midway leaves the earlier steps applied.
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := objectIDParam(c, "id", "User")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.Users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, "Server error during user deletion", err)
		return
	}
	if user.IsAdmin() {
		response.ClientError(c, "Cannot delete admin users")
		return
	}

	if user.HasProfile() {
		if err := h.Users.DeleteProfile(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
			h.serverError(c, "Server error during user deletion", err)
			return
		}
	}
	removed, err := h.Projects.DeleteByOwner(ctx, userID)
	if err != nil {
		h.serverError(c, "Server error during user deletion", err)
		return
	}
	if err := h.Users.Delete(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.serverError(c, "Server error during user deletion", err)
		return
	}

	h.Log.Info("user deleted", zap.String("user_id", userID.Hex()), zap.Int64("projects_removed", removed))
	response.Success(c, "User and all associated data deleted successfully", nil)
}

// GetDashboardStats gathers the counts concurrently.
func (h *Handler) GetDashboardStats(c *gin.Context) {
	var stats DashboardStats
	withProfile, blocked := true, true

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		stats.TotalUsers, err = h.Users.Count(ctx, models.UserQuery{Role: models.RoleUser})
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProfiles, err = h.Users.Count(ctx, models.UserQuery{HasProfile: &withProfile})
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProjects, err = h.Projects.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.BlockedUsers, err = h.Users.Count(ctx, models.UserQuery{Blocked: &blocked})
		return err
	})
	if err := g.Wait(); err != nil {
		h.serverError(c, "Server error while fetching dashboard stats", err)
		return
	}
	response.Success(c, "Dashboard stats retrieved successfully", gin.H{"stats": stats})
}

// AdminUpdateProject applies a partial update to any project.
func (h *Handler) AdminUpdateProject(c *gin.Context) {
	projectID, ok := objectIDParam(c, "id", "Project")
	if !ok {
		return
	}
	req := middleware.Body[validation.ProjectRequest](c)
	ctx := c.Request.Context()

	if _, err := h.Projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "Project")
			return
		}
		h.serverError(c, "Server error during project update", err)
		return
	}

	patch := projectPatch(req)
	if ok := h.attachProjectFiles(c, &patch); !ok {
		return
	}

	project, err := h.Projects.Update(ctx, projectID, patch)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "Project")
		return
	}
	if err != nil {
		h.serverError(c, "Server error during project update", err)
		return
	}
	response.Success(c, "Project updated successfully by admin", gin.H{"project": project})
}

func (h *Handler) AdminDeleteProject(c *gin.Context) {
	projectID, ok := objectIDParam(c, "id", "Project")
	if !ok {
		return
	}
	err := h.Projects.Delete(c.Request.Context(), projectID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "Project")
		return
	}
	if err != nil {
		h.serverError(c, "Server error during project deletion", err)
		return
	}
	response.Success(c, "Project deleted successfully by admin", nil)
}
