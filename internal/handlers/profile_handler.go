package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/middleware"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/services"
	"github.com/harentsoaR/folio-api/internal/store"
	"github.com/harentsoaR/folio-api/internal/utils"
	"github.com/harentsoaR/folio-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	profileImageFolder = "profiles"
	certificateFolder  = "certificates"
)

// profilePatch keeps the supplied (non-empty) fields of req, sanitized and normalized.
func profilePatch(req validation.ProfileRequest) models.ProfilePatch {
	patch := models.ProfilePatch{
		Profession:        nonEmpty(req.Profession),
		Description:       nonEmpty(req.Description),
		YearsOfExperience: req.YearsOfExperience,
		LinkedIn:          nonEmpty(req.LinkedIn),
		GitHub:            nonEmpty(req.GitHub),
		Fiverr:            nonEmpty(req.Fiverr),
	}
	if req.Skills != "" {
		patch.Skills = utils.ParseList(req.Skills)
	}
	if req.WhatsApp != "" {
		// already validated, so this only canonicalizes to E.164
		if phone, err := validation.NormalizePhone(req.WhatsApp); err == nil {
			patch.WhatsApp = &phone
		}
	}
	return patch
}

// attachProfileFiles uploads the profile image and certificates, if any, into patch.
func (h *Handler) attachProfileFiles(c *gin.Context, patch *models.ProfilePatch) bool {
	ctx := c.Request.Context()
	if fh := formFile(c, "profileImage"); fh != nil {
		url, err := h.Media.Upload(ctx, profileImageFolder, services.KindImage, fh)
		if err != nil {
			h.uploadFailed(c, err)
			return false
		}
		patch.ProfileImage = &url
	}
	if files := formFiles(c, "certificates"); len(files) > 0 {
		urls, err := h.Media.UploadAll(ctx, certificateFolder, services.KindDocument, files)
		if err != nil {
			h.uploadFailed(c, err)
			return false
		}
		patch.Certificates = urls
	}
	return true
}

// loadProfileOwner resolves the user named by the userID parameter and, when requireProfile is set,
// insists that it has a profile. It answers the request itself on failure.
func (h *Handler) loadProfileOwner(c *gin.Context, requireProfile bool, failMessage string) (*models.User, bool) {
	userID, ok := objectIDParam(c, "userID", "User")
	if !ok {
		return nil, false
	}
	user, err := h.Users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return nil, false
	}
	if err != nil {
		h.serverError(c, failMessage, err)
		return nil, false
	}
	if requireProfile && !user.HasProfile() {
		response.NotFound(c, "Profile")
		return nil, false
	}
	return user, true
}

// CreateProfile builds the embedded profile of a user that has none yet.
func (h *Handler) CreateProfile(c *gin.Context) {
	const failMessage = "Server error during profile creation"
	req := middleware.Body[validation.CreateProfileRequest](c)

	user, ok := h.loadProfileOwner(c, false, failMessage)
	if !ok {
		return
	}
	if user.HasProfile() {
		response.ClientError(c, "Profile already exists for this user. Use the update endpoint.")
		return
	}

	patch := profilePatch(req.Fields())
	if ok := h.attachProfileFiles(c, &patch); !ok {
		return
	}

	now := time.Now().UTC()
	profile := patch.Apply(models.Profile{
		Skills:       []string{},
		Certificates: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	updated, err := h.Users.SetProfile(c.Request.Context(), user.ID, &profile, profile.IsComplete())
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, failMessage, err)
		return
	}
	h.Log.Info("profile created", zap.String("user_id", user.ID.Hex()), zap.Bool("complete", updated.IsProfileComplete))
	response.Created(c, "Profile created successfully", gin.H{"user": updated, "profile": updated.Profile})
}

func (h *Handler) GetProfileByUser(c *gin.Context) {
	user, ok := h.loadProfileOwner(c, true, "Server error while fetching profile")
	if !ok {
		return
	}
	response.Success(c, "Profile retrieved successfully", gin.H{"user": user.Owner(), "profile": user.Profile})
}

func (h *Handler) GetAllProfiles(c *gin.Context) {
	users, err := h.Users.ListWithProfiles(c.Request.Context())
	if err != nil {
		h.serverError(c, "Server error while fetching profiles", err)
		return
	}
	response.Success(c, "Profiles retrieved successfully", gin.H{"profiles": users, "count": len(users)})
}

// UpdateProfile merges the supplied fields and recomputes completeness from the merged result.
// The flag is only written when it changes.
func (h *Handler) UpdateProfile(c *gin.Context) {
	const failMessage = "Server error during profile update"
	req := middleware.Body[validation.ProfileRequest](c)

	user, ok := h.loadProfileOwner(c, true, failMessage)
	if !ok {
		return
	}

	patch := profilePatch(*req)
	if ok := h.attachProfileFiles(c, &patch); !ok {
		return
	}
	if patch.Empty() {
		response.ClientError(c, "No update fields provided")
		return
	}

	merged := patch.Apply(*user.Profile)
	var flag *bool
	if complete := merged.IsComplete(); complete != user.IsProfileComplete {
		flag = &complete
	}

	h.saveProfilePatch(c, user.ID, patch, flag, failMessage, func(updated *models.User) {
		response.Success(c, "Profile updated successfully", gin.H{"user": updated, "profile": updated.Profile})
	})
}

func (h *Handler) UpdateProfileImage(c *gin.Context) {
	const failMessage = "Server error during profile image update"
	fh := formFile(c, "profileImage")
	if fh == nil {
		response.ClientError(c, "Profile image is required")
		return
	}
	user, ok := h.loadProfileOwner(c, true, failMessage)
	if !ok {
		return
	}

	url, err := h.Media.Upload(c.Request.Context(), profileImageFolder, services.KindImage, fh)
	if err != nil {
		h.uploadFailed(c, err)
		return
	}
	h.saveProfilePatch(c, user.ID, models.ProfilePatch{ProfileImage: &url}, nil, failMessage, func(updated *models.User) {
		response.Success(c, "Profile image updated successfully", gin.H{"profileImage": url, "profile": updated.Profile})
	})
}

// UpdateCertificates replaces the certificate list.
func (h *Handler) UpdateCertificates(c *gin.Context) {
	const failMessage = "Server error during profile certificates update"
	files := formFiles(c, "certificates")
	if len(files) == 0 {
		response.ClientError(c, "At least one certificate file is required")
		return
	}
	user, ok := h.loadProfileOwner(c, true, failMessage)
	if !ok {
		return
	}

	urls, err := h.Media.UploadAll(c.Request.Context(), certificateFolder, services.KindDocument, files)
	if err != nil {
		h.uploadFailed(c, err)
		return
	}
	h.saveProfilePatch(c, user.ID, models.ProfilePatch{Certificates: urls}, nil, failMessage, func(updated *models.User) {
		response.Success(c, "Profile certificates updated successfully", gin.H{"certificates": urls, "profile": updated.Profile})
	})
}

func (h *Handler) saveProfilePatch(c *gin.Context, userID primitive.ObjectID, patch models.ProfilePatch, flag *bool, failMessage string, respond func(*models.User)) {
	updated, err := h.Users.UpdateProfile(c.Request.Context(), userID, patch, flag)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, failMessage, err)
		return
	}
	respond(updated)
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	const failMessage = "Server error during profile deletion"
	user, ok := h.loadProfileOwner(c, false, failMessage)
	if !ok {
		return
	}
	err := h.Users.DeleteProfile(c.Request.Context(), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, "User")
		return
	}
	if err != nil {
		h.serverError(c, failMessage, err)
		return
	}
	response.Success(c, "Profile deleted successfully", nil)
}

// GetProfileCompleteness reports the completeness predicate and what is missing.
func (h *Handler) GetProfileCompleteness(c *gin.Context) {
	user, ok := h.loadProfileOwner(c, false, "Server error while checking profile completeness")
	if !ok {
		return
	}
	missing := user.Profile.MissingFields()
	response.Success(c, "Profile completeness retrieved successfully", gin.H{
		"isProfileComplete": len(missing) == 0,
		"missingFields":     missing,
	})
}
