package handlers

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListWithProfiles(ctx context.Context) ([]models.User, error)
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (*models.User, error)
	UpdateFullName(ctx context.Context, id primitive.ObjectID, fullName string) (*models.User, error)
	SetProfile(ctx context.Context, id primitive.ObjectID, p *models.Profile, complete bool) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch, complete *bool) (*models.User, error)
	DeleteProfile(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, q models.UserQuery) (int64, error)
}

type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type HomePageStore interface {
	Get(ctx context.Context) (*models.HomePage, error)
	PushEntries(ctx context.Context, section models.Section, entries any) (*models.HomePage, error)
	ReplaceEntry(ctx context.Context, section models.Section, id primitive.ObjectID, entry any) (*models.HomePage, error)
	PullEntry(ctx context.Context, section models.Section, id primitive.ObjectID) (*models.HomePage, error)
	SetAboutUs(ctx context.Context, about models.AboutUs) (*models.HomePage, error)
}

// MediaUploader turns uploaded files into durable URLs.
type MediaUploader interface {
	Upload(ctx context.Context, folder string, kind services.MediaKind, fh *multipart.FileHeader) (string, error)
	UploadAll(ctx context.Context, folder string, kind services.MediaKind, files []*multipart.FileHeader) ([]string, error)
}

type TokenIssuer interface {
	GenerateJWT(userID, role string) (string, error)
}

type Options struct {
	BcryptCost             int
	AllowAdminRegistration bool
}

// Handler holds the collaborators every endpoint needs.
type Handler struct {
	Users    UserStore
	Projects ProjectStore
	Home     HomePageStore
	Media    MediaUploader
	Tokens   TokenIssuer
	Log      *zap.Logger
	opts     Options
}

func NewHandler(users UserStore, projects ProjectStore, home HomePageStore, media MediaUploader, tokens TokenIssuer, log *zap.Logger, opts Options) *Handler {
	return &Handler{
		Users:    users,
		Projects: projects,
		Home:     home,
		Media:    media,
		Tokens:   tokens,
		Log:      log,
		opts:     opts,
	}
}

// serverError logs the cause and answers with a generic 500.
func (h *Handler) serverError(c *gin.Context, message string, err error) {
	h.Log.Error(message,
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()))
	response.ServerError(c, message)
}

// uploadFailed maps rejected files to 400 and storage failures to 500.
func (h *Handler) uploadFailed(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidFile) {
		response.ClientError(c, err.Error())
		return
	}
	h.serverError(c, "Server error while uploading files", err)
}

// objectIDParam parses a path parameter. A malformed id is reported as a missing resource.
func objectIDParam(c *gin.Context, name, resource string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		response.NotFound(c, resource)
		return primitive.NilObjectID, false
	}
	return id, true
}

// formFiles returns the files uploaded under field, also accepting the "field[]" spelling.
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	if files := form.File[field]; len(files) > 0 {
		return files
	}
	return form.File[field+"[]"]
}

func formFile(c *gin.Context, field string) *multipart.FileHeader {
	files := formFiles(c, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// nonEmpty returns a pointer to s, or nil when s is empty.
func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
