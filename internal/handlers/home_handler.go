package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/middleware"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/services"
	"github.com/harentsoaR/folio-api/internal/store"
	"github.com/harentsoaR/folio-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const homepageFolder = "homepage"

// homepage loads the singleton, creating it when absent.
func (h *Handler) homepage(c *gin.Context, failMessage string) (*models.HomePage, bool) {
	hp, err := h.Home.Get(c.Request.Context())
	if err != nil {
		h.serverError(c, failMessage, err)
		return nil, false
	}
	return hp, true
}

// saved handles the result of a homepage write. ErrNotFound means the addressed entry is gone.
func (h *Handler) saved(c *gin.Context, hp *models.HomePage, err error, resource, failMessage string) (*models.HomePage, bool) {
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(c, resource)
		return nil, false
	}
	if err != nil {
		h.serverError(c, failMessage, err)
		return nil, false
	}
	return hp, true
}

// imageFromRequest picks the uploaded file over a URL from the body. An empty result means neither was sent.
func (h *Handler) imageFromRequest(c *gin.Context, field, bodyURL string) (string, bool) {
	if fh := formFile(c, field); fh != nil {
		url, err := h.Media.Upload(c.Request.Context(), homepageFolder, services.KindImage, fh)
		if err != nil {
			h.uploadFailed(c, err)
			return "", false
		}
		return url, true
	}
	return bodyURL, true
}

// entryParam parses the :id of a homepage entry.
func entryParam(c *gin.Context, resource string) (primitive.ObjectID, bool) {
	return objectIDParam(c, "id", resource)
}

// mergeText keeps current unless a non-empty replacement was supplied.
func mergeText(current, supplied string) string {
	if supplied != "" {
		return supplied
	}
	return current
}

func (h *Handler) GetHomePage(c *gin.Context) {
	hp, ok := h.homepage(c, "Server error while fetching homepage")
	if !ok {
		return
	}
	response.Success(c, "Homepage retrieved successfully", hp)
}

/* carousel */

func (h *Handler) GetCarouselImages(c *gin.Context) {
	hp, ok := h.homepage(c, "Server error while fetching carousel images")
	if !ok {
		return
	}
	response.Success(c, "Carousel images retrieved", hp.CarouselImages)
}

// AddCarouselImage adds one entry per uploaded file, or a single entry from the body image URL.
func (h *Handler) AddCarouselImage(c *gin.Context) {
	const failMessage = "Server error while adding carousel image"
	req := middleware.Body[validation.CarouselRequest](c)
	if _, ok := h.homepage(c, failMessage); !ok {
		return
	}

	var images []string
	if files := formFiles(c, "images"); len(files) > 0 {
		urls, err := h.Media.UploadAll(c.Request.Context(), homepageFolder, services.KindImage, files)
		if err != nil {
			h.uploadFailed(c, err)
			return
		}
		images = urls
	} else if req.Image != "" {
		images = []string{req.Image}
	} else {
		response.ClientError(c, "No image provided for carousel item")
		return
	}

	entries := make([]models.CarouselImage, 0, len(images))
	for _, image := range images {
		entries = append(entries, models.CarouselImage{
			ID:          primitive.NewObjectID(),
			Title:       req.Title,
			Description: req.Description,
			Image:       image,
		})
	}
	hp, err := h.Home.PushEntries(c.Request.Context(), models.CarouselSection, entries)
	if hp, ok := h.saved(c, hp, err, "Homepage", failMessage); ok {
		response.Success(c, "Carousel image(s) added", hp.CarouselImages)
	}
}

func (h *Handler) UpdateCarouselImage(c *gin.Context) {
	const failMessage = "Server error while updating carousel image"
	id, ok := entryParam(c, "Carousel image")
	if !ok {
		return
	}
	req := middleware.Body[validation.CarouselRequest](c)
	hp, ok := h.homepage(c, failMessage)
	if !ok {
		return
	}
	i := models.IndexOf(hp.CarouselImages, id)
	if i < 0 {
		response.NotFound(c, "Carousel image")
		return
	}

	item := hp.CarouselImages[i]
	item.Title = mergeText(item.Title, req.Title)
	item.Description = mergeText(item.Description, req.Description)
	image, ok := h.imageFromRequest(c, "images", req.Image)
	if !ok {
		return
	}
	if image != "" {
		item.Image = image
	}

	hp, err := h.Home.ReplaceEntry(c.Request.Context(), models.CarouselSection, id, item)
	if _, ok := h.saved(c, hp, err, "Carousel image", failMessage); ok {
		response.Success(c, "Carousel image updated", item)
	}
}

func (h *Handler) DeleteCarouselImage(c *gin.Context) {
	const failMessage = "Server error while deleting carousel image"
	id, ok := entryParam(c, "Carousel image")
	if !ok {
		return
	}
	if _, ok := h.homepage(c, failMessage); !ok {
		return
	}
	hp, err := h.Home.PullEntry(c.Request.Context(), models.CarouselSection, id)
	if hp, ok := h.saved(c, hp, err, "Carousel image", failMessage); ok {
		response.Success(c, "Carousel image deleted", hp.CarouselImages)
	}
}

/* categories */

func (h *Handler) GetCategories(c *gin.Context) {
	hp, ok := h.homepage(c, "Server error while fetching categories")
	if !ok {
		return
	}
	response.Success(c, "Categories retrieved", hp.Categories)
}

func (h *Handler) AddCategory(c *gin.Context) {
	const failMessage = "Server error while adding category"
	req := middleware.Body[validation.CategoryRequest](c)
	if _, ok := h.homepage(c, failMessage); !ok {
		return
	}

	image, ok := h.imageFromRequest(c, "categoryImage", req.CategoryImage)
	if !ok {
		return
	}
	if image == "" {
		response.ClientError(c, "No image provided for category")
		return
	}

	entry := models.Category{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Image:       image,
	}
	hp, err := h.Home.PushEntries(c.Request.Context(), models.CategorySection, []models.Category{entry})
	if hp, ok := h.saved(c, hp, err, "Homepage", failMessage); ok {
		response.Success(c, "Category added", hp.Categories)
	}
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	const failMessage = "Server error while updating category"
	id, ok := entryParam(c, "Category")
	if !ok {
		return
	}
	req := middleware.Body[validation.CategoryRequest](c)
	hp, ok := h.homepage(c, failMessage)
	if !ok {
		return
	}
	i := models.IndexOf(hp.Categories, id)
	if i < 0 {
		response.NotFound(c, "Category")
		return
	}

	item := hp.Categories[i]
	item.Title = mergeText(item.Title, req.Title)
	item.Description = mergeText(item.Description, req.Description)
	image, ok := h.imageFromRequest(c, "categoryImage", req.CategoryImage)
	if !ok {
		return
	}
	if image != "" {
		item.Image = image
	}

	hp, err := h.Home.ReplaceEntry(c.Request.Context(), models.CategorySection, id, item)
	if _, ok := h.saved(c, hp, err, "Category", failMessage); ok {
		response.Success(c, "Category updated", item)
	}
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	const failMessage = "Server error while deleting category"
	id, ok := entryParam(c, "Category")
	if !ok {
		return
	}
	if _, ok := h.homepage(c, failMessage); !ok {
		return
	}
	hp, err := h.Home.PullEntry(c.Request.Context(), models.CategorySection, id)
	if hp, ok := h.saved(c, hp, err, "Category", failMessage); ok {
		response.Success(c, "Category deleted", hp.Categories)
	}
}

/* testimonials */

func (h *Handler) GetTestimonials(c *gin.Context) {
	hp, ok := h.homepage(c, "Server error while fetching testimonials")
	if !ok {
		return
	}
	response.Success(c, "Testimonials retrieved", hp.Testimonials)
}

// AddTestimonial stores a testimonial; the picture is optional.
func (h *Handler) AddTestimonial(c *gin.Context) {
	const failMessage = "Server error while adding testimonial"
	req := middleware.Body[validation.TestimonialRequest](c)
	if _, ok := h.homepage(c, failMessage); !ok {
		return
	}

	image, ok := h.imageFromRequest(c, "testimonialImage", req.TestimonialImage)
	if !ok {
		return
	}
	entry := models.Testimonial{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Feedback: req.Feedback,
		Image:    image,
	}
	hp, err := h.Home.PushEntries(c.Request.Context(), models.TestimonialSection, []models.Testimonial{entry})
	if hp, ok := h.saved(c, hp, err, "Homepage", failMessage); ok {
		response.Success(c, "Testimonial added", hp.Testimonials)
	}
}

func (h *Handler) UpdateTestimonial(c *gin.Context) {
	const failMessage = "Server error while updating testimonial"
	id, ok := entryParam(c, "Testimonial")
	if !ok {
		return
	}
	req := middleware.Body[validation.TestimonialRequest](c)
	hp, ok := h.homepage(c, failMessage)
	if !ok {
		return
	}
	i := models.IndexOf(hp.Testimonials, id)
	if i < 0 {
		response.NotFound(c, "Testimonial")
		return
	}

	item := hp.Testimonials[i]
	item.Name = mergeText(item.Name, req.Name)
	item.Feedback = mergeText(item.Feedback, req.Feedback)
	image, ok := h.imageFromRequest(c, "testimonialImage", req.TestimonialImage)
	if !ok {
		return
	}
	if image != "" {
		item.Image = image
	}

	hp, err := h.Home.ReplaceEntry(c.Request.Context(), models.TestimonialSection, id, item)
	if _, ok := h.saved(c, hp, err, "Testimonial", failMessage); ok {
		response.Success(c, "Testimonial updated", item)
	}
}

func (h *Handler) DeleteTestimonial(c *gin.Context) {
	const failMessage = "Server error while deleting testimonial"
	id, ok := entryParam(c, "Testimonial")
	if !ok {
		return
	}
	if _, ok := h.homepage(c, failMessage); !ok {
		return
	}
	hp, err := h.Home.PullEntry(c.Request.Context(), models.TestimonialSection, id)
	if hp, ok := h.saved(c, hp, err, "Testimonial", failMessage); ok {
		response.Success(c, "Testimonial deleted", hp.Testimonials)
	}
}

/* about us */

func (h *Handler) GetAboutUs(c *gin.Context) {
	hp, ok := h.homepage(c, "Server error while fetching About Us")
	if !ok {
		return
	}
	response.Success(c, "About Us retrieved", hp.AboutUs)
}

// AddAboutUs sets the block, falling back to the stored values and the default title.
func (h *Handler) AddAboutUs(c *gin.Context) {
	h.writeAboutUs(c, "About Us added", "Server error while adding About Us", true)
}

// UpdateAboutUs merges the supplied fields. The optional :id is accepted and ignored.
func (h *Handler) UpdateAboutUs(c *gin.Context) {
	h.writeAboutUs(c, "About Us updated", "Server error while updating About Us", false)
}

func (h *Handler) writeAboutUs(c *gin.Context, done, failMessage string, defaultTitle bool) {
	req := middleware.Body[validation.AboutUsRequest](c)
	hp, ok := h.homepage(c, failMessage)
	if !ok {
		return
	}

	about := hp.AboutUs
	about.Title = mergeText(about.Title, req.Title)
	about.Description = mergeText(about.Description, req.Description)
	image, ok := h.imageFromRequest(c, "image", req.Image)
	if !ok {
		return
	}
	if image != "" {
		about.Image = image
	}
	if defaultTitle && about.Title == "" {
		about.Title = models.DefaultAboutUsTitle
	}

	hp, err := h.Home.SetAboutUs(c.Request.Context(), about)
	if hp, ok := h.saved(c, hp, err, "Homepage", failMessage); ok {
		response.Success(c, done, hp.AboutUs)
	}
}

// DeleteAboutUs resets the block to its empty state instead of removing it.
func (h *Handler) DeleteAboutUs(c *gin.Context) {
	const failMessage = "Server error while deleting About Us"
	if _, ok := h.homepage(c, failMessage); !ok {
		return
	}
	hp, err := h.Home.SetAboutUs(c.Request.Context(), models.DefaultAboutUs())
	if hp, ok := h.saved(c, hp, err, "Homepage", failMessage); ok {
		response.Success(c, "About Us deleted", hp.AboutUs)
	}
}
