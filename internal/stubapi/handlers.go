package stubapi

import (
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/gomp-client/internal/types"
)

// UploadField is the multipart field the upload handler reads
const UploadField = "file_content"

// Handler serves the GOMP REST surface from an in-memory dataset
type Handler struct {
	data *Data
	auth *AuthService
}

// NewHandler creates a handler over data and auth
func NewHandler(data *Data, auth *AuthService) *Handler {
	return &Handler{data: data, auth: auth}
}

// RegisterRoutes mounts every endpoint under router. Reads are public,
// writes need a bearer token.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := AuthMiddleware(h.auth)

	router.POST("/auth", h.Login)
	router.GET("/tags", h.ListTags)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", requireAuth, h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.GET("/:id/image", h.GetMainImage)
		recipes.PUT("/:id/image", requireAuth, h.SetMainImage)
		recipes.GET("/:id/images", h.ListImages)
		recipes.POST("/:id/images", requireAuth, h.UploadImage)
		recipes.GET("/:id/notes", h.ListNotes)
		recipes.PUT("/:id/rating", requireAuth, h.SetRating)
	}

	router.DELETE("/images/:id", requireAuth, h.DeleteImage)

	notes := router.Group("/notes", requireAuth)
	{
		notes.POST("", h.CreateNote)
		notes.PUT("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
	}
}

func abortError(c *gin.Context, code int, msg string) {
	c.JSON(code, types.ErrorResponse{Error: msg})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) Login(c *gin.Context) {
	var req types.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		log.Printf("[StubAPI] login failed for %q: %v", req.Username, err)
		abortError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{Token: token})
}

// parseFilter reads q, tags, sort, dir, page and count. Empty tags= values
// are ignored.
func parseFilter(c *gin.Context) types.SearchFilter {
	f := types.SearchFilter{
		Query: c.Query("q"),
		Tags:  c.QueryArray("tags"),
		Sort:  types.SortByName,
		Dir:   types.SortAsc,
	}
	if s := c.Query("sort"); types.ValidSortField(s) {
		f.Sort = types.SortField(s)
	}
	if d := c.Query("dir"); types.ValidSortDir(d) {
		f.Dir = types.SortDir(d)
	}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.PageSize, _ = strconv.Atoi(c.Query("count"))
	return f.Normalize(20)
}

func (h *Handler) ListRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, h.data.Search(parseFilter(c)))
}

func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	recipe, found := h.data.Recipe(id)
	if !found {
		abortError(c, http.StatusNotFound, "recipe not found")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *Handler) CreateRecipe(c *gin.Context) {
	var recipe types.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(recipe.Name) == "" {
		abortError(c, http.StatusBadRequest, "name is required")
		return
	}

	id := h.data.AddRecipe(recipe)
	c.Header("Location", "/api/v1/recipes/"+strconv.FormatInt(id, 10))
	c.String(http.StatusCreated, strconv.FormatInt(id, 10))
}

func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var recipe types.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	if recipe.ID != 0 && recipe.ID != id {
		abortError(c, http.StatusBadRequest, "id in body does not match path")
		return
	}
	recipe.ID = id
	if !h.data.UpdateRecipe(recipe) {
		abortError(c, http.StatusNotFound, "recipe not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if !h.data.DeleteRecipe(id) {
		abortError(c, http.StatusNotFound, "recipe not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetMainImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	img, found := h.data.MainImage(id)
	if !found {
		abortError(c, http.StatusNotFound, "recipe has no main image")
		return
	}
	c.JSON(http.StatusOK, img)
}

func (h *Handler) SetMainImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var imageID int64
	if err := c.ShouldBindJSON(&imageID); err != nil {
		abortError(c, http.StatusBadRequest, "body must be an image id")
		return
	}
	if !h.data.SetMainImage(id, imageID) {
		abortError(c, http.StatusNotFound, "image not found for recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListImages(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.data.Images(id))
}

func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	file, err := c.FormFile(UploadField)
	if err != nil {
		abortError(c, http.StatusBadRequest, "missing "+UploadField)
		return
	}
	img, found := h.data.AddImage(id, filepath.Base(file.Filename))
	if !found {
		abortError(c, http.StatusNotFound, "recipe not found")
		return
	}
	c.Header("Location", img.URL)
	c.String(http.StatusCreated, img.URL)
}

func (h *Handler) DeleteImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if !h.data.DeleteImage(id) {
		abortError(c, http.StatusNotFound, "image not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.data.Notes(id))
}

func (h *Handler) CreateNote(c *gin.Context) {
	var note types.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	id, found := h.data.AddNote(note)
	if !found {
		abortError(c, http.StatusNotFound, "recipe not found")
		return
	}
	c.String(http.StatusCreated, strconv.FormatInt(id, 10))
}

func (h *Handler) UpdateNote(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var note types.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	note.ID = id
	if !h.data.UpdateNote(note) {
		abortError(c, http.StatusNotFound, "note not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if !h.data.DeleteNote(id) {
		abortError(c, http.StatusNotFound, "note not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetRating(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var rating float64
	if err := c.ShouldBindJSON(&rating); err != nil || rating < 0 || rating > 5 {
		abortError(c, http.StatusBadRequest, "rating must be a number between 0 and 5")
		return
	}
	if !h.data.SetRating(id, rating) {
		abortError(c, http.StatusNotFound, "recipe not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListTags(c *gin.Context) {
	dir := types.SortAsc
	if types.SortDir(c.Query("dir")) == types.SortDesc {
		dir = types.SortDesc
	}
	count, _ := strconv.Atoi(c.Query("count"))
	c.JSON(http.StatusOK, h.data.Tags(dir, count))
}
