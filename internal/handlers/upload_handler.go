package handlers

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxUploadFiles caps a single multi-upload request
const maxUploadFiles = 5

// UploadHandler stores uploaded media and returns reference paths. Content
// checks (size, type) are left to the client and are not authoritative.
type UploadHandler struct {
	dir string
}

// NewUploadHandler creates a new UploadHandler writing into dir
func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

// RegisterUploadRoutes registers upload routes on the protected group
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/upload/single", h.UploadSingle)
	g.POST("/upload/multiple", h.UploadMultiple)
}

// UploadSingle stores one file from the "file" form field
func (h *UploadHandler) UploadSingle(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}

	fileURL, err := h.store(file)
	if err != nil {
		log.Printf("Upload error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error uploading file")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"msg":      "File uploaded successfully",
		"fileUrl":  fileURL,
		"filename": filepath.Base(fileURL),
	})
}

// UploadMultiple stores up to maxUploadFiles files from the "files" form field
func (h *UploadHandler) UploadMultiple(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No files uploaded")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No files uploaded")
	}
	if len(files) > maxUploadFiles {
		files = files[:maxUploadFiles]
	}

	fileURLs := make([]string, 0, len(files))
	for _, file := range files {
		fileURL, err := h.store(file)
		if err != nil {
			log.Printf("Upload error: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error uploading files")
		}
		fileURLs = append(fileURLs, fileURL)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"msg":      "Files uploaded successfully",
		"fileUrls": fileURLs,
	})
}

// store writes the file under a generated name and returns its serving path
func (h *UploadHandler) store(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
