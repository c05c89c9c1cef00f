package handler

import (
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/service"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

// formUpload opens the multipart "file" field. The caller must close the
// returned closer once the service has consumed the content.
func formUpload(c *gin.Context) (service.ArtifactUpload, io.Closer, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return service.ArtifactUpload{}, nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return service.ArtifactUpload{}, nil, appErrors.Internal(err, "failed to open file")
	}
	return service.ArtifactUpload{
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  src,
	}, src, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, key+" must be a number")
	}
	return n, nil
}
