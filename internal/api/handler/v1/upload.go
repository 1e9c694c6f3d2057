package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
)

// multipartOverhead leaves room for the form boundaries around the file.
const multipartOverhead = 1 << 20

type UploadService interface {
	UploadProof(ctx context.Context, callerID, filename, contentType string, size int64, body io.Reader) (string, error)
}

type UploadHandler struct {
	identity IdentityService
	svc      UploadService
	maxBytes int64
}

func NewUploadHandler(identity IdentityService, svc UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		identity: identity,
		svc:      svc,
		maxBytes: maxBytes,
	}
}

// HandleUploadProof godoc
// @Summary      Upload a proof image or video
// @Description  Returns the public URL to use in media_urls.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "proof file"
// @Success      201  {object}  response.UploadResponse
// @Failure      400  {object}  response.Err
// @Failure      413  {object}  response.Err
// @Failure      415  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /uploads [post]
// @Security BearerAuth
func (h *UploadHandler) HandleUploadProof(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if h.maxBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxBytes+multipartOverhead)
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RenderErr(ctx, response.ErrPayloadTooLarge(err))
			return
		}

		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("multipart field \"file\": %w", err)))
		return
	}

	file, err := header.Open()
	if err != nil {
		err = fmt.Errorf("HandleUploadProof -> header.Open -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	defer file.Close()

	url, err := h.svc.UploadProof(ctx.Request.Context(), caller.UserID, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		renderServiceErr(ctx, "HandleUploadProof -> h.svc.UploadProof", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.UploadResponse{URL: url})
}
