package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DownloadReport streams a stored report as an attachment.
func (h *Handler) DownloadReport(c *gin.Context) {
	rep, body, err := h.reportSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rep.Filename))
	c.Data(http.StatusOK, rep.ContentType, body)
}
