package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAttachmentASCIIFilename(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Attachment(c, "Ahmed_Hassan_STU001_Sessions.csv", "text/csv", []byte("a,b\n"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Ahmed_Hassan_STU001_Sessions.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "a,b\n", w.Body.String())
}

func TestAttachmentNonASCIIFilename(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Attachment(c, "عمر_Report.pdf", "application/pdf", []byte("%PDF-"))

	assert.Equal(t,
		`attachment; filename="___Report.pdf"; filename*=UTF-8''%D8%B9%D9%85%D8%B1_Report.pdf`,
		w.Header().Get("Content-Disposition"))
}
