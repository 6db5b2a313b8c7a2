package response

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorWithDataAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	ErrorWithData(c, CodeNotFound, "Order not found", gin.H{"error_key": "error.order_not_found"})

	if w.Code != 200 {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeNotFound || resp.Data["error_key"] != "error.order_not_found" || resp.Data["request_id"] != "req-9" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSuccessWithPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPage(c, []int{}, Pagination{Page: 1, PageSize: 20, Total: 0})

	var resp PageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeOK || resp.Pagination.PageSize != 20 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Fatalf("empty list should serialize as [], got %s", w.Body.String())
	}
}
