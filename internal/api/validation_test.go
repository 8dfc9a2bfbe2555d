package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotPayload struct {
	Date      string `json:"date" binding:"required,isodate"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	Rating    int    `json:"rating" binding:"min=1,max=5"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		payload slotPayload
		tags    []string
	}{
		{"valid", slotPayload{Date: "2025-03-10", StartTime: "08:00", Rating: 5}, nil},
		{"bad clock", slotPayload{Date: "2025-03-10", StartTime: "8:00", Rating: 3}, []string{"hhmm"}},
		{"out of range clock", slotPayload{Date: "2025-03-10", StartTime: "25:00", Rating: 3}, []string{"hhmm"}},
		{"bad date", slotPayload{Date: "10/03/2025", StartTime: "08:00", Rating: 3}, []string{"isodate"}},
		{"rating too high", slotPayload{Date: "2025-03-10", StartTime: "08:00", Rating: 6}, []string{"max"}},
		{"missing", slotPayload{Rating: 1}, []string{"required", "required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.payload)
			require.Len(t, errs, len(tt.tags))
			for i, tag := range tt.tags {
				assert.Equal(t, tag, errs[i].Tag)
				assert.NotEmpty(t, errs[i].Message)
			}
		})
	}
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var p slotPayload
		if !BindJSON(c, &p) {
			return
		}
		c.JSON(http.StatusOK, p)
	})

	tests := []struct {
		name   string
		body   string
		status int
		expect string
	}{
		{"valid", `{"date":"2025-03-10","start_time":"09:30","rating":4}`, http.StatusOK, "09:30"},
		{"malformed", `{"date":`, http.StatusBadRequest, "Invalid request body"},
		{"invalid clock", `{"date":"2025-03-10","start_time":"9.30","rating":4}`, http.StatusBadRequest, "HH:mm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.expect)
		})
	}
}

func TestRegisterCustomValidators(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, registerCustom(v))
	require.NoError(t, RegisterBindingValidators())

	err := binding.Validator.ValidateStruct(slotPayload{Date: "2025-02-30", StartTime: "08:00", Rating: 3})
	assert.Error(t, err)
	assert.NoError(t, binding.Validator.ValidateStruct(slotPayload{Date: "2025-02-28", StartTime: "08:00", Rating: 3}))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 27)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 27, p.TotalItems)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
