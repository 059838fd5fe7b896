package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const approvedFundingPath = "/pipeline/funding-requests/approved"

func setupPipelineRouter(apiKey string) *gin.Engine {
	r := gin.New()
	pipeline := r.Group("/pipeline", PipelineAuthMiddleware(apiKey))
	pipeline.GET("/funding-requests/approved", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []string{}, "pipeline": c.GetBool(PipelineKey)})
	})
	return r
}

func doPipelineRequest(r *gin.Engine, header, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, approvedFundingPath, http.NoBody)
	if apiKey != "" {
		req.Header.Set(header, apiKey)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func TestPipelineAuthMiddleware(t *testing.T) {
	const key = "allocation-job-key"

	tests := []struct {
		name          string
		configuredKey string
		header        string
		requestKey    string
		wantStatus    int
		wantErrorCode string
	}{
		{
			name:          "valid_key",
			configuredKey: key,
			header:        APIKeyHeader,
			requestKey:    key,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "header_name_case_insensitive",
			configuredKey: key,
			header:        "x-api-key",
			requestKey:    key,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "wrong_key",
			configuredKey: key,
			header:        APIKeyHeader,
			requestKey:    "someone-elses-key",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_API_KEY",
		},
		{
			name:          "missing_key",
			configuredKey: key,
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_API_KEY",
		},
		{
			name:          "prefix_of_key",
			configuredKey: key,
			header:        APIKeyHeader,
			requestKey:    key[:10],
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_API_KEY",
		},
		{
			name:          "bearer_header_not_accepted",
			configuredKey: key,
			header:        "Authorization",
			requestKey:    "Bearer " + key,
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_API_KEY",
		},
		{
			name:          "pipeline_disabled",
			configuredKey: "",
			header:        APIKeyHeader,
			requestKey:    key,
			wantStatus:    http.StatusServiceUnavailable,
			wantErrorCode: "PIPELINE_NOT_CONFIGURED",
		},
		{
			name:          "pipeline_disabled_without_key",
			configuredKey: "",
			wantStatus:    http.StatusServiceUnavailable,
			wantErrorCode: "PIPELINE_NOT_CONFIGURED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doPipelineRequest(setupPipelineRouter(tt.configuredKey), tt.header, tt.requestKey)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			body := parseBody(t, rec)
			if tt.wantErrorCode != "" {
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatal("expected error object in response")
				}
				if code, _ := errObj["code"].(string); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
				return
			}

			if marked, _ := body["pipeline"].(bool); !marked {
				t.Error("expected the handler to see an authenticated pipeline request")
			}
		})
	}
}
