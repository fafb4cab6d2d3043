package test_utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type TestResponse struct {
	StatusCode int
	Body       []byte
}

func MakeRequest(
	t *testing.T,
	router *gin.Engine,
	method, url string,
	body any,
	expectedStatusCode int,
) *TestResponse {
	var requestBody *bytes.Buffer
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		requestBody = bytes.NewBuffer(bodyJSON)
	} else {
		requestBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, requestBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, expectedStatusCode, w.Code, "unexpected status, body: %s", w.Body.String())

	return &TestResponse{
		StatusCode: w.Code,
		Body:       w.Body.Bytes(),
	}
}

func MakeGetRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	expectedStatusCode int,
) *TestResponse {
	return MakeRequest(t, router, http.MethodGet, url, nil, expectedStatusCode)
}

func MakeGetRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	expectedStatusCode int,
	responseStruct any,
) {
	response := MakeGetRequest(t, router, url, expectedStatusCode)
	unmarshal(t, response, responseStruct)
}

func MakePostRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	body any,
	expectedStatusCode int,
) *TestResponse {
	return MakeRequest(t, router, http.MethodPost, url, body, expectedStatusCode)
}

func MakePostRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	body any,
	expectedStatusCode int,
	responseStruct any,
) {
	response := MakePostRequest(t, router, url, body, expectedStatusCode)
	unmarshal(t, response, responseStruct)
}

func unmarshal(t *testing.T, response *TestResponse, responseStruct any) {
	if err := json.Unmarshal(response.Body, responseStruct); err != nil {
		t.Fatalf("failed to unmarshal response %s: %v", string(response.Body), err)
	}
}
